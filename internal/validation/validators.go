package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/benvon/smart-notes/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("note_status", validateNoteStatus); err != nil {
		panic(fmt.Sprintf("failed to register note_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("action_type", validateActionType); err != nil {
		panic(fmt.Sprintf("failed to register action_type validator: %v", err))
	}
}

func validateNoteStatus(fl validator.FieldLevel) bool {
	return ValidateNoteStatus(fl.Field().String()) == nil
}

func validatePriority(fl validator.FieldLevel) bool {
	return ValidatePriority(fl.Field().String()) == nil
}

func validateActionType(fl validator.FieldLevel) bool {
	return ValidateActionType(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateNoteStatus validates a NoteStatus string value
func ValidateNoteStatus(value string) error {
	switch models.NoteStatus(value) {
	case models.NoteStatusPending, models.NoteStatusProcessing, models.NoteStatusProcessed:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'pending', 'processing', or 'processed')", value)
	}
}

// ValidatePriority validates a Priority string value
func ValidatePriority(value string) error {
	switch models.Priority(value) {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'high', 'medium', or 'low')", value)
	}
}

// ValidateActionType validates an ActionType string value
func ValidateActionType(value string) error {
	switch models.ActionType(value) {
	case models.ActionTypeCreateTask, models.ActionTypeCreateEvent, models.ActionTypeCreateContact,
		models.ActionTypeCreateProject, models.ActionTypeSetReminder:
		return nil
	default:
		return fmt.Errorf("invalid action type: %s", value)
	}
}
