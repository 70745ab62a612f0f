package models

import (
	"time"
)

// ActionType represents the kind of record an assistant action proposes to create
type ActionType string

const (
	ActionTypeCreateTask    ActionType = "create-task"
	ActionTypeCreateEvent   ActionType = "create-event"
	ActionTypeCreateContact ActionType = "create-contact"
	ActionTypeCreateProject ActionType = "create-project"
	ActionTypeSetReminder   ActionType = "set-reminder"
)

// TaskDraft is the partial task carried by a create-task action.
// Identity and timestamp fields are filled in at execution time.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// EventDraft is the partial calendar event carried by a create-event action
type EventDraft struct {
	Title     string     `json:"title"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Location  string     `json:"location,omitempty"`
	Attendees []string   `json:"attendees,omitempty"`
}

// ContactDraft is the partial contact carried by a create-contact action
type ContactDraft struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ProjectDraft is the partial project carried by a create-project action
type ProjectDraft struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Team        []string   `json:"team,omitempty"`
	Budget      *int       `json:"budget,omitempty"`
}

// ActionData holds the draft record for an assistant action.
// Exactly one field is populated, matching the action type.
type ActionData struct {
	Task    *TaskDraft    `json:"task,omitempty"`
	Event   *EventDraft   `json:"event,omitempty"`
	Contact *ContactDraft `json:"contact,omitempty"`
	Project *ProjectDraft `json:"project,omitempty"`
}

// AssistantAction is a proposed, not-yet-materialized record derived from a note.
// ID is deterministic within one generation call (note id + action kind + ordinal).
// Executed is advisory only; the authoritative signal is the presence of a
// matching record in the target collection.
type AssistantAction struct {
	ID           string     `json:"id"`
	Type         ActionType `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Data         ActionData `json:"data"`
	SourceNoteID string     `json:"source_note_id"`
	Executed     bool       `json:"executed"`
	CreatedAt    time.Time  `json:"created_at"`
}
