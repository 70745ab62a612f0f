package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the coarse classification label assigned to a note
type Category string

const (
	CategoryMeeting Category = "Meeting"
	CategoryTask    Category = "Task"
	CategoryIdea    Category = "Idea"
	CategoryContact Category = "Contact"
	CategoryProject Category = "Project"
	CategoryFinance Category = "Finance"
	// CategoryGeneral is the fallback when no classifier score clears the confidence floor
	CategoryGeneral Category = "General"
)

// Priority represents the urgency assigned to a note
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// NoteStatus represents the analysis status of a note
type NoteStatus string

const (
	NoteStatusPending    NoteStatus = "pending"
	NoteStatusProcessing NoteStatus = "processing"
	NoteStatusProcessed  NoteStatus = "processed"
)

// Note represents a free-text note
type Note struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Status    NoteStatus      `json:"status"`
	Analysis  *AnalysisResult `json:"analysis,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
