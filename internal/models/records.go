package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle stage of a project
type ProjectStatus string

const (
	ProjectStatusPlanning ProjectStatus = "planning"
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusOnHold   ProjectStatus = "on-hold"
	ProjectStatusDone     ProjectStatus = "done"
)

// Task represents a task item
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Priority     Priority   `json:"priority"`
	Completed    bool       `json:"completed"`
	Tags         []string   `json:"tags"`
	SourceNoteID string     `json:"source_note_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CalendarEvent represents a calendar event
type CalendarEvent struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Location     string     `json:"location,omitempty"`
	Attendees    []string   `json:"attendees"`
	AllDay       bool       `json:"all_day"`
	SourceNoteID string     `json:"source_note_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Contact represents a contact record
type Contact struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Company      string    `json:"company,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Tags         []string  `json:"tags"`
	SourceNoteID string    `json:"source_note_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Project represents a project record
type Project struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Status       ProjectStatus `json:"status"`
	Progress     int           `json:"progress"`
	StartDate    *time.Time    `json:"start_date,omitempty"`
	EndDate      *time.Time    `json:"end_date,omitempty"`
	Team         []string      `json:"team"`
	Tags         []string      `json:"tags"`
	Budget       *int          `json:"budget,omitempty"`
	SourceNoteID string        `json:"source_note_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
