package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/benvon/smart-notes/internal/models"
)

// EventRepository handles calendar event database operations
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new calendar event
func (r *EventRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (id, title, description, start_date, end_date, location, attendees, all_day, source_note_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Location,
		pq.Array(event.Attendees),
		event.AllDay,
		event.SourceNoteID,
		now,
		now,
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves a calendar event by ID
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CalendarEvent, error) {
	query := `
		SELECT id, title, description, start_date, end_date, location, attendees, all_day, source_note_id, created_at, updated_at
		FROM calendar_events
		WHERE id = $1
	`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// List retrieves all calendar events ordered by start date
func (r *EventRepository) List(ctx context.Context) ([]*models.CalendarEvent, error) {
	query := `
		SELECT id, title, description, start_date, end_date, location, attendees, all_day, source_note_id, created_at, updated_at
		FROM calendar_events
		ORDER BY start_date ASC NULLS LAST
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// ExistsBySource reports whether an event with the given source note and
// title already exists.
func (r *EventRepository) ExistsBySource(ctx context.Context, sourceNoteID, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM calendar_events WHERE source_note_id = $1 AND title = $2)`,
		sourceNoteID, title,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return exists, nil
}

// Delete deletes a calendar event by ID
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.CalendarEvent, error) {
	event := &models.CalendarEvent{}
	var startDate, endDate sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&startDate,
		&endDate,
		&event.Location,
		pq.Array(&event.Attendees),
		&event.AllDay,
		&event.SourceNoteID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startDate.Valid {
		event.StartDate = &startDate.Time
	}
	if endDate.Valid {
		event.EndDate = &endDate.Time
	}

	return event, nil
}
