package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benvon/smart-notes/internal/models"
)

// NoteRepository handles note database operations
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create creates a new note
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, title, content, status, analysis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	analysisJSON, err := marshalAnalysis(note.Analysis)
	if err != nil {
		return err
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		note.Status,
		analysisJSON,
		now,
		now,
	).Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by ID
func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	note := &models.Note{}
	var analysisJSON []byte

	query := `
		SELECT id, title, content, status, analysis, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.Status,
		&analysisJSON,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("note not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	if note.Analysis, err = unmarshalAnalysis(analysisJSON); err != nil {
		return nil, err
	}

	return note, nil
}

// List retrieves notes, optionally filtered by status, newest first
func (r *NoteRepository) List(ctx context.Context, status *models.NoteStatus, page, pageSize int) ([]*models.Note, int, error) {
	countQuery := `SELECT COUNT(*) FROM notes`
	query := `
		SELECT id, title, content, status, analysis, created_at, updated_at
		FROM notes
	`
	var args []any
	if status != nil {
		countQuery += ` WHERE status = $1`
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		var analysisJSON []byte

		err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Content,
			&note.Status,
			&analysisJSON,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}

		if note.Analysis, err = unmarshalAnalysis(analysisJSON); err != nil {
			return nil, 0, err
		}

		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, total, nil
}

// ListIDs retrieves the ids of all notes, newest first
func (r *NoteRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM notes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query note ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan note id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating note ids: %w", err)
	}

	return ids, nil
}

// Update updates a note's title and content and resets it to pending so the
// worker re-analyzes the new text.
func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes
		SET title = $2, content = $3, status = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		note.Status,
		now,
	).Scan(&note.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("note not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

// UpdateStatus sets the analysis status of a note
func (r *NoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.NoteStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update note status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note not found")
	}

	return nil
}

// SetAnalysis stores the analysis result and marks the note processed
func (r *NoteRepository) SetAnalysis(ctx context.Context, id uuid.UUID, analysis *models.AnalysisResult) error {
	analysisJSON, err := marshalAnalysis(analysis)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET analysis = $2, status = $3, updated_at = $4 WHERE id = $1`,
		id, analysisJSON, models.NoteStatusProcessed, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note not found")
	}

	return nil
}

// Delete deletes a note by ID
func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note not found")
	}

	return nil
}

func marshalAnalysis(analysis *models.AnalysisResult) ([]byte, error) {
	if analysis == nil {
		return nil, nil
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return data, nil
}

func unmarshalAnalysis(data []byte) (*models.AnalysisResult, error) {
	if len(data) == 0 {
		return nil, nil
	}
	analysis := &models.AnalysisResult{}
	if err := json.Unmarshal(data, analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return analysis, nil
}
