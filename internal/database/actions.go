package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/benvon/smart-notes/internal/models"
)

// ActionRepository handles assistant action database operations.
// Actions are regenerated whenever a note is re-analyzed, so writes happen
// through ReplaceForNote rather than individual inserts.
type ActionRepository struct {
	db *DB
}

// NewActionRepository creates a new action repository
func NewActionRepository(db *DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// ReplaceForNote atomically swaps the stored actions for a note with the
// freshly generated set.
func (r *ActionRepository) ReplaceForNote(ctx context.Context, noteID uuid.UUID, actions []*models.AssistantAction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assistant_actions WHERE note_id = $1`, noteID); err != nil {
		return fmt.Errorf("failed to clear actions: %w", err)
	}

	// position preserves generation order; the deterministic ids are not
	// sortable (task-10 sorts before task-2, and families sort alphabetically)
	query := `
		INSERT INTO assistant_actions (id, note_id, position, type, title, description, data, executed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i, action := range actions {
		dataJSON, err := json.Marshal(action.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal action data: %w", err)
		}
		_, err = tx.ExecContext(ctx, query,
			action.ID,
			noteID,
			i,
			action.Type,
			action.Title,
			action.Description,
			dataJSON,
			action.Executed,
			action.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert action: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit actions: %w", err)
	}
	return nil
}

// GetByID retrieves an assistant action by its deterministic ID
func (r *ActionRepository) GetByID(ctx context.Context, id string) (*models.AssistantAction, error) {
	query := `
		SELECT id, note_id, type, title, description, data, executed, created_at
		FROM assistant_actions
		WHERE id = $1
	`

	action, err := scanAction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("action not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return action, nil
}

// GetByNoteID retrieves all actions for a note in generation order
func (r *ActionRepository) GetByNoteID(ctx context.Context, noteID uuid.UUID) ([]*models.AssistantAction, error) {
	query := `
		SELECT id, note_id, type, title, description, data, executed, created_at
		FROM assistant_actions
		WHERE note_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.AssistantAction
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, action)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}

	return actions, nil
}

// SetExecuted updates the advisory executed flag on an action
func (r *ActionRepository) SetExecuted(ctx context.Context, id string, executed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE assistant_actions SET executed = $2 WHERE id = $1`,
		id, executed,
	)
	if err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("action not found")
	}

	return nil
}

func scanAction(row rowScanner) (*models.AssistantAction, error) {
	action := &models.AssistantAction{}
	var noteID uuid.UUID
	var dataJSON []byte

	err := row.Scan(
		&action.ID,
		&noteID,
		&action.Type,
		&action.Title,
		&action.Description,
		&dataJSON,
		&action.Executed,
		&action.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(dataJSON, &action.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal action data: %w", err)
	}
	action.SourceNoteID = noteID.String()

	return action, nil
}
