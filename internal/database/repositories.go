package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/benvon/smart-notes/internal/models"
)

// NoteRepositoryInterface defines the interface for note repository operations
// This interface enables better testability by allowing mock implementations
type NoteRepositoryInterface interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error)
	List(ctx context.Context, status *models.NoteStatus, page, pageSize int) ([]*models.Note, int, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, note *models.Note) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.NoteStatus) error
	SetAnalysis(ctx context.Context, id uuid.UUID, analysis *models.AnalysisResult) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActionRepositoryInterface defines the interface for assistant action repository operations
type ActionRepositoryInterface interface {
	ReplaceForNote(ctx context.Context, noteID uuid.UUID, actions []*models.AssistantAction) error
	GetByID(ctx context.Context, id string) (*models.AssistantAction, error)
	GetByNoteID(ctx context.Context, noteID uuid.UUID) ([]*models.AssistantAction, error)
	SetExecuted(ctx context.Context, id string, executed bool) error
}

// Ensure concrete types implement the interfaces
var (
	_ NoteRepositoryInterface   = (*NoteRepository)(nil)
	_ ActionRepositoryInterface = (*ActionRepository)(nil)
)
