package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/smart-notes/internal/database"
	"github.com/benvon/smart-notes/internal/models"
	"github.com/benvon/smart-notes/internal/queue"
)

// mockNoteRepo is a mock implementation of NoteRepositoryInterface
type mockNoteRepo struct {
	createFunc  func(ctx context.Context, note *models.Note) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*models.Note, error)
	listFunc    func(ctx context.Context, status *models.NoteStatus, page, pageSize int) ([]*models.Note, int, error)
	updateFunc  func(ctx context.Context, note *models.Note) error
	deleteFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockNoteRepo) Create(ctx context.Context, note *models.Note) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &models.Note{ID: id, Content: "some note text", Status: models.NoteStatusProcessed}, nil
}

func (m *mockNoteRepo) List(ctx context.Context, status *models.NoteStatus, page, pageSize int) ([]*models.Note, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, page, pageSize)
	}
	return []*models.Note{}, 0, nil
}

func (m *mockNoteRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }

func (m *mockNoteRepo) Update(ctx context.Context, note *models.Note) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.NoteStatus) error {
	return nil
}

func (m *mockNoteRepo) SetAnalysis(ctx context.Context, id uuid.UUID, analysis *models.AnalysisResult) error {
	return nil
}

func (m *mockNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// Ensure mock implements interface
var _ database.NoteRepositoryInterface = (*mockNoteRepo)(nil)

// mockJobQueue is a mock implementation of JobQueue
type mockJobQueue struct {
	enqueueFunc func(ctx context.Context, job *queue.Job) error
	enqueued    []*queue.Job
}

func (m *mockJobQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, job)
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

func (m *mockJobQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (m *mockJobQueue) Close() error                          { return nil }
func (m *mockJobQueue) HealthCheck(ctx context.Context) error { return nil }

var _ queue.JobQueue = (*mockJobQueue)(nil)

func newNotesRouter(h *NoteHandler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/v1/notes").Subrouter())
	return r
}

func TestCreateNote(t *testing.T) {
	t.Parallel()

	var created *models.Note
	repo := &mockNoteRepo{
		createFunc: func(_ context.Context, note *models.Note) error {
			created = note
			return nil
		},
	}
	jobQueue := &mockJobQueue{}
	h := NewNoteHandler(repo, jobQueue, zap.NewNop())

	body, _ := json.Marshal(CreateNoteRequest{Title: "groceries", Content: "todo: buy milk"})
	req := httptest.NewRequest("POST", "/api/v1/notes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created == nil {
		t.Fatal("Expected the note to be persisted")
	}
	if created.Status != models.NoteStatusPending {
		t.Errorf("Expected a new note to be pending, got %s", created.Status)
	}
	if len(jobQueue.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued job, got %d", len(jobQueue.enqueued))
	}
	job := jobQueue.enqueued[0]
	if job.Type != queue.JobTypeNoteAnalysis {
		t.Errorf("Expected a note analysis job, got %s", job.Type)
	}
	if job.NoteID == nil || *job.NoteID != created.ID {
		t.Errorf("Expected the job to target the new note, got %v", job.NoteID)
	}
}

func TestCreateNote_EmptyContent(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&mockNoteRepo{}, &mockJobQueue{}, zap.NewNop())

	body, _ := json.Marshal(map[string]string{"content": ""})
	req := httptest.NewRequest("POST", "/api/v1/notes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestCreateNote_InvalidBody(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&mockNoteRepo{}, &mockJobQueue{}, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/v1/notes", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestCreateNote_EnqueueFailureStillCreates(t *testing.T) {
	t.Parallel()

	repo := &mockNoteRepo{}
	jobQueue := &mockJobQueue{
		enqueueFunc: func(context.Context, *queue.Job) error {
			return errors.New("broker down")
		},
	}
	h := NewNoteHandler(repo, jobQueue, zap.NewNop())

	body, _ := json.Marshal(CreateNoteRequest{Content: "remember the milk"})
	req := httptest.NewRequest("POST", "/api/v1/notes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201 despite enqueue failure, got %d", rec.Code)
	}
}

func TestGetNote_InvalidID(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&mockNoteRepo{}, &mockJobQueue{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/v1/notes/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockNoteRepo{
		getByIDFunc: func(context.Context, uuid.UUID) (*models.Note, error) {
			return nil, errors.New("note not found")
		},
	}
	h := NewNoteHandler(repo, &mockJobQueue{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/v1/notes/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestListNotes_InvalidStatus(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&mockNoteRepo{}, &mockJobQueue{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/v1/notes?status=bogus", nil)
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestUpdateNote_ContentChangeTriggersReanalysis(t *testing.T) {
	t.Parallel()

	noteID := uuid.New()
	repo := &mockNoteRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*models.Note, error) {
			return &models.Note{ID: id, Content: "old text", Status: models.NoteStatusProcessed}, nil
		},
	}
	jobQueue := &mockJobQueue{}
	h := NewNoteHandler(repo, jobQueue, zap.NewNop())

	newContent := "todo: new text"
	body, _ := json.Marshal(UpdateNoteRequest{Content: &newContent})
	req := httptest.NewRequest("PATCH", "/api/v1/notes/"+noteID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(jobQueue.enqueued) != 1 {
		t.Errorf("Expected a re-analysis job, got %d jobs", len(jobQueue.enqueued))
	}
}

func TestUpdateNote_TitleOnlyDoesNotReanalyze(t *testing.T) {
	t.Parallel()

	noteID := uuid.New()
	jobQueue := &mockJobQueue{}
	h := NewNoteHandler(&mockNoteRepo{}, jobQueue, zap.NewNop())

	title := "renamed"
	body, _ := json.Marshal(UpdateNoteRequest{Title: &title})
	req := httptest.NewRequest("PATCH", "/api/v1/notes/"+noteID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if len(jobQueue.enqueued) != 0 {
		t.Errorf("Expected no analysis jobs for a title change, got %d", len(jobQueue.enqueued))
	}
}

func TestReanalyzeAll(t *testing.T) {
	t.Parallel()

	jobQueue := &mockJobQueue{}
	h := NewNoteHandler(&mockNoteRepo{}, jobQueue, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/v1/notes/reanalyze", nil)
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", rec.Code)
	}
	if len(jobQueue.enqueued) != 1 || jobQueue.enqueued[0].Type != queue.JobTypeReanalyzeAll {
		t.Errorf("Expected a reanalyze-all job, got %v", jobQueue.enqueued)
	}
}

func TestDeleteNote(t *testing.T) {
	t.Parallel()

	h := NewNoteHandler(&mockNoteRepo{}, &mockJobQueue{}, zap.NewNop())

	req := httptest.NewRequest("DELETE", "/api/v1/notes/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newNotesRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
}
