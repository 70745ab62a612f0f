package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/smart-notes/internal/database"
	"github.com/benvon/smart-notes/internal/models"
	"github.com/benvon/smart-notes/internal/queue"
	"github.com/benvon/smart-notes/internal/validation"
)

const (
	// MaxNoteContentLength is the maximum length for note content
	MaxNoteContentLength = 50000
	// MaxNoteTitleLength is the maximum length for note titles
	MaxNoteTitleLength = 500
	// DefaultPageSize is the default page size for pagination
	DefaultPageSize = 50
	// MaxPageSize is the maximum page size for pagination
	MaxPageSize = 200
)

// NoteHandler handles note-related requests
type NoteHandler struct {
	noteRepo database.NoteRepositoryInterface
	jobQueue queue.JobQueue
	logger   *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteRepo database.NoteRepositoryInterface, jobQueue queue.JobQueue, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{noteRepo: noteRepo, jobQueue: jobQueue, logger: logger}
}

// RegisterRoutes registers note routes on the given router
// The router should already have the /notes prefix
func (h *NoteHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListNotes).Methods("GET")
	r.HandleFunc("", h.CreateNote).Methods("POST")
	r.HandleFunc("/reanalyze", h.ReanalyzeAll).Methods("POST")
	r.HandleFunc("/{id}", h.GetNote).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateNote).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteNote).Methods("DELETE")
}

// CreateNoteRequest represents a create note request
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"max=500"`
	Content string `json:"content" validate:"required,min=1,max=50000"`
}

// UpdateNoteRequest represents an update note request
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ListNotesResponse represents the paginated response for listing notes
type ListNotesResponse struct {
	Notes      []*models.Note `json:"notes"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// ListNotes lists notes with pagination and an optional status filter
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize := DefaultPageSize
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 {
			if parsed > MaxPageSize {
				pageSize = MaxPageSize
			} else {
				pageSize = parsed
			}
		}
	}

	var status *models.NoteStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if err := validation.ValidateNoteStatus(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		sEnum := models.NoteStatus(s)
		status = &sEnum
	}

	notes, total, err := h.noteRepo.List(ctx, status, page, pageSize)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve notes")
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	respondJSON(w, http.StatusOK, ListNotesResponse{
		Notes:      notes,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	})
}

// CreateNote creates a new note and enqueues it for analysis
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	req.Content = validation.SanitizeText(req.Content)
	if req.Content == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Content is required and cannot be empty after sanitization")
		return
	}
	if len(req.Content) > MaxNoteContentLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Content exceeds maximum length of %d characters", MaxNoteContentLength))
		return
	}

	ctx := r.Context()
	note := &models.Note{
		ID:      uuid.New(),
		Title:   req.Title,
		Content: req.Content,
		Status:  models.NoteStatusPending,
	}

	if err := h.noteRepo.Create(ctx, note); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create note")
		return
	}

	h.enqueueAnalysis(r, note.ID)

	respondJSON(w, http.StatusCreated, note)
}

// GetNote retrieves a note by ID
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid note ID")
		return
	}

	note, err := h.noteRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Note not found")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// UpdateNote updates a note's title or content. A content change resets the
// note to pending and enqueues a fresh analysis.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid note ID")
		return
	}

	ctx := r.Context()
	note, err := h.noteRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Note not found")
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	contentChanged := false
	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		if len(title) > MaxNoteTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title exceeds maximum length of %d characters", MaxNoteTitleLength))
			return
		}
		note.Title = title
	}
	if req.Content != nil {
		content := validation.SanitizeText(*req.Content)
		if content == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Content cannot be empty after sanitization")
			return
		}
		if len(content) > MaxNoteContentLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Content exceeds maximum length of %d characters", MaxNoteContentLength))
			return
		}
		if content != note.Content {
			note.Content = content
			note.Status = models.NoteStatusPending
			contentChanged = true
		}
	}

	if err := h.noteRepo.Update(ctx, note); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update note")
		return
	}

	if contentChanged {
		h.enqueueAnalysis(r, note.ID)
	}

	respondJSON(w, http.StatusOK, note)
}

// DeleteNote deletes a note
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid note ID")
		return
	}

	if err := h.noteRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Note not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReanalyzeAll enqueues a job that re-analyzes every note
func (h *NoteHandler) ReanalyzeAll(w http.ResponseWriter, r *http.Request) {
	job := queue.NewJob(queue.JobTypeReanalyzeAll, nil)
	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to enqueue reanalysis")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID.String()})
}

// enqueueAnalysis queues a background analysis job for the note. Enqueue
// failures are logged but do not fail the request; the note stays pending
// and a later reanalyze pass will pick it up.
func (h *NoteHandler) enqueueAnalysis(r *http.Request, noteID uuid.UUID) {
	job := queue.NewJob(queue.JobTypeNoteAnalysis, &noteID)
	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("enqueue_failed",
			zap.String("note_id", noteID.String()),
			zap.Error(err),
		)
	}
}
