package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/benvon/smart-notes/internal/assistant"
	"github.com/benvon/smart-notes/internal/database"
)

// ActionHandler handles assistant action requests
type ActionHandler struct {
	actionRepo database.ActionRepositoryInterface
	executor   *assistant.Executor
	logger     *zap.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(actionRepo database.ActionRepositoryInterface, executor *assistant.Executor, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{actionRepo: actionRepo, executor: executor, logger: logger}
}

// RegisterRoutes registers action routes on the given router.
// The router should already have the /notes prefix; action routes hang off
// the owning note.
func (h *ActionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/{id}/actions", h.ListActions).Methods("GET")
	r.HandleFunc("/{id}/actions/{actionId}/execute", h.ExecuteAction).Methods("POST")
}

// ListActions lists the assistant actions generated for a note
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	noteID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid note ID")
		return
	}

	actions, err := h.actionRepo.GetByNoteID(r.Context(), noteID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve actions")
		return
	}

	respondJSON(w, http.StatusOK, actions)
}

// ExecuteActionResponse reports the outcome of an action execution
type ExecuteActionResponse struct {
	ActionID string `json:"action_id"`
	Created  bool   `json:"created"`
	Executed bool   `json:"executed"`
}

// ExecuteAction materializes an assistant action into its target collection.
// Re-executing an already materialized action is a safe no-op.
func (h *ActionHandler) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	noteID, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid note ID")
		return
	}

	ctx := r.Context()
	action, err := h.actionRepo.GetByID(ctx, vars["actionId"])
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Action not found")
		return
	}
	if action.SourceNoteID != noteID.String() {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Action does not belong to note")
		return
	}

	created, err := h.executor.Execute(ctx, action)
	if err != nil {
		if errors.Is(err, assistant.ErrUnknownActionType) || errors.Is(err, assistant.ErrMissingDraft) {
			respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to execute action")
		return
	}

	if err := h.actionRepo.SetExecuted(ctx, action.ID, true); err != nil {
		// The record was created; a stale flag will be fixed on the next
		// reconcile pass.
		h.logger.Warn("action_flag_update_failed",
			zap.String("action_id", action.ID),
			zap.Error(err),
		)
	}

	respondJSON(w, http.StatusOK, ExecuteActionResponse{
		ActionID: action.ID,
		Created:  created,
		Executed: true,
	})
}
