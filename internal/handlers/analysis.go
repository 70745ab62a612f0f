package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/benvon/smart-notes/internal/analyzer"
	"github.com/benvon/smart-notes/internal/cache"
	"github.com/benvon/smart-notes/internal/validation"
)

// AnalysisHandler serves synchronous ad-hoc analysis requests. Unlike the
// note pipeline nothing is persisted; results are cached by content hash
// because the analyzer is deterministic.
type AnalysisHandler struct {
	analyzer *analyzer.Analyzer
	cache    cache.AnalysisCacheInterface
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler. cache may be nil to
// disable caching.
func NewAnalysisHandler(a *analyzer.Analyzer, c cache.AnalysisCacheInterface, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{analyzer: a, cache: c, logger: logger}
}

// AnalyzeRequest represents a synchronous analysis request
type AnalyzeRequest struct {
	Content string `json:"content" validate:"required,min=1,max=50000"`
}

// Analyze handles POST /analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
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

	content := validation.SanitizeText(req.Content)
	ctx := r.Context()

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, content)
		if err != nil {
			// Cache trouble is not a request failure
			h.logger.Warn("analysis_cache_read_failed", zap.Error(err))
		}
		if cached != nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result := h.analyzer.Analyze(content)

	if h.cache != nil {
		if err := h.cache.Set(ctx, content, result); err != nil {
			h.logger.Warn("analysis_cache_write_failed", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, result)
}
