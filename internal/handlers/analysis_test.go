package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/benvon/smart-notes/internal/analyzer"
	"github.com/benvon/smart-notes/internal/cache"
	"github.com/benvon/smart-notes/internal/models"
)

// mockAnalysisCache is a mock implementation of AnalysisCacheInterface
type mockAnalysisCache struct {
	getFunc func(ctx context.Context, content string) (*models.AnalysisResult, error)
	setFunc func(ctx context.Context, content string, result *models.AnalysisResult) error
	sets    int
}

func (m *mockAnalysisCache) Get(ctx context.Context, content string) (*models.AnalysisResult, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, content)
	}
	return nil, nil
}

func (m *mockAnalysisCache) Set(ctx context.Context, content string, result *models.AnalysisResult) error {
	m.sets++
	if m.setFunc != nil {
		return m.setFunc(ctx, content, result)
	}
	return nil
}

var _ cache.AnalysisCacheInterface = (*mockAnalysisCache)(nil)

func analyzeRequest(t *testing.T, h *AnalysisHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	h := NewAnalysisHandler(analyzer.New(), nil, zap.NewNop())

	body, _ := json.Marshal(AnalyzeRequest{Content: "todo: need to finish the quarterly report"})
	rec := analyzeRequest(t, h, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool                  `json:"success"`
		Data    models.AnalysisResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !envelope.Success {
		t.Error("Expected success=true")
	}
	if envelope.Data.Category != models.CategoryTask {
		t.Errorf("Expected task category, got %s", envelope.Data.Category)
	}
}

func TestAnalyze_EmptyContent(t *testing.T) {
	t.Parallel()

	h := NewAnalysisHandler(analyzer.New(), nil, zap.NewNop())

	body, _ := json.Marshal(map[string]string{"content": ""})
	rec := analyzeRequest(t, h, body)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestAnalyze_CacheHitSkipsAnalyzer(t *testing.T) {
	t.Parallel()

	cached := &models.AnalysisResult{Category: models.CategoryMeeting, Confidence: 0.9}
	mockCache := &mockAnalysisCache{
		getFunc: func(context.Context, string) (*models.AnalysisResult, error) {
			return cached, nil
		},
	}
	h := NewAnalysisHandler(analyzer.New(), mockCache, zap.NewNop())

	body, _ := json.Marshal(AnalyzeRequest{Content: "anything at all"})
	rec := analyzeRequest(t, h, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if mockCache.sets != 0 {
		t.Errorf("Expected no cache writes on a hit, got %d", mockCache.sets)
	}

	var envelope struct {
		Data models.AnalysisResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if envelope.Data.Category != models.CategoryMeeting {
		t.Errorf("Expected the cached category, got %s", envelope.Data.Category)
	}
}

func TestAnalyze_CacheFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	mockCache := &mockAnalysisCache{
		getFunc: func(context.Context, string) (*models.AnalysisResult, error) {
			return nil, errors.New("redis down")
		},
		setFunc: func(context.Context, string, *models.AnalysisResult) error {
			return errors.New("redis down")
		},
	}
	h := NewAnalysisHandler(analyzer.New(), mockCache, zap.NewNop())

	body, _ := json.Marshal(AnalyzeRequest{Content: "meeting with the team tomorrow"})
	rec := analyzeRequest(t, h, body)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 despite cache failures, got %d", rec.Code)
	}
}

func TestAnalyze_MissAnalyzesAndCaches(t *testing.T) {
	t.Parallel()

	mockCache := &mockAnalysisCache{}
	h := NewAnalysisHandler(analyzer.New(), mockCache, zap.NewNop())

	body, _ := json.Marshal(AnalyzeRequest{Content: "todo: water the plants"})
	rec := analyzeRequest(t, h, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if mockCache.sets != 1 {
		t.Errorf("Expected 1 cache write on a miss, got %d", mockCache.sets)
	}
}
