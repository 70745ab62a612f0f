package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
	}{
		{name: "GET without header", method: "GET", wantStatus: http.StatusOK},
		{name: "POST with JSON", method: "POST", contentType: "application/json", body: "{}", wantStatus: http.StatusOK},
		{name: "POST with charset", method: "POST", contentType: "application/json; charset=utf-8", body: "{}", wantStatus: http.StatusOK},
		{name: "POST without header", method: "POST", body: "{}", wantStatus: http.StatusBadRequest},
		{name: "POST with wrong type", method: "POST", contentType: "text/plain", body: "hi", wantStatus: http.StatusUnsupportedMediaType},
		{name: "Bodyless POST without header", method: "POST", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			wrapped := ContentType(handler)

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, "/test", strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, "/test", nil)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
