package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// PanicResponse is the JSON body returned when a handler panics. It follows
// the same envelope shape the handlers package uses so clients only ever see
// one error format.
type PanicResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// Recovery converts handler panics into 500 responses. The panic value and
// stack trace stay in the server log; the client only learns that the
// request failed.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error("handler_panic",
					zap.Any("panic_value", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				writePanicResponse(w, r, logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writePanicResponse(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	body := PanicResponse{
		Success:   false,
		Error:     "Internal Server Error",
		Message:   "The server could not finish handling this request",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("panic_response_encode_failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
		)
	}
}
