package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds how long a single request may run. Analysis is
// synchronous on some endpoints, but it is pure CPU work over short notes;
// anything still running after this long is stuck, not slow.
const DefaultRequestTimeout = 30 * time.Second

// Timeout cancels the request context after d and answers 503 if the handler
// has not written by then.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		d = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, d, "request timed out")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			bounded.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
