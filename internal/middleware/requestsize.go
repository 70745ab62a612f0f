package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize caps request bodies at 1 MiB. Notes are plain text;
// a body bigger than this is not a note.
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize rejects oversized request bodies. A declared Content-Length
// over the limit is refused before the handler runs; bodies without a length
// are capped by MaxBytesReader and surface as MaxBytesError when the handler
// decodes them.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
