package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for logged request paths
	MaxPathLength = 2048
)

// SanitizePath sanitizes a request path for safe logging.
// Removes control characters, validates UTF-8, and truncates overly long paths
// so hostile input cannot pollute log streams.
func SanitizePath(path string) string {
	if path == "" {
		return ""
	}

	if !utf8.ValidString(path) {
		path = strings.ToValidUTF8(path, "")
	}

	var builder strings.Builder
	builder.Grow(len(path))
	for _, r := range path {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	path = builder.String()

	if len(path) > MaxPathLength {
		path = path[:MaxPathLength] + "..."
	}

	return path
}
