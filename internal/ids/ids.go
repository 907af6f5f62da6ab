// Package ids generates and validates trace and span identifiers.
//
// Trace IDs are 128-bit values rendered as 32 lowercase hex characters,
// span IDs are 64-bit values rendered as 16 lowercase hex characters.
// The all-zero value is reserved as the "absent" sentinel and is never
// generated.
package ids

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// TraceIDLength is the hex-encoded length of a trace ID.
	TraceIDLength = 32

	// SpanIDLength is the hex-encoded length of a span ID.
	SpanIDLength = 16
)

// NewTraceID returns a fresh random trace ID as 32 lowercase hex characters.
func NewTraceID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// NewSpanID returns a fresh random span ID as 16 lowercase hex characters.
func NewSpanID() string {
	return RandomHex(SpanIDLength)
}

// RandomHex returns n random lowercase hex characters. n must be even.
// If the system entropy source fails, a time-derived fallback is used so
// that instrumentation never blocks the caller.
func RandomHex(n int) string {
	buf := make([]byte, n/2)
	if _, err := rand.Read(buf); err != nil {
		// Fallback: derive from the current time. Uniqueness is weaker
		// but instrumentation must not fail.
		fallback := hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
		for len(fallback) < n {
			fallback += fallback
		}
		return fallback[:n]
	}
	return hex.EncodeToString(buf)
}

// IsValidTraceID reports whether id is a syntactically valid trace ID:
// exactly 32 lowercase hex characters, not all zero.
func IsValidTraceID(id string) bool {
	return isValidID(id, TraceIDLength)
}

// IsValidSpanID reports whether id is a syntactically valid span ID:
// exactly 16 lowercase hex characters, not all zero.
func IsValidSpanID(id string) bool {
	return isValidID(id, SpanIDLength)
}

func isValidID(id string, length int) bool {
	if len(id) != length {
		return false
	}
	if !isLowerHex(id) {
		return false
	}
	// All-zero IDs are the canonical invalid sentinel.
	return strings.Trim(id, "0") != ""
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
