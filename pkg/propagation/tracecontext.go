package propagation

import (
	"strconv"

	"mercator-hq/callisto/internal/ids"
)

// Version is the only traceparent version this codec emits or accepts.
const Version = "00"

// traceparentLength is the exact length of a version 00 traceparent header.
const traceparentLength = 55

// TraceContext is the identity of a trace as carried across a process
// boundary: the trace ID, the ID of the span on the other side of the
// boundary, the sampling decision, and opaque vendor state.
//
// The zero value is the invalid sentinel. A TraceContext is immutable once
// parsed; derive new ones with Child.
type TraceContext struct {
	// TraceID is the 128-bit trace identifier as 32 lowercase hex characters.
	TraceID string

	// SpanID is the 64-bit span identifier as 16 lowercase hex characters.
	SpanID string

	// Sampled records whether the trace the context belongs to was selected
	// for export.
	Sampled bool

	// TraceState is the raw tracestate header value. It is vendor data and
	// is passed through unmodified.
	TraceState string
}

// IsValid reports whether the context carries usable trace identity: both
// IDs have the correct length, contain only lowercase hex digits, and are
// not all zero.
func (tc TraceContext) IsValid() bool {
	return ids.IsValidTraceID(tc.TraceID) && ids.IsValidSpanID(tc.SpanID)
}

// NewRoot synthesizes a fresh root context with new random identifiers.
// Root contexts start sampled; a sampler downgrades them as needed.
func NewRoot() TraceContext {
	return TraceContext{
		TraceID: ids.NewTraceID(),
		SpanID:  ids.NewSpanID(),
		Sampled: true,
	}
}

// Child derives a context for work downstream of this one: same trace ID,
// a fresh span ID, and the inherited sampling decision and trace state.
func (tc TraceContext) Child() TraceContext {
	return TraceContext{
		TraceID:    tc.TraceID,
		SpanID:     ids.NewSpanID(),
		Sampled:    tc.Sampled,
		TraceState: tc.TraceState,
	}
}

// Format renders the context as a version 00 traceparent header value,
// exactly 55 characters:
//
//	00-<32 hex trace id>-<16 hex span id>-<2 hex flags>
//
// The flags byte is 01 when sampled and 00 otherwise. Format does not
// check validity; callers that must not emit invalid headers use Inject.
func Format(tc TraceContext) string {
	flags := "00"
	if tc.Sampled {
		flags = "01"
	}
	return Version + "-" + tc.TraceID + "-" + tc.SpanID + "-" + flags
}

// Parse decodes a traceparent header value. Input that is not exactly a
// well-formed version 00 header, wrong length, misplaced delimiters, an
// unknown version, or malformed ID segments, yields the invalid sentinel.
// Parse never returns an error and never panics.
func Parse(header string) TraceContext {
	if len(header) != traceparentLength {
		return TraceContext{}
	}
	if header[2] != '-' || header[35] != '-' || header[52] != '-' {
		return TraceContext{}
	}
	if header[0:2] != Version {
		return TraceContext{}
	}

	traceID := header[3:35]
	spanID := header[36:52]
	if !ids.IsValidTraceID(traceID) || !ids.IsValidSpanID(spanID) {
		return TraceContext{}
	}

	if !isLowerHex(header[53:55]) {
		return TraceContext{}
	}
	flags, err := strconv.ParseUint(header[53:55], 16, 8)
	if err != nil {
		return TraceContext{}
	}

	return TraceContext{
		TraceID: traceID,
		SpanID:  spanID,
		Sampled: flags&0x01 == 0x01,
	}
}

// isLowerHex checks that a string contains only lowercase hex characters.
// The wire format is case-sensitive; uppercase hex is rejected.
func isLowerHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

