package propagation

import "strings"

// Standard W3C header names. Lookup is case-insensitive on extract;
// these canonical lowercase forms are used on inject.
const (
	TraceParentHeader = "traceparent"
	TraceStateHeader  = "tracestate"
	BaggageHeader     = "baggage"
)

// Headers is the minimal header-map shape the codec reads and writes.
// net/http's Header satisfies it.
type Headers interface {
	Get(key string) string
	Set(key, value string)
}

// mapHeaders adapts a plain string map for non-HTTP carriers
// (message metadata, task payloads).
type mapHeaders map[string]string

func (m mapHeaders) Get(key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	// Case-insensitive fallback for carriers that preserved original casing.
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (m mapHeaders) Set(key, value string) { m[key] = value }

// Inject writes the context onto the carrier. The traceparent header is
// emitted only when the context is valid; tracestate only when non-empty.
// An invalid context leaves the carrier untouched.
func Inject(tc TraceContext, h Headers) {
	if !tc.IsValid() {
		return
	}
	h.Set(TraceParentHeader, Format(tc))
	if tc.TraceState != "" {
		h.Set(TraceStateHeader, tc.TraceState)
	}
}

// Extract reads the trace context from the carrier. Header name lookup is
// case-insensitive. A missing or malformed traceparent yields the invalid
// sentinel; a tracestate header, when present, is attached verbatim to the
// result regardless of whether the traceparent parsed.
func Extract(h Headers) TraceContext {
	tc := Parse(h.Get(TraceParentHeader))
	if ts := h.Get(TraceStateHeader); ts != "" {
		tc.TraceState = ts
	}
	return tc
}

// InjectMap and ExtractMap are the plain-map counterparts of Inject and
// Extract, for carriers that are not http.Header.
func InjectMap(tc TraceContext, carrier map[string]string) {
	Inject(tc, mapHeaders(carrier))
}

// ExtractMap reads the trace context from a plain string map with
// case-insensitive key lookup.
func ExtractMap(carrier map[string]string) TraceContext {
	return Extract(mapHeaders(carrier))
}
