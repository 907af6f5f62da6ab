package propagation

import (
	"context"
	"net/url"
	"sort"
	"strings"
)

// Baggage is user-defined key/value context propagated alongside the trace
// context. It is unrelated to sampling and export; it exists so application
// metadata can follow a request across process boundaries.
type Baggage map[string]string

// FormatBaggage serializes baggage as comma-separated key=value pairs.
// Keys are emitted in sorted order so output is deterministic. Keys and
// values are percent-encoded so commas, equals signs, and percent signs
// inside them survive the round trip.
func FormatBaggage(b Baggage) string {
	if len(b) == 0 {
		return ""
	}

	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(b[k]))
	}
	return sb.String()
}

// ParseBaggage decodes a baggage header value. Whitespace around each
// key=value pair and around keys and values is trimmed. Entries without
// an equals sign are skipped. A token that fails percent-decoding is kept
// raw rather than dropped, so foreign baggage still passes through.
func ParseBaggage(header string) Baggage {
	b := make(Baggage)
	for _, pair := range strings.Split(header, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		b[key] = value
	}
	if len(b) == 0 {
		return nil
	}
	return b
}

// InjectBaggage writes non-empty baggage onto the carrier.
func InjectBaggage(b Baggage, h Headers) {
	if encoded := FormatBaggage(b); encoded != "" {
		h.Set(BaggageHeader, encoded)
	}
}

// ExtractBaggage reads baggage from the carrier. Returns nil when the
// header is absent or carries no parseable entries.
func ExtractBaggage(h Headers) Baggage {
	raw := h.Get(BaggageHeader)
	if raw == "" {
		return nil
	}
	return ParseBaggage(raw)
}

type baggageKeyType struct{}

var baggageKey baggageKeyType

// ContextWithBaggage returns a context carrying the baggage. This replaces
// any process-wide ambient slot: baggage travels with the call chain, not
// with the process.
func ContextWithBaggage(ctx context.Context, b Baggage) context.Context {
	return context.WithValue(ctx, baggageKey, b)
}

// BaggageFromContext returns the baggage stored in ctx, or nil.
func BaggageFromContext(ctx context.Context) Baggage {
	if ctx == nil {
		return nil
	}
	b, _ := ctx.Value(baggageKey).(Baggage)
	return b
}
