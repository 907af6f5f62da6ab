package trace

import "context"

// spanKeyType is a private context key type to avoid collisions.
type spanKeyType struct{}

var spanKey spanKeyType

// ContextWithSpan returns a context carrying the span. There is no
// process-wide "current span" slot; ambient propagation rides the
// context through call chains.
func ContextWithSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, spanKey, span)
}

// SpanFromContext returns the span stored in ctx, or nil.
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey).(*Span)
	return span
}

// Start creates a span whose parentage follows the context: a child of
// the context's span when one is present, a new root otherwise. The
// returned context carries the new span for further nesting.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	var span *Span
	if parent := SpanFromContext(ctx); parent != nil {
		span = t.StartChild(name, parent)
	} else {
		span = t.StartRoot(name)
	}
	return ContextWithSpan(ctx, span), span
}
