package trace

import (
	"context"
	"log/slog"
	"time"

	"github.com/zoobzio/clockz"

	"mercator-hq/callisto/internal/ids"
	"mercator-hq/callisto/pkg/logging"
	"mercator-hq/callisto/pkg/propagation"
	"mercator-hq/callisto/pkg/sampling"
)

// SpanExporter delivers ended spans to their destination. Implementations
// live in pkg/export (OTLP over HTTP) and pkg/archive (local SQLite).
type SpanExporter interface {
	// ExportSpans delivers the spans and returns how many were accepted.
	// A non-nil error means the batch (or part of it) was lost; callers
	// treat loss as non-fatal.
	ExportSpans(ctx context.Context, spans []*Span) (int, error)
}

// Config holds per-service tracer settings.
type Config struct {
	// ServiceName identifies the instrumented service. Required.
	ServiceName string

	// ServiceVersion and Environment are stamped into export metadata.
	ServiceVersion string
	Environment    string

	// MaxSpans is the pending-export high-water mark: once this many
	// ended sampled spans accumulate, the tracer flushes automatically.
	MaxSpans int

	// SampleRatio configures the default sampler when none is supplied:
	// ParentBased(TraceIDRatio(SampleRatio)).
	SampleRatio float64

	// ExportTimeout bounds each flush triggered internally by the tracer.
	ExportTimeout time.Duration
}

// DefaultConfig returns a Config that samples everything and flushes
// every 128 spans.
func DefaultConfig(serviceName string) Config {
	return Config{
		ServiceName:   serviceName,
		MaxSpans:      128,
		SampleRatio:   1.0,
		ExportTimeout: 30 * time.Second,
	}
}

// Tracer creates spans for one service and collects ended sampled spans
// for export.
//
// A Tracer is NOT safe for concurrent use: its span lists are
// unsynchronized. Use one Tracer per worker goroutine, or add external
// locking.
type Tracer struct {
	cfg      Config
	sampler  sampling.Sampler
	exporter SpanExporter
	clock    clockz.Clock
	logger   *slog.Logger

	pending []*Span
	open    []*Span
	closed  bool
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithSampler sets the sampling strategy.
func WithSampler(s sampling.Sampler) Option {
	return func(t *Tracer) { t.sampler = s }
}

// WithExporter sets the export destination for flushed spans.
func WithExporter(e SpanExporter) Option {
	return func(t *Tracer) { t.exporter = e }
}

// WithClock injects a clock for deterministic tests.
func WithClock(c clockz.Clock) Option {
	return func(t *Tracer) { t.clock = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracer) { t.logger = l }
}

// New creates a Tracer. With no sampler option the tracer runs
// ParentBased(TraceIDRatio(cfg.SampleRatio)); with no exporter, flushed
// spans are discarded and only counted.
func New(cfg Config, opts ...Option) *Tracer {
	if cfg.MaxSpans <= 0 {
		cfg.MaxSpans = 128
	}
	if cfg.ExportTimeout <= 0 {
		cfg.ExportTimeout = 30 * time.Second
	}

	t := &Tracer{
		cfg:   cfg,
		clock: clockz.RealClock,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sampler == nil {
		t.sampler = sampling.ParentBased(sampling.TraceIDRatio(cfg.SampleRatio))
	}
	if t.logger == nil {
		t.logger = logging.Component("tracer")
	}
	return t
}

// SetSampler replaces the sampler consulted for future root spans.
// Spans already started keep the verdicts bound at their creation. The
// usual caller is a configuration hot-reload hook adjusting the
// sampling ratio of a long-running process.
func (t *Tracer) SetSampler(s sampling.Sampler) {
	if s == nil {
		return
	}
	t.sampler = s
	t.logger.Info("sampler replaced", "sampler", s.Description())
}

// StartRoot creates a span that begins a new trace. The sampler is
// consulted with an empty parent context and its verdict is bound to the
// span for its lifetime.
func (t *Tracer) StartRoot(name string) *Span {
	traceID := ids.NewTraceID()
	result := t.sampler.ShouldSample(traceID, name, propagation.TraceContext{})
	return t.newSpan(name, traceID, ids.NewSpanID(), "", result.Sampled())
}

// StartChild creates a span under parent within the same trace. The
// parent's sampled flag is copied directly, with no fresh sampler call,
// so every span in a trace subtree shares one sampling outcome. A nil
// parent degrades to StartRoot.
func (t *Tracer) StartChild(name string, parent *Span) *Span {
	if parent == nil {
		return t.StartRoot(name)
	}
	return t.newSpan(name, parent.TraceID, ids.NewSpanID(), parent.SpanID, parent.Sampled)
}

// StartFromContext creates a span that continues a trace received from
// another process. The trace ID comes from the supplied context and the
// sampler verdict is computed against it, so a parent-based sampler
// inherits the remote decision. An invalid context degrades to StartRoot.
func (t *Tracer) StartFromContext(name string, tc propagation.TraceContext) *Span {
	if !tc.IsValid() {
		return t.StartRoot(name)
	}
	result := t.sampler.ShouldSample(tc.TraceID, name, tc)
	return t.newSpan(name, tc.TraceID, ids.NewSpanID(), tc.SpanID, result.Sampled())
}

// newSpan is the single constructor behind every Start variant: the
// callers differ only in how they resolve identity and the sampled flag.
func (t *Tracer) newSpan(name, traceID, spanID, parentID string, sampled bool) *Span {
	span := &Span{
		TraceID:      traceID,
		SpanID:       spanID,
		ParentSpanID: parentID,
		Name:         name,
		StartTime:    t.clock.Now().UnixNano(),
		ServiceName:  t.cfg.ServiceName,
		Sampled:      sampled,
		clock:        t.clock,
	}
	t.open = append(t.open, span)
	return span
}

// End closes the span: it stamps the end timestamp and, if the span is
// sampled, moves it to the pending-export list. Reaching MaxSpans pending
// triggers an automatic flush. Ending a nil or already-ended span is a
// no-op.
func (t *Tracer) End(span *Span) {
	if span == nil || span.ended {
		return
	}
	span.end(t.clock.Now().UnixNano())
	t.removeOpen(span)

	if !span.Sampled || t.closed {
		return
	}
	t.pending = append(t.pending, span)
	if len(t.pending) >= t.cfg.MaxSpans {
		ctx, cancel := context.WithTimeout(context.Background(), t.cfg.ExportTimeout)
		defer cancel()
		t.Flush(ctx)
	}
}

// Flush hands the entire pending list to the exporter and clears it,
// returning the number of spans the exporter accepted. Export failure is
/// logged and counted, never propagated: the spans are dropped either way.
func (t *Tracer) Flush(ctx context.Context) int {
	if len(t.pending) == 0 {
		return 0
	}
	batch := t.pending
	t.pending = nil

	if t.exporter == nil {
		t.logger.Debug("no exporter configured, discarding spans", "count", len(batch))
		return 0
	}

	exported, err := t.exporter.ExportSpans(ctx, batch)
	if err != nil {
		t.logger.Warn("span export failed",
			"error", err,
			"lost", len(batch)-exported,
		)
	}
	return exported
}

// Shutdown flushes pending spans and stops accepting new ones. Spans
// ended after shutdown are silently discarded; this is best effort, not
// hard-enforced on late callers.
func (t *Tracer) Shutdown(ctx context.Context) int {
	exported := t.Flush(ctx)
	t.closed = true
	return exported
}

// CurrentContext returns the trace context downstream work should
/// inherit from span: the span's own identity and sampled flag.
func (t *Tracer) CurrentContext(span *Span) propagation.TraceContext {
	if span == nil {
		return propagation.TraceContext{}
	}
	return span.Context()
}

// Inject writes span's trace context onto the carrier.
func (t *Tracer) Inject(span *Span, h propagation.Headers) {
	propagation.Inject(t.CurrentContext(span), h)
}

// Extract reads a trace context from the carrier.
func (t *Tracer) Extract(h propagation.Headers) propagation.TraceContext {
	return propagation.Extract(h)
}

// PendingCount returns the number of ended sampled spans awaiting export.
func (t *Tracer) PendingCount() int {
	return len(t.pending)
}

// OpenCount returns the number of started spans not yet ended.
func (t *Tracer) OpenCount() int {
	return len(t.open)
}

func (t *Tracer) removeOpen(span *Span) {
	for i, s := range t.open {
		if s == span {
			copy(t.open[i:], t.open[i+1:])
			t.open = t.open[:len(t.open)-1]
			return
		}
	}
}
