package export

import (
	"context"
	"log/slog"
	"sync"

	"mercator-hq/callisto/pkg/logging"
	"mercator-hq/callisto/pkg/metrics"
	"mercator-hq/callisto/pkg/trace"
)

// Batcher accumulates spans and hands them to an exporter in batches.
// A batch is sent when the queue reaches MaxBatchSize, on an explicit
// Flush, and once more on Shutdown. Spans arriving while the queue is
// at MaxQueueSize are dropped and counted.
//
// Unlike the Tracer, a Batcher is safe for concurrent use: it is the
// natural hand-off point between per-worker tracers and a shared
// export pipeline.
type Batcher struct {
	mu       sync.Mutex
	queue    []*trace.Span
	closed   bool
	cfg      Config
	exporter trace.SpanExporter
	logger   *slog.Logger
	metrics  *metrics.ExporterMetrics
}

// BatcherOption adjusts a Batcher.
type BatcherOption func(*Batcher)

// WithBatcherLogger replaces the default component logger.
func WithBatcherLogger(l *slog.Logger) BatcherOption {
	return func(b *Batcher) { b.logger = l }
}

// WithBatcherMetrics attaches Prometheus instrumentation for queue
// overflow drops.
func WithBatcherMetrics(m *metrics.ExporterMetrics) BatcherOption {
	return func(b *Batcher) { b.metrics = m }
}

// NewBatcher wraps exporter with a bounded queue sized from cfg. Zero
// or negative size limits fall back to the defaults.
func NewBatcher(cfg Config, exporter trace.SpanExporter, opts ...BatcherOption) *Batcher {
	def := DefaultConfig(cfg.Endpoint)
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = def.MaxBatchSize
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = def.MaxQueueSize
	}

	b := &Batcher{
		cfg:      cfg,
		exporter: exporter,
		logger:   logging.Component("batcher"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add queues one span and reports whether it was accepted. Reaching
// MaxBatchSize triggers an automatic flush of the whole queue. When the
// queue is already at MaxQueueSize the span is dropped.
func (b *Batcher) Add(ctx context.Context, span *trace.Span) bool {
	if span == nil {
		return false
	}

	b.mu.Lock()
	if b.closed || len(b.queue) >= b.cfg.MaxQueueSize {
		b.mu.Unlock()
		b.metrics.RecordDropped(1)
		b.logger.Debug("queue full, dropping span",
			"span", span.SpanID,
			"queue_size", b.cfg.MaxQueueSize,
		)
		return false
	}
	b.queue = append(b.queue, span)
	var batch []*trace.Span
	if len(b.queue) >= b.cfg.MaxBatchSize {
		batch = b.queue
		b.queue = nil
	}
	b.mu.Unlock()

	if batch != nil {
		b.send(ctx, batch)
	}
	return true
}

// ExportSpans queues every span, flushing as batches fill, and reports
// how many were accepted into the queue. It lets a Batcher stand in
// wherever a trace.SpanExporter is expected, so a Tracer can drain its
// pending list straight into the shared pipeline.
func (b *Batcher) ExportSpans(ctx context.Context, spans []*trace.Span) (int, error) {
	accepted := 0
	for _, span := range spans {
		if b.Add(ctx, span) {
			accepted++
		}
	}
	return accepted, nil
}

// Flush sends everything queued, clearing the queue regardless of
// outcome, and returns the number of spans the exporter accepted.
func (b *Batcher) Flush(ctx context.Context) int {
	b.mu.Lock()
	batch := b.queue
	b.queue = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}
	return b.send(ctx, batch)
}

// Shutdown flushes once more and refuses further spans.
func (b *Batcher) Shutdown(ctx context.Context) int {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.Flush(ctx)
}

// Len reports the current queue depth.
func (b *Batcher) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

func (b *Batcher) send(ctx context.Context, batch []*trace.Span) int {
	exported, err := b.exporter.ExportSpans(ctx, batch)
	if err != nil {
		b.logger.Warn("batch export failed",
			"error", err,
			"lost", len(batch)-exported,
		)
	}
	return exported
}
