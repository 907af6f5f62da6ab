package export

import (
	"context"
	"errors"
	"testing"

	"mercator-hq/callisto/pkg/trace"
)

type recordingExporter struct {
	batches [][]*trace.Span
	err     error
}

func (r *recordingExporter) ExportSpans(_ context.Context, spans []*trace.Span) (int, error) {
	r.batches = append(r.batches, spans)
	if r.err != nil {
		return 0, r.err
	}
	return len(spans), nil
}

func newTestBatcher(exp trace.SpanExporter, batchSize, queueSize int) *Batcher {
	cfg := testConfig()
	cfg.MaxBatchSize = batchSize
	cfg.MaxQueueSize = queueSize
	return NewBatcher(cfg, exp)
}

func TestBatcherAutoFlushAtBatchSize(t *testing.T) {
	exp := &recordingExporter{}
	b := newTestBatcher(exp, 2, 100)
	ctx := context.Background()

	// Three adds against max_batch_size=2: one flush of two, one queued.
	for i := 0; i < 3; i++ {
		b.Add(ctx, sampleSpan())
	}

	if len(exp.batches) != 1 {
		t.Fatalf("flushes = %d, want 1", len(exp.batches))
	}
	if len(exp.batches[0]) != 2 {
		t.Errorf("batch size = %d, want 2", len(exp.batches[0]))
	}
	if b.Len() != 1 {
		t.Errorf("queued = %d, want 1", b.Len())
	}
}

func TestBatcherDropsBeyondQueueSize(t *testing.T) {
	exp := &recordingExporter{}
	b := newTestBatcher(exp, 100, 2)
	ctx := context.Background()

	if !b.Add(ctx, sampleSpan()) || !b.Add(ctx, sampleSpan()) {
		t.Fatal("adds under the cap should be accepted")
	}
	if b.Add(ctx, sampleSpan()) {
		t.Error("add beyond max_queue_size should be dropped")
	}
	if b.Len() != 2 {
		t.Errorf("queued = %d, want 2", b.Len())
	}
}

func TestBatcherFlushClearsOnFailure(t *testing.T) {
	exp := &recordingExporter{err: errors.New("collector down")}
	b := newTestBatcher(exp, 100, 100)
	ctx := context.Background()

	b.Add(ctx, sampleSpan())
	b.Add(ctx, sampleSpan())

	if n := b.Flush(ctx); n != 0 {
		t.Errorf("Flush() = %d, want 0 on failure", n)
	}
	// At-most-once: the failed batch is not re-queued.
	if b.Len() != 0 {
		t.Errorf("queued after failed flush = %d, want 0", b.Len())
	}
}

func TestBatcherFlushEmpty(t *testing.T) {
	exp := &recordingExporter{}
	b := newTestBatcher(exp, 100, 100)

	if n := b.Flush(context.Background()); n != 0 {
		t.Errorf("Flush() on empty queue = %d, want 0", n)
	}
	if len(exp.batches) != 0 {
		t.Error("empty flush should not reach the exporter")
	}
}

func TestBatcherShutdown(t *testing.T) {
	exp := &recordingExporter{}
	b := newTestBatcher(exp, 100, 100)
	ctx := context.Background()

	b.Add(ctx, sampleSpan())
	if n := b.Shutdown(ctx); n != 1 {
		t.Errorf("Shutdown() = %d, want 1", n)
	}
	if b.Add(ctx, sampleSpan()) {
		t.Error("add after shutdown should be refused")
	}
}

func TestBatcherAsSpanExporter(t *testing.T) {
	exp := &recordingExporter{}
	b := newTestBatcher(exp, 2, 3)

	accepted, err := b.ExportSpans(context.Background(), testSpans(5))
	if err != nil {
		t.Fatalf("ExportSpans() error: %v", err)
	}
	// Batch of two flushes twice; the fifth span lands in the queue
	// under the cap of three, so all five are accepted.
	if accepted != 5 {
		t.Errorf("accepted = %d, want 5", accepted)
	}
	if len(exp.batches) != 2 {
		t.Errorf("flushes = %d, want 2", len(exp.batches))
	}
	if b.Len() != 1 {
		t.Errorf("queued = %d, want 1", b.Len())
	}
}

func TestBatcherNilSpan(t *testing.T) {
	b := newTestBatcher(&recordingExporter{}, 100, 100)
	if b.Add(context.Background(), nil) {
		t.Error("nil span should be refused")
	}
}
