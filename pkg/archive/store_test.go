package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/callisto/pkg/trace"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{
		Path:          filepath.Join(t.TempDir(), "spans.db"),
		RetentionDays: 7,
		PruneSchedule: "0 3 * * *",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func archiveSpan(traceID, spanID string, end time.Time) *trace.Span {
	return &trace.Span{
		TraceID:     traceID,
		SpanID:      spanID,
		Name:        "op",
		Kind:        trace.KindClient,
		StartTime:   end.Add(-time.Second).UnixNano(),
		EndTime:     end.UnixNano(),
		Status:      trace.StatusOK,
		ServiceName: "test-service",
		Attributes:  map[string]string{"db.system": "sqlite"},
		Events: []trace.Event{
			{Name: "query", Time: end.Add(-500 * time.Millisecond).UnixNano()},
		},
		Sampled: true,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	want := archiveSpan("4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7", now)
	n, err := store.ExportSpans(ctx, []*trace.Span{want})
	if err != nil {
		t.Fatalf("ExportSpans() error: %v", err)
	}
	if n != 1 {
		t.Errorf("stored = %d, want 1", n)
	}

	got, err := store.SpansByTrace(ctx, want.TraceID)
	if err != nil {
		t.Fatalf("SpansByTrace() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("spans = %d, want 1", len(got))
	}

	s := got[0]
	if s.SpanID != want.SpanID || s.Name != want.Name || s.Kind != want.Kind {
		t.Errorf("span = %+v", s)
	}
	if s.StartTime != want.StartTime || s.EndTime != want.EndTime {
		t.Errorf("timestamps = %d..%d, want %d..%d", s.StartTime, s.EndTime, want.StartTime, want.EndTime)
	}
	if s.Attributes["db.system"] != "sqlite" {
		t.Errorf("attributes = %v", s.Attributes)
	}
	if len(s.Events) != 1 || s.Events[0].Name != "query" {
		t.Errorf("events = %v", s.Events)
	}
}

func TestStoreOrdersByStartTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	later := archiveSpan("a3ce929d0e0e47364bf92f3577b34da6", "1111111111111111", now.Add(time.Minute))
	earlier := archiveSpan("a3ce929d0e0e47364bf92f3577b34da6", "2222222222222222", now)

	if _, err := store.ExportSpans(ctx, []*trace.Span{later, earlier}); err != nil {
		t.Fatalf("ExportSpans() error: %v", err)
	}

	got, err := store.SpansByTrace(ctx, "a3ce929d0e0e47364bf92f3577b34da6")
	if err != nil {
		t.Fatalf("SpansByTrace() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("spans = %d, want 2", len(got))
	}
	if got[0].SpanID != "2222222222222222" {
		t.Errorf("first span = %s, want the earlier one", got[0].SpanID)
	}
}

func TestStoreSkipsDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	span := archiveSpan("4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7", time.Now())
	if _, err := store.ExportSpans(ctx, []*trace.Span{span}); err != nil {
		t.Fatalf("first ExportSpans() error: %v", err)
	}

	n, err := store.ExportSpans(ctx, []*trace.Span{span})
	if err != nil {
		t.Fatalf("second ExportSpans() error: %v", err)
	}
	if n != 0 {
		t.Errorf("duplicate stored = %d, want 0", n)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStoreEmptyBatch(t *testing.T) {
	store := newTestStore(t)
	n, err := store.ExportSpans(context.Background(), nil)
	if n != 0 || err != nil {
		t.Errorf("ExportSpans(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestStorePrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	old := archiveSpan("4bf92f3577b34da6a3ce929d0e0e4736", "1111111111111111", now.Add(-48*time.Hour))
	fresh := archiveSpan("a3ce929d0e0e47364bf92f3577b34da6", "2222222222222222", now)

	if _, err := store.ExportSpans(ctx, []*trace.Span{old, fresh}); err != nil {
		t.Fatalf("ExportSpans() error: %v", err)
	}

	deleted, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("pruned = %d, want 1", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("Count() after prune = %d, want 1", count)
	}
}

func TestStorePruneExpiredDisabled(t *testing.T) {
	store, err := New(Config{
		Path: filepath.Join(t.TempDir(), "spans.db"),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	old := archiveSpan("4bf92f3577b34da6a3ce929d0e0e4736", "1111111111111111", time.Now().AddDate(-1, 0, 0))
	if _, err := store.ExportSpans(ctx, []*trace.Span{old}); err != nil {
		t.Fatalf("ExportSpans() error: %v", err)
	}

	deleted, err := store.PruneExpired(ctx)
	if err != nil {
		t.Fatalf("PruneExpired() error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("pruned = %d with retention disabled, want 0", deleted)
	}
}

func TestStoreCloseIdempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestStoreAsTracerExporter(t *testing.T) {
	store := newTestStore(t)

	tracer := trace.New(trace.DefaultConfig("test-service"), trace.WithExporter(store))
	span := tracer.StartRoot("op")
	tracer.End(span)

	if n := tracer.Flush(context.Background()); n != 1 {
		t.Fatalf("Flush() = %d, want 1", n)
	}

	got, err := store.SpansByTrace(context.Background(), span.TraceID)
	if err != nil {
		t.Fatalf("SpansByTrace() error: %v", err)
	}
	if len(got) != 1 || got[0].SpanID != span.SpanID {
		t.Errorf("archived spans = %+v", got)
	}
}
