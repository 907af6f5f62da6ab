// Package trace provides the Callisto span model and the Tracer that
// creates, tracks, and hands off spans for export.
//
// # Overview
//
// A Span records one timed unit of work: its identity within a trace, a
// name and kind, start and end timestamps, string attributes, timestamped
// events, links to other spans, and a status. The Tracer owns the
// bookkeeping around spans: it generates identifiers, consults the
// configured sampler exactly once per trace entry point, stamps the
// verdict onto each new span, and collects ended sampled spans for the
// export pipeline.
//
// # Span Lifecycle
//
// A span is open from creation until the first End call. While open, its
// mutators (SetAttribute, AddEvent, AddLink, SetStatus, SetKind) apply
// normally. Once ended a span is closed for writes: every mutator becomes
// a no-op, never an error, so instrumentation call sites need no error
// handling. Ending twice is also a no-op; the first End wins the
// timestamp.
//
// # Sampling Binding
//
// The sampled flag is fixed at creation and never changes. Children copy
// their parent's flag directly with no fresh sampler call, which
// guarantees every span in a trace subtree shares one sampling outcome.
// Only StartRoot and StartFromContext consult the sampler.
//
// # Thread Safety
//
// Spans are single-writer: a span is mutated only by the goroutine
// holding the reference returned from Start. There is no internal
// synchronization; concurrent mutation of one span is undefined. The
// Tracer's span lists are likewise unsynchronized. Run one Tracer per
// worker goroutine, or guard a shared instance externally.
//
// # Usage
//
//	tracer := trace.New(trace.DefaultConfig("checkout"),
//	    trace.WithSampler(sampling.ParentBased(sampling.TraceIDRatio(0.1))),
//	    trace.WithExporter(exporter),
//	)
//	defer tracer.Shutdown(context.Background())
//
//	span := tracer.StartRoot("handle_order")
//	span.SetAttribute("order.id", orderID)
//	defer tracer.End(span)
package trace
