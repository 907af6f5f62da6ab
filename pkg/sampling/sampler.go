package sampling

import (
	"mercator-hq/callisto/pkg/propagation"
)

// Decision is the tri-state sampling verdict.
type Decision int

const (
	// Drop discards the span: it is neither recorded nor exported.
	Drop Decision = iota

	// RecordOnly keeps the span data in-process but never exports it.
	RecordOnly

	// RecordAndSample records the span and marks it for export.
	RecordAndSample
)

// String returns the verdict name.
func (d Decision) String() string {
	switch d {
	case Drop:
		return "drop"
	case RecordOnly:
		return "record_only"
	case RecordAndSample:
		return "record_and_sample"
	default:
		return "unknown"
	}
}

// Result is a sampler's verdict for one span, plus the trace state the
// span's context should carry. Only RecordAndSample leads to export.
type Result struct {
	Decision   Decision
	TraceState string
}

// Sampled reports whether the verdict selects the span for export.
func (r Result) Sampled() bool {
	return r.Decision == RecordAndSample
}

// Sampler decides whether a span's data is kept and exported. Implementations
// must be safe for concurrent use and must not block.
type Sampler interface {
	// ShouldSample returns the verdict for a span about to be created with
	// the given trace ID and operation name. parent is the trace context the
	// span descends from; the zero value means "no parent".
	ShouldSample(traceID, name string, parent propagation.TraceContext) Result

	// Description identifies the sampler configuration for diagnostics.
	Description() string
}

type alwaysOnSampler struct{}

func (alwaysOnSampler) ShouldSample(_, _ string, parent propagation.TraceContext) Result {
	return Result{Decision: RecordAndSample, TraceState: parent.TraceState}
}

func (alwaysOnSampler) Description() string { return "AlwaysOn" }

// AlwaysOn returns a sampler that samples every trace.
func AlwaysOn() Sampler { return alwaysOnSampler{} }

type alwaysOffSampler struct{}

func (alwaysOffSampler) ShouldSample(_, _ string, parent propagation.TraceContext) Result {
	return Result{Decision: Drop, TraceState: parent.TraceState}
}

func (alwaysOffSampler) Description() string { return "AlwaysOff" }

// AlwaysOff returns a sampler that drops every trace.
func AlwaysOff() Sampler { return alwaysOffSampler{} }
