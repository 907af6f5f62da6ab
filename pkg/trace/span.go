package trace

import (
	"github.com/zoobzio/clockz"

	"mercator-hq/callisto/pkg/propagation"
)

// Kind classifies the role a span plays in a trace.
type Kind int

const (
	// KindInternal is work local to the process.
	KindInternal Kind = iota
	// KindServer is the handling of an inbound request.
	KindServer
	// KindClient is an outbound request to another service.
	KindClient
	// KindProducer is publishing to a message broker.
	KindProducer
	// KindConsumer is handling a message from a broker.
	KindConsumer
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindProducer:
		return "producer"
	case KindConsumer:
		return "consumer"
	default:
		return "unknown"
	}
}

// Status is the outcome of the operation a span describes.
type Status int

const (
	// StatusUnset means no outcome was recorded.
	StatusUnset Status = iota
	// StatusOK marks the operation as successful.
	StatusOK
	// StatusError marks the operation as failed.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a timestamped occurrence recorded within a span.
type Event struct {
	Name       string
	Time       int64 // unix nanoseconds
	Attributes map[string]string
}

// Link references a span elsewhere, possibly in another trace.
type Link struct {
	TraceID    string
	SpanID     string
	Attributes map[string]string
}

// Span is the record of one operation. Create spans through a Tracer;
// the zero value is not usable.
//
// Spans are NOT safe for concurrent mutation. See the package
// documentation for the ownership model.
type Span struct {
	// TraceID is the 32-hex-character trace this span belongs to.
	TraceID string

	// SpanID is this span's own 16-hex-character identifier.
	SpanID string

	// ParentSpanID is the creating span's ID, or empty for a root span.
	ParentSpanID string

	// Name is the operation name given at creation.
	Name string

	// Kind classifies the span. Defaults to KindInternal.
	Kind Kind

	// StartTime and EndTime are unix nanosecond timestamps. EndTime is
	// zero while the span is open.
	StartTime int64
	EndTime   int64

	// Status and StatusMessage record the operation outcome.
	Status        Status
	StatusMessage string

	// Attributes are caller-supplied string key/value metadata.
	Attributes map[string]string

	// Events are timestamped occurrences, in insertion order.
	Events []Event

	// Links reference related spans, in insertion order.
	Links []Link

	// ServiceName identifies the emitting service, copied from the
	// Tracer's configuration.
	ServiceName string

	// Sampled is the sampling verdict bound at creation. It never
	// changes afterwards.
	Sampled bool

	ended bool
	clock clockz.Clock
}

// Ended reports whether End has been called.
func (s *Span) Ended() bool {
	return s.ended
}

// Duration returns EndTime-StartTime in nanoseconds, or zero while open.
func (s *Span) Duration() int64 {
	if !s.ended {
		return 0
	}
	return s.EndTime - s.StartTime
}

// IsRoot reports whether the span has no parent.
func (s *Span) IsRoot() bool {
	return s.ParentSpanID == ""
}

// SetAttribute records a key/value pair. No-op once the span has ended.
func (s *Span) SetAttribute(key, value string) {
	if s.ended {
		return
	}
	if s.Attributes == nil {
		s.Attributes = make(map[string]string)
	}
	s.Attributes[key] = value
}

// AddEvent appends a timestamped event. No-op once the span has ended.
func (s *Span) AddEvent(name string, attributes map[string]string) {
	if s.ended {
		return
	}
	s.Events = append(s.Events, Event{
		Name:       name,
		Time:       s.clk().Now().UnixNano(),
		Attributes: attributes,
	})
}

// AddLink appends a reference to another span. No-op once the span has ended.
func (s *Span) AddLink(traceID, spanID string, attributes map[string]string) {
	if s.ended {
		return
	}
	s.Links = append(s.Links, Link{
		TraceID:    traceID,
		SpanID:     spanID,
		Attributes: attributes,
	})
}

// SetStatus records the operation outcome. No-op once the span has ended.
func (s *Span) SetStatus(status Status, message string) {
	if s.ended {
		return
	}
	s.Status = status
	s.StatusMessage = message
}

// SetKind reclassifies the span. No-op once the span has ended.
func (s *Span) SetKind(kind Kind) {
	if s.ended {
		return
	}
	s.Kind = kind
}

// Context returns the trace context downstream work should inherit: this
// span's own identity and sampling decision, not a copy of its parent's.
func (s *Span) Context() propagation.TraceContext {
	return propagation.TraceContext{
		TraceID: s.TraceID,
		SpanID:  s.SpanID,
		Sampled: s.Sampled,
	}
}

// end closes the span. Idempotent; the first call wins the timestamp.
func (s *Span) end(nanos int64) {
	if s.ended {
		return
	}
	s.EndTime = nanos
	s.ended = true
}

func (s *Span) clk() clockz.Clock {
	if s.clock != nil {
		return s.clock
	}
	return clockz.RealClock
}
