package export

import (
	"encoding/json"
	"sort"
	"strconv"

	"mercator-hq/callisto/pkg/trace"
)

// Instrumentation scope stamped on every exported document.
const (
	scopeName    = "mercator-hq/callisto"
	scopeVersion = "0.1.0"
)

// The document types mirror the OTLP/JSON trace schema: one resource
// block describing the emitting service, one scope block naming this
// library, and one entry per span.

type document struct {
	ResourceSpans []resourceSpans `json:"resourceSpans"`
}

type resourceSpans struct {
	Resource   resource     `json:"resource"`
	ScopeSpans []scopeSpans `json:"scopeSpans"`
}

type resource struct {
	Attributes []keyValue `json:"attributes"`
}

type scopeSpans struct {
	Scope scope      `json:"scope"`
	Spans []otlpSpan `json:"spans"`
}

type scope struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type otlpSpan struct {
	TraceID      string     `json:"traceId"`
	SpanID       string     `json:"spanId"`
	ParentSpanID string     `json:"parentSpanId,omitempty"`
	Name         string     `json:"name"`
	Kind         int        `json:"kind"`
	StartTime    string     `json:"startTimeUnixNano"`
	EndTime      string     `json:"endTimeUnixNano"`
	Attributes   []keyValue `json:"attributes,omitempty"`
	Events       []event    `json:"events,omitempty"`
	Status       status     `json:"status"`
}

type event struct {
	Name       string     `json:"name"`
	Time       string     `json:"timeUnixNano"`
	Attributes []keyValue `json:"attributes,omitempty"`
}

type status struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type keyValue struct {
	Key   string   `json:"key"`
	Value anyValue `json:"value"`
}

type anyValue struct {
	StringValue string `json:"stringValue"`
}

// buildDocument wraps spans in a single-resource, single-scope document.
// The service identity comes from the first span plus the exporter's
// configured version and environment.
func buildDocument(spans []*trace.Span, serviceVersion, environment string) document {
	serviceName := ""
	if len(spans) > 0 {
		serviceName = spans[0].ServiceName
	}

	resAttrs := []keyValue{stringAttr("service.name", serviceName)}
	if serviceVersion != "" {
		resAttrs = append(resAttrs, stringAttr("service.version", serviceVersion))
	}
	if environment != "" {
		resAttrs = append(resAttrs, stringAttr("deployment.environment", environment))
	}

	entries := make([]otlpSpan, 0, len(spans))
	for _, s := range spans {
		entries = append(entries, buildSpan(s))
	}

	return document{
		ResourceSpans: []resourceSpans{{
			Resource: resource{Attributes: resAttrs},
			ScopeSpans: []scopeSpans{{
				Scope: scope{Name: scopeName, Version: scopeVersion},
				Spans: entries,
			}},
		}},
	}
}

func buildSpan(s *trace.Span) otlpSpan {
	events := make([]event, 0, len(s.Events))
	for _, e := range s.Events {
		events = append(events, event{
			Name:       e.Name,
			Time:       nanos(e.Time),
			Attributes: attributeList(e.Attributes),
		})
	}

	return otlpSpan{
		TraceID:      s.TraceID,
		SpanID:       s.SpanID,
		ParentSpanID: s.ParentSpanID,
		Name:         s.Name,
		// The wire encoding is 1-indexed: internal is 1, server 2, and
		// so on. The in-memory enum starts at 0.
		Kind:       int(s.Kind) + 1,
		StartTime:  nanos(s.StartTime),
		EndTime:    nanos(s.EndTime),
		Attributes: attributeList(s.Attributes),
		Events:     events,
		Status:     status{Code: int(s.Status), Message: s.StatusMessage},
	}
}

// nanos renders a timestamp as a decimal string. Encoding nanosecond
// timestamps as JSON numbers loses precision past 2^53.
func nanos(t int64) string {
	return strconv.FormatInt(t, 10)
}

// attributeList flattens a map into key-sorted wire pairs so documents
// are byte-stable for identical input.
func attributeList(attrs map[string]string) []keyValue {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]keyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, stringAttr(k, attrs[k]))
	}
	return out
}

func stringAttr(key, value string) keyValue {
	return keyValue{Key: key, Value: anyValue{StringValue: value}}
}

// Serialize renders spans as the OTLP-style JSON document posted to the
// collector.
func Serialize(spans []*trace.Span, serviceVersion, environment string) ([]byte, error) {
	return json.Marshal(buildDocument(spans, serviceVersion, environment))
}
