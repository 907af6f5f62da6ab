package export

import (
	"encoding/json"
	"strings"
	"testing"

	"mercator-hq/callisto/pkg/trace"
)

func sampleSpan() *trace.Span {
	return &trace.Span{
		TraceID:      "4bf92f3577b34da6a3ce929d0e0e4736",
		SpanID:       "00f067aa0ba902b7",
		ParentSpanID: "b7ad6b7169203331",
		Name:         "checkout",
		Kind:         trace.KindServer,
		StartTime:    1700000000000000000,
		EndTime:      1700000000250000000,
		Status:       trace.StatusError,
		StatusMessage: "payment declined",
		Attributes: map[string]string{
			"http.method": "POST",
			"cart.items":  "3",
		},
		Events: []trace.Event{
			{Name: "retry", Time: 1700000000100000000, Attributes: map[string]string{"attempt": "2"}},
		},
		ServiceName: "checkout-service",
		Sampled:     true,
	}
}

func TestBuildDocumentShape(t *testing.T) {
	doc := buildDocument([]*trace.Span{sampleSpan()}, "1.4.2", "production")

	if len(doc.ResourceSpans) != 1 {
		t.Fatalf("resourceSpans blocks = %d, want 1", len(doc.ResourceSpans))
	}
	rs := doc.ResourceSpans[0]

	wantResource := []keyValue{
		stringAttr("service.name", "checkout-service"),
		stringAttr("service.version", "1.4.2"),
		stringAttr("deployment.environment", "production"),
	}
	if len(rs.Resource.Attributes) != len(wantResource) {
		t.Fatalf("resource attributes = %d, want %d", len(rs.Resource.Attributes), len(wantResource))
	}
	for i, want := range wantResource {
		if rs.Resource.Attributes[i] != want {
			t.Errorf("resource attribute %d = %+v, want %+v", i, rs.Resource.Attributes[i], want)
		}
	}

	if len(rs.ScopeSpans) != 1 {
		t.Fatalf("scopeSpans blocks = %d, want 1", len(rs.ScopeSpans))
	}
	ss := rs.ScopeSpans[0]
	if ss.Scope.Name != scopeName || ss.Scope.Version != scopeVersion {
		t.Errorf("scope = %+v", ss.Scope)
	}
	if len(ss.Spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(ss.Spans))
	}
}

func TestBuildSpanEncoding(t *testing.T) {
	entry := buildSpan(sampleSpan())

	// Wire kind is the in-memory value plus one.
	if entry.Kind != int(trace.KindServer)+1 {
		t.Errorf("kind = %d, want %d", entry.Kind, int(trace.KindServer)+1)
	}
	// Timestamps travel as decimal strings to survive JSON number
	// precision limits.
	if entry.StartTime != "1700000000000000000" {
		t.Errorf("startTimeUnixNano = %q", entry.StartTime)
	}
	if entry.EndTime != "1700000000250000000" {
		t.Errorf("endTimeUnixNano = %q", entry.EndTime)
	}
	if entry.Status.Code != int(trace.StatusError) || entry.Status.Message != "payment declined" {
		t.Errorf("status = %+v", entry.Status)
	}

	// Attributes are emitted in key order.
	if len(entry.Attributes) != 2 {
		t.Fatalf("attributes = %d, want 2", len(entry.Attributes))
	}
	if entry.Attributes[0].Key != "cart.items" || entry.Attributes[1].Key != "http.method" {
		t.Errorf("attribute order = %q, %q", entry.Attributes[0].Key, entry.Attributes[1].Key)
	}

	if len(entry.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(entry.Events))
	}
	if entry.Events[0].Time != "1700000000100000000" {
		t.Errorf("event time = %q", entry.Events[0].Time)
	}
}

func TestBuildSpanRootOmitsParent(t *testing.T) {
	span := sampleSpan()
	span.ParentSpanID = ""

	body, err := Serialize([]*trace.Span{span}, "", "")
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}
	if strings.Contains(string(body), "parentSpanId") {
		t.Error("root span should omit parentSpanId")
	}
}

func TestSerializeFieldNames(t *testing.T) {
	body, err := Serialize([]*trace.Span{sampleSpan()}, "", "")
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	for _, field := range []string{
		`"resourceSpans"`,
		`"scopeSpans"`,
		`"traceId"`,
		`"spanId"`,
		`"parentSpanId"`,
		`"startTimeUnixNano"`,
		`"stringValue"`,
		`"timeUnixNano"`,
	} {
		if !strings.Contains(string(body), field) {
			t.Errorf("document missing field %s", field)
		}
	}

	if !json.Valid(body) {
		t.Error("document is not valid JSON")
	}
}

func TestSerializeEmptyResourceForNoSpans(t *testing.T) {
	doc := buildDocument(nil, "", "")
	attrs := doc.ResourceSpans[0].Resource.Attributes
	if len(attrs) != 1 || attrs[0].Value.StringValue != "" {
		t.Errorf("resource attributes for empty batch = %+v", attrs)
	}
}
