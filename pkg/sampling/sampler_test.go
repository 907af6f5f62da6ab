package sampling

import (
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"mercator-hq/callisto/pkg/propagation"
)

const testTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

func TestAlwaysOn(t *testing.T) {
	s := AlwaysOn()
	r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{})
	if r.Decision != RecordAndSample {
		t.Errorf("AlwaysOn decision = %v, want RecordAndSample", r.Decision)
	}
}

func TestAlwaysOff(t *testing.T) {
	s := AlwaysOff()
	r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{})
	if r.Decision != Drop {
		t.Errorf("AlwaysOff decision = %v, want Drop", r.Decision)
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{Drop, "drop"},
		{RecordOnly, "record_only"},
		{RecordAndSample, "record_and_sample"},
		{Decision(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTraceIDRatioExtremes(t *testing.T) {
	traceIDs := []string{
		testTraceID,
		"0af7651916cd43dd8448eb211c80319c",
		"ffffffffffffffffffffffffffffffff",
		"00000000000000000000000000000001",
	}

	always := TraceIDRatio(1.0)
	never := TraceIDRatio(0.0)

	for _, id := range traceIDs {
		if r := always.ShouldSample(id, "op", propagation.TraceContext{}); r.Decision != RecordAndSample {
			t.Errorf("ratio 1.0 dropped trace %s", id)
		}
		if r := never.ShouldSample(id, "op", propagation.TraceContext{}); r.Decision != Drop {
			t.Errorf("ratio 0.0 sampled trace %s", id)
		}
	}
}

func TestTraceIDRatioClamped(t *testing.T) {
	if r := TraceIDRatio(2.5).ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != RecordAndSample {
		t.Error("ratio above 1 should behave as 1")
	}
	if r := TraceIDRatio(-0.5).ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != Drop {
		t.Error("ratio below 0 should behave as 0")
	}
}

func TestTraceIDRatioDeterministic(t *testing.T) {
	s := TraceIDRatio(0.5)

	traceIDs := []string{
		testTraceID,
		"0af7651916cd43dd8448eb211c80319c",
		"b7ad6b7169203331b7ad6b7169203331",
		"0000000000000000000000001fffffff",
		"000000000000000000000000f0000000",
	}

	for _, id := range traceIDs {
		first := s.ShouldSample(id, "op", propagation.TraceContext{})
		for i := 0; i < 10; i++ {
			if got := s.ShouldSample(id, "op", propagation.TraceContext{}); got.Decision != first.Decision {
				t.Fatalf("verdict for trace %s changed between calls", id)
			}
		}
	}
}

func TestTraceIDRatioUsesTrailingHash(t *testing.T) {
	// Trailing 8 hex chars 00000001 hash far below any mid-range threshold;
	// ffffffff far above it.
	s := TraceIDRatio(0.5)

	low := s.ShouldSample("4bf92f3577b34da6a3ce929d00000001", "op", propagation.TraceContext{})
	if low.Decision != RecordAndSample {
		t.Error("trace with minimal trailing hash should be sampled at ratio 0.5")
	}

	high := s.ShouldSample("4bf92f3577b34da6a3ce929dffffffff", "op", propagation.TraceContext{})
	if high.Decision != Drop {
		t.Error("trace with maximal trailing hash should be dropped at ratio 0.5")
	}
}

func TestParentBasedMirrorsParent(t *testing.T) {
	tests := []struct {
		name string
		root Sampler
	}{
		{name: "root always on", root: AlwaysOn()},
		{name: "root always off", root: AlwaysOff()},
	}

	sampledParent := propagation.TraceContext{
		TraceID:    testTraceID,
		SpanID:     "00f067aa0ba902b7",
		Sampled:    true,
		TraceState: "congo=t61rcWkgMzE",
	}
	droppedParent := sampledParent
	droppedParent.Sampled = false

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParentBased(tt.root)

			// The root sampler must be ignored when a valid parent exists.
			r := s.ShouldSample(testTraceID, "op", sampledParent)
			if r.Decision != RecordAndSample {
				t.Error("sampled parent should force RecordAndSample")
			}
			if r.TraceState != sampledParent.TraceState {
				t.Errorf("trace state not propagated: %q", r.TraceState)
			}

			r = s.ShouldSample(testTraceID, "op", droppedParent)
			if r.Decision != Drop {
				t.Error("unsampled parent should force Drop")
			}
		})
	}
}

func TestParentBasedDelegatesWithoutParent(t *testing.T) {
	s := ParentBased(AlwaysOff())
	r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{})
	if r.Decision != Drop {
		t.Error("root sampler verdict expected when no valid parent exists")
	}

	s = ParentBased(AlwaysOn())
	r = s.ShouldSample(testTraceID, "op", propagation.TraceContext{})
	if r.Decision != RecordAndSample {
		t.Error("root sampler verdict expected when no valid parent exists")
	}
}

func TestParentBasedNilRoot(t *testing.T) {
	s := ParentBased(nil)
	r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{})
	if r.Decision != RecordAndSample {
		t.Error("nil root should default to AlwaysOn")
	}
}

func TestRateLimitingBucket(t *testing.T) {
	clock := clockz.NewFakeClock()
	s := RateLimitingWithClock(1, clock)

	// Bucket starts full: first call passes.
	if r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != RecordAndSample {
		t.Fatal("first call should be sampled from a full bucket")
	}

	// Immediate second call: bucket empty.
	if r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != Drop {
		t.Fatal("second immediate call should be dropped")
	}

	// After one full refill interval the bucket holds one token again.
	clock.Advance(time.Second)
	if r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != RecordAndSample {
		t.Fatal("call after a full refill interval should be sampled")
	}
}

func TestRateLimitingCappedAtCapacity(t *testing.T) {
	clock := clockz.NewFakeClock()
	s := RateLimitingWithClock(2, clock)

	// A long idle period must not accumulate more than capacity.
	clock.Advance(time.Minute)

	sampled := 0
	for i := 0; i < 10; i++ {
		if s.ShouldSample(testTraceID, "op", propagation.TraceContext{}).Sampled() {
			sampled++
		}
	}
	if sampled != 2 {
		t.Errorf("Expected 2 sampled after idle, got %d", sampled)
	}
}

func TestRateLimitingClockRegression(t *testing.T) {
	clock := clockz.NewFakeClock()
	s := RateLimitingWithClock(1, clock).(*rateLimitingSampler)

	s.ShouldSample(testTraceID, "op", propagation.TraceContext{})

	// Simulate a backwards clock step: refill must clamp, not drain or panic.
	s.mu.Lock()
	s.lastRefill = clock.Now().UnixNano() + int64(time.Hour)
	s.mu.Unlock()

	if r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != Drop {
		t.Error("no token should appear after a backwards clock step")
	}

	// Time moving forward again resumes refill from the regressed point.
	clock.Advance(2 * time.Hour)
	if r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != RecordAndSample {
		t.Error("refill should resume once the clock moves forward")
	}
}

func TestRateLimitingZeroRate(t *testing.T) {
	s := RateLimitingWithClock(0, clockz.NewFakeClock())
	if r := s.ShouldSample(testTraceID, "op", propagation.TraceContext{}); r.Decision != Drop {
		t.Error("zero rate should drop everything")
	}
}

func TestRateLimitingUnderParentBased(t *testing.T) {
	clock := clockz.NewFakeClock()
	s := ParentBased(RateLimitingWithClock(1, clock))

	// Root span consumes the bucket.
	if !s.ShouldSample(testTraceID, "root", propagation.TraceContext{}).Sampled() {
		t.Fatal("root span should consume the only token")
	}

	// Child spans of the sampled trace bypass the empty bucket.
	parent := propagation.TraceContext{
		TraceID: testTraceID,
		SpanID:  "00f067aa0ba902b7",
		Sampled: true,
	}
	if !s.ShouldSample(testTraceID, "child", parent).Sampled() {
		t.Error("child of a sampled trace should be sampled despite an empty bucket")
	}
}
