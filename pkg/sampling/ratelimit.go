package sampling

import (
	"fmt"
	"sync"

	"github.com/zoobzio/clockz"

	"mercator-hq/callisto/pkg/propagation"
)

// rateLimitingSampler caps sampled traces per second with a token bucket.
// Capacity and refill rate are both the configured maximum, so bursts up
// to one second's allowance pass and the average rate holds over time.
//
// Unlike TraceIDRatio this sampler is not deterministic across spans of
// the same trace: two spans of one trace can reach opposite verdicts.
// Compose it under ParentBased so only root spans consult the bucket.
type rateLimitingSampler struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill int64   // unix nanos of the last refill
	clock      clockz.Clock
}

// RateLimiting returns a sampler that records and samples at most
// maxPerSecond traces per second. The bucket starts full. A maxPerSecond
// of zero or less drops everything.
func RateLimiting(maxPerSecond float64) Sampler {
	return RateLimitingWithClock(maxPerSecond, clockz.RealClock)
}

// RateLimitingWithClock is RateLimiting with an injected clock for
// deterministic tests.
func RateLimitingWithClock(maxPerSecond float64, clock clockz.Clock) Sampler {
	if maxPerSecond < 0 {
		maxPerSecond = 0
	}
	return &rateLimitingSampler{
		capacity:   maxPerSecond,
		tokens:     maxPerSecond,
		refillRate: maxPerSecond,
		lastRefill: clock.Now().UnixNano(),
		clock:      clock,
	}
}

func (s *rateLimitingSampler) ShouldSample(_, _ string, parent propagation.TraceContext) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refillLocked()

	result := Result{Decision: Drop, TraceState: parent.TraceState}
	if s.tokens >= 1 {
		s.tokens--
		result.Decision = RecordAndSample
	}
	return result
}

// refillLocked adds tokens proportional to wall-clock time elapsed since
// the last call, capped at capacity. Negative elapsed time (a clock step
// backwards) is clamped to zero: the bucket neither refills nor drains.
func (s *rateLimitingSampler) refillLocked() {
	now := s.clock.Now().UnixNano()
	elapsed := now - s.lastRefill
	if elapsed < 0 {
		s.lastRefill = now
		return
	}

	s.tokens += float64(elapsed) / 1e9 * s.refillRate
	if s.tokens > s.capacity {
		s.tokens = s.capacity
	}
	s.lastRefill = now
}

func (s *rateLimitingSampler) Description() string {
	return fmt.Sprintf("RateLimiting{%g/s}", s.capacity)
}
