package sampling

import (
	"fmt"
	"math"
	"strconv"

	"mercator-hq/callisto/pkg/propagation"
)

// traceIDRatioSampler samples a fixed fraction of traces, decided
// deterministically from the trace ID so that every span within one trace
// reaches the same verdict without coordination.
type traceIDRatioSampler struct {
	ratio     float64
	threshold uint64
}

// TraceIDRatio returns a sampler that records and samples approximately
// the given fraction of traces. The ratio is clamped to [0, 1] at
// construction. A ratio of 1 or more samples everything; 0 or less
// samples nothing.
//
// The decision hashes the trailing 8 hex characters of the trace ID as a
// base-16 integer and compares it against floor(ratio x (2^31 - 1)), so
// identical trace IDs always produce identical verdicts.
func TraceIDRatio(ratio float64) Sampler {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return traceIDRatioSampler{
		ratio:     ratio,
		threshold: uint64(ratio * float64(math.MaxInt32)),
	}
}

func (s traceIDRatioSampler) ShouldSample(traceID, _ string, parent propagation.TraceContext) Result {
	result := Result{Decision: Drop, TraceState: parent.TraceState}

	switch {
	case s.ratio >= 1:
		result.Decision = RecordAndSample
	case s.ratio <= 0:
		// Drop.
	case len(traceID) >= 8:
		hash, err := strconv.ParseUint(traceID[len(traceID)-8:], 16, 64)
		if err == nil && hash < s.threshold {
			result.Decision = RecordAndSample
		}
	}

	return result
}

func (s traceIDRatioSampler) Description() string {
	return fmt.Sprintf("TraceIDRatio{%g}", s.ratio)
}
