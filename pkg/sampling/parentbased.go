package sampling

import (
	"fmt"

	"mercator-hq/callisto/pkg/propagation"
)

// parentBasedSampler respects an existing sampling decision when one is
// present and delegates to a root sampler when the span starts a new trace.
type parentBasedSampler struct {
	root Sampler
}

// ParentBased wraps a root sampler so that spans with a valid parent
// context mirror the parent's decision exactly, propagating the parent's
// trace state unchanged. Only spans without a valid parent consult the
// root sampler. This keeps distributed traces all-or-nothing: either the
// whole trace is sampled or none of it is.
func ParentBased(root Sampler) Sampler {
	if root == nil {
		root = AlwaysOn()
	}
	return parentBasedSampler{root: root}
}

func (s parentBasedSampler) ShouldSample(traceID, name string, parent propagation.TraceContext) Result {
	if parent.IsValid() {
		decision := Drop
		if parent.Sampled {
			decision = RecordAndSample
		}
		return Result{Decision: decision, TraceState: parent.TraceState}
	}
	return s.root.ShouldSample(traceID, name, parent)
}

func (s parentBasedSampler) Description() string {
	return fmt.Sprintf("ParentBased{root=%s}", s.root.Description())
}
