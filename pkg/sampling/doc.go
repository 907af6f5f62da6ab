// Package sampling decides which traces Callisto records and exports.
//
// # Overview
//
// A Sampler is a pure decision function over the trace ID, the operation
// name, and the parent trace context. The verdict is tri-state: drop the
// span entirely, record it without exporting, or record and export it.
// The decision is made once, at span creation, and is stamped onto the
// span for its lifetime.
//
// # Strategies
//
// AlwaysOn and AlwaysOff return constant verdicts and exist for
// development and for disabling tracing without removing instrumentation.
//
// TraceIDRatio samples a deterministic fraction of traces. The verdict is
// a function of the trace ID alone, so every span of one trace, in every
// process, agrees: same trace ID, same decision.
//
// ParentBased mirrors the parent's decision when a valid parent context
// exists and falls back to a configured root sampler otherwise. This is
// the strategy production services should run: it keeps distributed
// traces whole instead of sampling each hop independently.
//
// RateLimiting caps the number of sampled traces per second with a token
// bucket. It is deliberately non-deterministic across spans of the same
// trace; compose it as the root of a ParentBased sampler so downstream
// spans follow the root's verdict:
//
//	sampler := sampling.ParentBased(sampling.RateLimiting(100))
//
// # Choosing a Strategy
//
// Development: AlwaysOn. Production with predictable traffic:
// ParentBased(TraceIDRatio(r)). Production with bursty traffic where a
// hard cap matters more than a fixed percentage:
// ParentBased(RateLimiting(n)).
package sampling
