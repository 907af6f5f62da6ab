// Package propagation implements W3C Trace Context propagation for Callisto.
//
// # Overview
//
// The propagation package converts between the in-memory trace identity
// (trace ID, span ID, sampling decision, vendor state) and the wire headers
// carried on HTTP requests crossing service boundaries. It also carries
// user-defined baggage alongside the trace context.
//
// # Trace Context Propagation
//
// The package implements W3C Trace Context (https://www.w3.org/TR/trace-context/)
// with the fixed version 00 header layout:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	tracestate: congo=t61rcWkgMzE
//
// The traceparent header is exactly 55 characters: a 2-character version,
// a 32-character trace ID, a 16-character parent span ID, and 2 flag
// characters, dash-separated. The sampled decision lives in bit 0 of the
// flags byte.
//
// # Error Handling
//
// Parsing never fails with an error. A malformed header of any kind, wrong
// length, wrong delimiter placement, unknown version, or an invalid ID
// segment, yields the zero TraceContext, which reports IsValid() == false.
// Callers treat the invalid sentinel as "no inbound trace".
//
// # Baggage
//
// Baggage is a flat string-to-string map serialized as comma-separated
// key=value pairs. Keys and values are percent-encoded on the wire so
// commas, equals signs, and percent signs inside them survive a round
// trip. Baggage is propagated independently of the sampling decision.
//
// # Usage
//
//	// Server side: recover the inbound context.
//	tc := propagation.Extract(r.Header)
//
//	// Client side: put the current span's context on the wire.
//	propagation.Inject(span.Context(), req.Header)
package propagation
