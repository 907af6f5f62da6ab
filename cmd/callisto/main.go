// Callisto is a distributed-tracing toolkit and its companion CLI.
//
// The library lets a process create hierarchical spans, propagate trace
// identity across process boundaries with W3C trace-context headers,
// sample traces deterministically, and deliver captured spans to an
// OTLP-compatible collector over HTTP. The CLI wraps the same pipeline
// for operational tasks:
//
//	# Validate a configuration file
//	callisto validate --config callisto.yaml
//
//	# Decode a traceparent header
//	callisto inspect 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
//	# Send a test span through the configured pipeline
//	callisto send --name smoke-test
//
//	# Query and prune the local span archive
//	callisto archive query --trace-id 4bf92f3577b34da6a3ce929d0e0e4736
//	callisto archive prune
//
//	# Show version information
//	callisto version
//
// For complete documentation, see: https://github.com/mercator-hq/callisto
package main

func main() {
	Execute()
}
