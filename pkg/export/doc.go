// Package export ships ended spans to a remote collector.
//
// The pipeline has three layers. The serializer flattens a slice of
// spans into a single OTLP-style JSON document. The Exporter posts that
// document to the collector's /v1/traces endpoint with bounded retry:
// a 2xx response is success, a 4xx response is terminal, and a 5xx
// response or transport failure is retried after a fixed delay until
// the attempt budget runs out. The Batcher sits in front of the
// Exporter and accumulates spans until a batch fills or a flush is
// requested.
//
// Delivery is at most once. A batch handed to the Exporter is never
// re-queued: when every attempt fails the spans are counted as dropped
// and the caller moves on. Tracing must never block or crash the
// application it instruments, so every failure mode here degrades to
// lost trace data.
//
// # Usage
//
//	exp := export.New(export.DefaultConfig("http://collector:4318"))
//	batcher := export.NewBatcher(export.DefaultConfig("http://collector:4318"), exp)
//	tracer := trace.New(trace.DefaultConfig("checkout"), trace.WithExporter(batcher))
//	defer batcher.Shutdown(context.Background())
package export
