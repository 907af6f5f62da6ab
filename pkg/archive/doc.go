// Package archive persists spans to a local SQLite database.
//
// The archive is an alternative export destination for environments
// without a reachable collector: air-gapped deployments, local
// development, and incident forensics where spans must survive process
// restarts. Store implements trace.SpanExporter, so it plugs into a
// Tracer exactly like the HTTP pipeline does.
//
// Archived spans are pruned by age. The Scheduler runs the pruning job
// on a cron schedule (daily at 3 AM by default); Prune can also be
// called directly.
//
// The database uses write-ahead logging with a single writer
// connection, which matches SQLite's own concurrency model. A
// background goroutine checkpoints the WAL periodically so the log does
// not grow without bound.
package archive
