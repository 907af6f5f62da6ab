package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zoobzio/clockz"

	"mercator-hq/callisto/pkg/logging"
	"mercator-hq/callisto/pkg/metrics"
	"mercator-hq/callisto/pkg/trace"
)

// Config holds the export pipeline settings.
type Config struct {
	// Endpoint is the collector base URL. The /v1/traces path is
	// appended by the transport.
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds each individual send attempt, not the whole retry
	// sequence.
	Timeout time.Duration `yaml:"timeout"`

	// Headers are static key/value pairs merged into every request.
	Headers map[string]string `yaml:"headers"`

	// RetryCount is the number of extra attempts beyond the first.
	RetryCount int `yaml:"retry_count"`

	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// MaxBatchSize triggers an automatic Batcher flush when the queue
	// reaches this many spans.
	MaxBatchSize int `yaml:"max_batch_size"`

	// MaxQueueSize caps the Batcher queue. Spans arriving beyond the
	// cap are dropped and counted.
	MaxQueueSize int `yaml:"max_queue_size"`

	// ServiceVersion and Environment are stamped onto the resource
	// block of every exported document.
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`
}

// DefaultConfig returns the export settings used when a field is left
// unset.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:     endpoint,
		Timeout:      10 * time.Second,
		RetryCount:   3,
		RetryDelay:   time.Second,
		MaxBatchSize: 512,
		MaxQueueSize: 2048,
	}
}

// Exporter serializes span batches and delivers them with bounded
// retry. It implements trace.SpanExporter.
type Exporter struct {
	cfg       Config
	transport Transport
	clock     clockz.Clock
	logger    *slog.Logger
	metrics   *metrics.ExporterMetrics
}

// Option adjusts an Exporter beyond its Config.
type Option func(*Exporter)

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(t Transport) Option {
	return func(e *Exporter) { e.transport = t }
}

// WithClock injects the clock used for retry delays.
func WithClock(c clockz.Clock) Option {
	return func(e *Exporter) { e.clock = c }
}

// WithLogger replaces the default component logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithMetrics attaches Prometheus instrumentation. Without it the
// exporter runs unmetered.
func WithMetrics(m *metrics.ExporterMetrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// New builds an Exporter for the collector named in cfg.
func New(cfg Config, opts ...Option) *Exporter {
	e := &Exporter{
		cfg:    cfg,
		clock:  clockz.RealClock,
		logger: logging.Component("export"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.transport == nil {
		e.transport = NewHTTPTransport(cfg.Endpoint, cfg.Timeout, cfg.Headers)
	}
	return e
}

// ExportSpans serializes spans into one document and posts it. Up to
// RetryCount+1 attempts are made: 2xx succeeds, 4xx fails terminally,
// 5xx and transport errors are retried after RetryDelay. The delay is
// cancellable through ctx, so a caller deadline or shutdown aborts the
// sequence early instead of sleeping through it.
//
// On success the full span count is reported. On any failure zero spans
// are reported and the batch is gone; the caller must not re-queue it.
func (e *Exporter) ExportSpans(ctx context.Context, spans []*trace.Span) (int, error) {
	if len(spans) == 0 {
		return 0, nil
	}

	body, err := Serialize(spans, e.cfg.ServiceVersion, e.cfg.Environment)
	if err != nil {
		e.fail(len(spans))
		return 0, fmt.Errorf("serializing %d spans: %w", len(spans), err)
	}

	attempts := e.cfg.RetryCount + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		e.metrics.RecordAttempt()
		status, err := e.send(ctx, body)
		switch {
		case err == nil && status >= 200 && status < 300:
			e.metrics.RecordExported(len(spans))
			return len(spans), nil
		case err == nil && (status < 500 || status >= 600):
			// 4xx and other non-5xx statuses mean the collector
			// understood the request and refused it. Retrying the same
			// payload cannot help.
			e.fail(len(spans))
			return 0, fmt.Errorf("collector rejected batch: status %d", status)
		case err != nil:
			lastErr = err
		default:
			lastErr = fmt.Errorf("collector returned status %d", status)
		}

		if attempt == attempts {
			break
		}
		e.logger.Debug("send attempt failed, retrying",
			"attempt", attempt,
			"error", lastErr,
			"delay", e.cfg.RetryDelay,
		)
		select {
		case <-e.clock.After(e.cfg.RetryDelay):
		case <-ctx.Done():
			e.fail(len(spans))
			return 0, fmt.Errorf("export canceled after attempt %d: %w", attempt, ctx.Err())
		}
	}

	e.fail(len(spans))
	return 0, fmt.Errorf("export failed after %d attempts: %w", attempts, lastErr)
}

// send runs one attempt under its own timeout and records its duration.
func (e *Exporter) send(ctx context.Context, body []byte) (int, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := e.clock.Now()
	status, err := e.transport.Send(ctx, body)
	e.metrics.RecordDuration(e.clock.Since(start))
	return status, err
}

func (e *Exporter) fail(dropped int) {
	e.metrics.RecordFailure()
	e.metrics.RecordDropped(dropped)
}
