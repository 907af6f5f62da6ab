// Package metrics exposes Prometheus metrics for the Callisto export
// pipeline: how many spans were exported, dropped, or lost to transport
// failures, and how long export attempts take. These are operational
// counters about the pipeline itself, not an application metrics surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "callisto"
	subsystem = "export"
)

// ExporterMetrics tracks export pipeline outcomes.
type ExporterMetrics struct {
	registry *prometheus.Registry

	spansExported  prometheus.Counter
	spansDropped   prometheus.Counter
	exportAttempts prometheus.Counter
	exportFailures prometheus.Counter
	exportDuration prometheus.Histogram
}

// NewExporterMetrics creates and registers the export pipeline metrics.
// If registry is nil a fresh registry is created; use Registry or Handler
// to expose it.
func NewExporterMetrics(registry *prometheus.Registry) *ExporterMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &ExporterMetrics{
		registry: registry,
		spansExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "spans_exported_total",
			Help:      "Total number of spans successfully delivered to the collector.",
		}),
		spansDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "spans_dropped_total",
			Help:      "Total number of spans dropped before delivery (full queue or failed send).",
		}),
		exportAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempts_total",
			Help:      "Total number of send attempts, including retries.",
		}),
		exportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failures_total",
			Help:      "Total number of batches lost after exhausting retries.",
		}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of complete export calls, retries included.",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	registry.MustRegister(
		m.spansExported,
		m.spansDropped,
		m.exportAttempts,
		m.exportFailures,
		m.exportDuration,
	)

	return m
}

// RecordExported adds successfully delivered spans.
func (m *ExporterMetrics) RecordExported(count int) {
	if m == nil {
		return
	}
	m.spansExported.Add(float64(count))
}

// RecordDropped adds spans lost to a full queue or a failed send.
func (m *ExporterMetrics) RecordDropped(count int) {
	if m == nil {
		return
	}
	m.spansDropped.Add(float64(count))
}

// RecordAttempt counts one send attempt.
func (m *ExporterMetrics) RecordAttempt() {
	if m == nil {
		return
	}
	m.exportAttempts.Inc()
}

// RecordFailure counts one batch lost after exhausting retries.
func (m *ExporterMetrics) RecordFailure() {
	if m == nil {
		return
	}
	m.exportFailures.Inc()
}

// RecordDuration observes the wall-clock time of one export call.
func (m *ExporterMetrics) RecordDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.exportDuration.Observe(d.Seconds())
}

// Registry returns the backing registry.
func (m *ExporterMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics in Prometheus
// exposition format.
func (m *ExporterMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
