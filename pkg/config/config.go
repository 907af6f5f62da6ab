package config

import (
	"time"

	"mercator-hq/callisto/pkg/export"
	"mercator-hq/callisto/pkg/sampling"
)

// Config is the root configuration for a Callisto-instrumented process.
type Config struct {
	// Service identifies the instrumented service.
	Service ServiceConfig `yaml:"service"`

	// Sampling selects and tunes the sampling strategy.
	Sampling SamplingConfig `yaml:"sampling"`

	// Export configures delivery to the collector.
	Export ExportConfig `yaml:"export"`

	// Archive configures the optional local span archive.
	Archive ArchiveConfig `yaml:"archive"`

	// Logging configures diagnostic output.
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig identifies the instrumented service on every exported
// span.
type ServiceConfig struct {
	// Name is the service name, stamped as the service.name resource
	// attribute. Required.
	Name string `yaml:"name"`

	// Version is the service version, stamped as service.version when
	// set.
	Version string `yaml:"version"`

	// Environment is the deployment environment (e.g. "production"),
	// stamped as deployment.environment when set.
	Environment string `yaml:"environment"`
}

// Sampling strategy names accepted in SamplingConfig.Strategy.
const (
	StrategyAlwaysOn     = "always_on"
	StrategyAlwaysOff    = "always_off"
	StrategyRatio        = "ratio"
	StrategyParentRatio  = "parent_ratio"
	StrategyRateLimiting = "rate_limiting"
)

// SamplingConfig selects the sampling strategy for root spans.
type SamplingConfig struct {
	// Strategy is one of always_on, always_off, ratio, parent_ratio
	// or rate_limiting.
	Strategy string `yaml:"strategy"`

	// Ratio is the fraction of traces to sample for the ratio and
	// parent_ratio strategies, in [0, 1].
	Ratio float64 `yaml:"ratio"`

	// MaxPerSecond caps sampled traces per second for the
	// rate_limiting strategy.
	MaxPerSecond float64 `yaml:"max_per_second"`
}

// Sampler builds the sampler this configuration describes. Unknown
// strategies fall back to the parent_ratio default; Validate rejects
// them before a Config reaches this point in normal operation.
func (c SamplingConfig) Sampler() sampling.Sampler {
	switch c.Strategy {
	case StrategyAlwaysOn:
		return sampling.AlwaysOn()
	case StrategyAlwaysOff:
		return sampling.AlwaysOff()
	case StrategyRatio:
		return sampling.TraceIDRatio(c.Ratio)
	case StrategyRateLimiting:
		return sampling.ParentBased(sampling.RateLimiting(c.MaxPerSecond))
	default:
		return sampling.ParentBased(sampling.TraceIDRatio(c.Ratio))
	}
}

// ExportConfig configures the export pipeline.
type ExportConfig struct {
	// Endpoint is the collector base URL. The /v1/traces path is
	// appended automatically. Required unless Enabled is false.
	Endpoint string `yaml:"endpoint"`

	// Enabled turns the export pipeline on. When false, ended spans
	// are discarded (or archived locally when the archive is enabled).
	Enabled bool `yaml:"enabled"`

	// Timeout bounds each individual send attempt.
	Timeout time.Duration `yaml:"timeout"`

	// Headers are static key/value pairs merged into every request,
	// typically authentication tokens.
	Headers map[string]string `yaml:"headers"`

	// RetryCount is the number of extra attempts beyond the first.
	RetryCount int `yaml:"retry_count"`

	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// MaxBatchSize triggers an automatic flush when the batch queue
	// reaches this many spans.
	MaxBatchSize int `yaml:"max_batch_size"`

	// MaxQueueSize caps the batch queue; spans beyond it are dropped.
	MaxQueueSize int `yaml:"max_queue_size"`
}

// ExporterConfig converts this section into the export package's
// configuration, carrying the service identity along for the resource
// block.
func (c *Config) ExporterConfig() export.Config {
	return export.Config{
		Endpoint:       c.Export.Endpoint,
		Timeout:        c.Export.Timeout,
		Headers:        c.Export.Headers,
		RetryCount:     c.Export.RetryCount,
		RetryDelay:     c.Export.RetryDelay,
		MaxBatchSize:   c.Export.MaxBatchSize,
		MaxQueueSize:   c.Export.MaxQueueSize,
		ServiceVersion: c.Service.Version,
		Environment:    c.Service.Environment,
	}
}

// ArchiveConfig configures the local SQLite span archive.
type ArchiveConfig struct {
	// Enabled turns the archive on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file. Required when Enabled.
	Path string `yaml:"path"`

	// RetentionDays is how long archived spans are kept before the
	// pruning job removes them. Zero disables pruning.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for the pruning job.
	PruneSchedule string `yaml:"prune_schedule"`

	// BusyTimeout is the SQLite busy timeout for concurrent access.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`

	// AddSource includes source file positions in log records.
	AddSource bool `yaml:"add_source"`
}
