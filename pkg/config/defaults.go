package config

import "time"

// Default values for configuration fields.
const (
	// Sampling defaults
	DefaultSamplingStrategy     = StrategyParentRatio
	DefaultSamplingRatio        = 1.0
	DefaultSamplingMaxPerSecond = 10.0

	// Export defaults
	DefaultExportTimeout      = 10 * time.Second
	DefaultExportRetryCount   = 3
	DefaultExportRetryDelay   = time.Second
	DefaultExportMaxBatchSize = 512
	DefaultExportMaxQueueSize = 2048

	// Archive defaults
	DefaultArchivePath          = "data/spans.db"
	DefaultArchiveRetentionDays = 7
	DefaultArchivePruneSchedule = "0 3 * * *"
	DefaultArchiveBusyTimeout   = 5 * time.Second

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// ApplyDefaults fills in default values for any unset configuration
// fields. It modifies the configuration in place. The sampling ratio is
// only defaulted alongside the strategy: an explicit strategy with
// ratio 0 means sample nothing, not "use the default".
func ApplyDefaults(cfg *Config) {
	if cfg.Sampling.Strategy == "" {
		cfg.Sampling.Strategy = DefaultSamplingStrategy
		if cfg.Sampling.Ratio == 0 {
			cfg.Sampling.Ratio = DefaultSamplingRatio
		}
	}
	if cfg.Sampling.MaxPerSecond == 0 {
		cfg.Sampling.MaxPerSecond = DefaultSamplingMaxPerSecond
	}

	if cfg.Export.Timeout == 0 {
		cfg.Export.Timeout = DefaultExportTimeout
	}
	if cfg.Export.RetryCount == 0 {
		cfg.Export.RetryCount = DefaultExportRetryCount
	}
	if cfg.Export.RetryDelay == 0 {
		cfg.Export.RetryDelay = DefaultExportRetryDelay
	}
	if cfg.Export.MaxBatchSize == 0 {
		cfg.Export.MaxBatchSize = DefaultExportMaxBatchSize
	}
	if cfg.Export.MaxQueueSize == 0 {
		cfg.Export.MaxQueueSize = DefaultExportMaxQueueSize
	}

	if cfg.Archive.Path == "" {
		cfg.Archive.Path = DefaultArchivePath
	}
	if cfg.Archive.RetentionDays == 0 {
		cfg.Archive.RetentionDays = DefaultArchiveRetentionDays
	}
	if cfg.Archive.PruneSchedule == "" {
		cfg.Archive.PruneSchedule = DefaultArchivePruneSchedule
	}
	if cfg.Archive.BusyTimeout == 0 {
		cfg.Archive.BusyTimeout = DefaultArchiveBusyTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
}

// DefaultConfig returns a configuration with every field at its
// default, ready for a service that only needs a name filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
