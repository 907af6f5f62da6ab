package config

import "testing"

func TestApplyDefaultsEmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Sampling.Strategy != DefaultSamplingStrategy {
		t.Errorf("sampling.strategy = %q", cfg.Sampling.Strategy)
	}
	if cfg.Sampling.Ratio != DefaultSamplingRatio {
		t.Errorf("sampling.ratio = %v", cfg.Sampling.Ratio)
	}
	if cfg.Export.Timeout != DefaultExportTimeout {
		t.Errorf("export.timeout = %v", cfg.Export.Timeout)
	}
	if cfg.Export.MaxBatchSize != DefaultExportMaxBatchSize {
		t.Errorf("export.max_batch_size = %d", cfg.Export.MaxBatchSize)
	}
	if cfg.Export.MaxQueueSize != DefaultExportMaxQueueSize {
		t.Errorf("export.max_queue_size = %d", cfg.Export.MaxQueueSize)
	}
	if cfg.Archive.Path != DefaultArchivePath {
		t.Errorf("archive.path = %q", cfg.Archive.Path)
	}
	if cfg.Archive.PruneSchedule != DefaultArchivePruneSchedule {
		t.Errorf("archive.prune_schedule = %q", cfg.Archive.PruneSchedule)
	}
	if cfg.Logging.Level != DefaultLoggingLevel || cfg.Logging.Format != DefaultLoggingFormat {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Sampling.Strategy = StrategyRatio
	cfg.Sampling.Ratio = 0.1
	cfg.Export.MaxBatchSize = 64
	cfg.Logging.Level = "error"

	ApplyDefaults(cfg)

	if cfg.Sampling.Strategy != StrategyRatio || cfg.Sampling.Ratio != 0.1 {
		t.Errorf("sampling = %+v", cfg.Sampling)
	}
	if cfg.Export.MaxBatchSize != 64 {
		t.Errorf("export.max_batch_size = %d", cfg.Export.MaxBatchSize)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}
}

func TestApplyDefaultsExplicitZeroRatio(t *testing.T) {
	// An explicit strategy with ratio 0 means sample nothing.
	cfg := &Config{}
	cfg.Sampling.Strategy = StrategyRatio

	ApplyDefaults(cfg)

	if cfg.Sampling.Ratio != 0 {
		t.Errorf("sampling.ratio = %v, want 0 preserved", cfg.Sampling.Ratio)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Name = "test"

	if err := Validate(cfg); err != nil {
		t.Errorf("DefaultConfig() should validate once named: %v", err)
	}
}
