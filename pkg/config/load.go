package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values, validates the configuration, and
// returns any errors. The configuration is not modified by environment
// variables; use LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention CALLISTO_SECTION_FIELD (e.g.
// CALLISTO_EXPORT_ENDPOINT). Environment variables always take
// precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format
// CALLISTO_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Service overrides
	if val := os.Getenv("CALLISTO_SERVICE_NAME"); val != "" {
		cfg.Service.Name = val
	}
	if val := os.Getenv("CALLISTO_SERVICE_VERSION"); val != "" {
		cfg.Service.Version = val
	}
	if val := os.Getenv("CALLISTO_SERVICE_ENVIRONMENT"); val != "" {
		cfg.Service.Environment = val
	}

	// Sampling overrides
	if val := os.Getenv("CALLISTO_SAMPLING_STRATEGY"); val != "" {
		cfg.Sampling.Strategy = val
	}
	if val := os.Getenv("CALLISTO_SAMPLING_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Sampling.Ratio = f
		}
	}
	if val := os.Getenv("CALLISTO_SAMPLING_MAX_PER_SECOND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Sampling.MaxPerSecond = f
		}
	}

	// Export overrides
	if val := os.Getenv("CALLISTO_EXPORT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Export.Enabled = b
		}
	}
	if val := os.Getenv("CALLISTO_EXPORT_ENDPOINT"); val != "" {
		cfg.Export.Endpoint = val
	}
	if val := os.Getenv("CALLISTO_EXPORT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Export.Timeout = d
		}
	}
	if val := os.Getenv("CALLISTO_EXPORT_HEADERS"); val != "" {
		if headers := parseHeaderList(val); len(headers) > 0 {
			cfg.Export.Headers = headers
		}
	}
	if val := os.Getenv("CALLISTO_EXPORT_RETRY_COUNT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Export.RetryCount = i
		}
	}
	if val := os.Getenv("CALLISTO_EXPORT_RETRY_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Export.RetryDelay = d
		}
	}
	if val := os.Getenv("CALLISTO_EXPORT_MAX_BATCH_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Export.MaxBatchSize = i
		}
	}
	if val := os.Getenv("CALLISTO_EXPORT_MAX_QUEUE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Export.MaxQueueSize = i
		}
	}

	// Archive overrides
	if val := os.Getenv("CALLISTO_ARCHIVE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Archive.Enabled = b
		}
	}
	if val := os.Getenv("CALLISTO_ARCHIVE_PATH"); val != "" {
		cfg.Archive.Path = val
	}
	if val := os.Getenv("CALLISTO_ARCHIVE_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Archive.RetentionDays = i
		}
	}
	if val := os.Getenv("CALLISTO_ARCHIVE_PRUNE_SCHEDULE"); val != "" {
		cfg.Archive.PruneSchedule = val
	}

	// Logging overrides
	if val := os.Getenv("CALLISTO_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("CALLISTO_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("CALLISTO_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Logging.AddSource = b
		}
	}
}

// parseHeaderList parses "key1=value1,key2=value2" into a header map.
// Entries without an equals sign are skipped.
func parseHeaderList(s string) map[string]string {
	headers := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || key == "" {
			continue
		}
		headers[key] = value
	}
	return headers
}
