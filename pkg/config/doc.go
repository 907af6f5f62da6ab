// Package config provides configuration management for Callisto.
//
// This package handles loading, validating, and managing configuration
// from YAML files with environment variable overrides. It provides a
// type-safe configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("callisto.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("callisto.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention
// CALLISTO_SECTION_FIELD. For example:
//
//   - CALLISTO_SERVICE_NAME overrides service.name
//   - CALLISTO_SAMPLING_RATIO overrides sampling.ratio
//   - CALLISTO_EXPORT_ENDPOINT overrides export.endpoint
//
// Environment variables always take precedence over file-based
// configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later
// overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// A Watcher observes the configuration file and delivers reloaded,
// revalidated configurations to a callback. The main use is adjusting
// the sampling ratio of a running process without restarting it:
//
//	w, err := config.NewWatcher("callisto.yaml", nil)
//	go w.Watch(ctx, func(cfg *config.Config) {
//	    tracer.SetSampler(cfg.Sampling.Sampler())
//	})
package config
