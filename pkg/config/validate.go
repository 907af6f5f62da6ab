package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g.
	// "export.endpoint").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access
// to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail. All validation errors
// are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateService(&cfg.Service)...)
	errs = append(errs, validateSampling(&cfg.Sampling)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateArchive(&cfg.Archive)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateService(c *ServiceConfig) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, FieldError{
			Field:   "service.name",
			Message: "is required",
		})
	}
	return errs
}

func validateSampling(c *SamplingConfig) []FieldError {
	var errs []FieldError

	switch c.Strategy {
	case StrategyAlwaysOn, StrategyAlwaysOff, StrategyRatio, StrategyParentRatio, StrategyRateLimiting:
	default:
		errs = append(errs, FieldError{
			Field: "sampling.strategy",
			Message: fmt.Sprintf("must be one of %s, %s, %s, %s, %s",
				StrategyAlwaysOn, StrategyAlwaysOff, StrategyRatio,
				StrategyParentRatio, StrategyRateLimiting),
		})
	}

	if c.Ratio < 0 || c.Ratio > 1 {
		errs = append(errs, FieldError{
			Field:   "sampling.ratio",
			Message: "must be between 0.0 and 1.0",
		})
	}
	if c.MaxPerSecond < 0 {
		errs = append(errs, FieldError{
			Field:   "sampling.max_per_second",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateExport(c *ExportConfig) []FieldError {
	var errs []FieldError

	if c.Enabled {
		if c.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "export.endpoint",
				Message: "is required when export is enabled",
			})
		} else if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   "export.endpoint",
				Message: "must be a valid URL with scheme and host",
			})
		}
	}

	if c.Timeout < 0 {
		errs = append(errs, FieldError{Field: "export.timeout", Message: "must not be negative"})
	}
	if c.RetryCount < 0 {
		errs = append(errs, FieldError{Field: "export.retry_count", Message: "must not be negative"})
	}
	if c.RetryDelay < 0 {
		errs = append(errs, FieldError{Field: "export.retry_delay", Message: "must not be negative"})
	}
	if c.MaxBatchSize <= 0 {
		errs = append(errs, FieldError{Field: "export.max_batch_size", Message: "must be positive"})
	}
	if c.MaxQueueSize <= 0 {
		errs = append(errs, FieldError{Field: "export.max_queue_size", Message: "must be positive"})
	}
	if c.MaxBatchSize > 0 && c.MaxQueueSize > 0 && c.MaxQueueSize < c.MaxBatchSize {
		errs = append(errs, FieldError{
			Field:   "export.max_queue_size",
			Message: "must be at least max_batch_size",
		})
	}

	return errs
}

func validateArchive(c *ArchiveConfig) []FieldError {
	var errs []FieldError

	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		errs = append(errs, FieldError{
			Field:   "archive.path",
			Message: "is required when the archive is enabled",
		})
	}
	if c.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "archive.retention_days",
			Message: "must not be negative",
		})
	}
	if c.PruneSchedule != "" {
		if _, err := cron.ParseStandard(c.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "archive.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	if c.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "archive.busy_timeout",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateLogging(c *LoggingConfig) []FieldError {
	var errs []FieldError

	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: "must be one of debug, info, warn, error",
		})
	}

	switch c.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: "must be text or json",
		})
	}

	return errs
}
