// Package config holds operational policies that sit outside the scheduling
// engine proper, currently the audit event retention policy.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// EventRetentionConfig holds configuration for audit event retention and cleanup
type EventRetentionConfig struct {
	// RetentionDays is the retention period for info events (in days)
	// Events older than this are eligible for deletion
	// Default: 90, Range: 1-365
	RetentionDays int

	// RetentionWarningDays is the retention period for warning/error events (in days)
	// Warnings mark unresolved schedule drift, so they are kept longer
	// Must be >= RetentionDays
	// Default: 365, Range: 1-730
	RetentionWarningDays int

	// CleanupBatchSize is the number of events to delete per transaction
	// Larger batches = faster cleanup but longer locks
	// Default: 1000, Range: 100-10000
	CleanupBatchSize int

	// CleanupEnabled controls whether cleanup is enabled
	// Default: true
	CleanupEnabled bool
}

// DefaultEventRetentionConfig returns the default event retention configuration
//
// These defaults are chosen to:
// - Keep a quarter's worth of routine scheduling history (90 days)
// - Keep a full year of warnings, which mark unresolved drift (365 days)
// - Delete in batches small enough not to hold the write lock long
func DefaultEventRetentionConfig() EventRetentionConfig {
	return EventRetentionConfig{
		RetentionDays:        90,
		RetentionWarningDays: 365,
		CleanupBatchSize:     1000,
		CleanupEnabled:       true,
	}
}

// Validate checks if the configuration has valid values
func (c EventRetentionConfig) Validate() error {
	if c.RetentionDays < 1 || c.RetentionDays > 365 {
		return fmt.Errorf("retention_days must be between 1 and 365 (got %d)", c.RetentionDays)
	}

	if c.RetentionWarningDays < 1 || c.RetentionWarningDays > 730 {
		return fmt.Errorf("retention_warning_days must be between 1 and 730 (got %d)",
			c.RetentionWarningDays)
	}
	if c.RetentionWarningDays < c.RetentionDays {
		return fmt.Errorf("retention_warning_days (%d) must be >= retention_days (%d)",
			c.RetentionWarningDays, c.RetentionDays)
	}

	if c.CleanupBatchSize < 100 {
		return fmt.Errorf("cleanup_batch_size must be at least 100 (got %d)",
			c.CleanupBatchSize)
	}
	if c.CleanupBatchSize > 10000 {
		return fmt.Errorf("cleanup_batch_size too large (got %d, max 10000)",
			c.CleanupBatchSize)
	}

	return nil
}

// String returns a human-readable representation of the config
func (c EventRetentionConfig) String() string {
	return fmt.Sprintf(
		"EventRetentionConfig{RetentionDays: %d, RetentionWarningDays: %d, "+
			"BatchSize: %d, Enabled: %t}",
		c.RetentionDays, c.RetentionWarningDays, c.CleanupBatchSize, c.CleanupEnabled,
	)
}

// EventRetentionConfigFromEnv creates an EventRetentionConfig from environment
// variables, falling back to defaults
//
// Environment variables:
//   - NATAPM_EVENT_RETENTION_DAYS: Retention period for info events in days (default: 90)
//   - NATAPM_EVENT_RETENTION_WARNING_DAYS: Retention period for warning/error events in days (default: 365)
//   - NATAPM_EVENT_CLEANUP_BATCH_SIZE: Events to delete per transaction (default: 1000)
//   - NATAPM_EVENT_CLEANUP_ENABLED: Enable cleanup (default: true)
//
// Returns an error if any environment variable has an invalid value.
func EventRetentionConfigFromEnv() (EventRetentionConfig, error) {
	cfg := DefaultEventRetentionConfig()

	if err := parseEnvInt("NATAPM_EVENT_RETENTION_DAYS", &cfg.RetentionDays); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("NATAPM_EVENT_RETENTION_WARNING_DAYS", &cfg.RetentionWarningDays); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("NATAPM_EVENT_CLEANUP_BATCH_SIZE", &cfg.CleanupBatchSize); err != nil {
		return cfg, err
	}
	if err := parseEnvBool("NATAPM_EVENT_CLEANUP_ENABLED", &cfg.CleanupEnabled); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid event retention configuration from environment: %w", err)
	}

	return cfg, nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvBool parses a bool from an environment variable
func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
