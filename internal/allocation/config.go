package allocation

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the allocation policy knobs.
type Config struct {
	// Ceiling is the maximum combined planned+active percentage a single
	// resource may carry on any calendar day.
	// Default: 100, Range: 1-1000
	Ceiling int

	// AllowOvertime permits individual allocations above 100%, up to
	// OvertimeCeiling. When false, any single allocation above 100% is
	// rejected as out of range.
	// Default: false
	AllowOvertime bool

	// OvertimeCeiling caps a single allocation's percentage when
	// AllowOvertime is set. Ignored otherwise.
	// Default: 150, Range: 101-1000
	OvertimeCeiling int

	// CheckOverAllocation enables the aggregate concurrent-load guard. When
	// disabled only the per-allocation range checks run.
	// Default: true
	CheckOverAllocation bool
}

// DefaultConfig returns the default allocation policy: full-capacity
// ceiling, no overtime, aggregate guard on.
func DefaultConfig() Config {
	return Config{
		Ceiling:             100,
		AllowOvertime:       false,
		OvertimeCeiling:     150,
		CheckOverAllocation: true,
	}
}

// Validate checks if the configuration has valid values.
func (c Config) Validate() error {
	if c.Ceiling < 1 || c.Ceiling > 1000 {
		return fmt.Errorf("ceiling must be between 1 and 1000 (got %d)", c.Ceiling)
	}
	if c.AllowOvertime {
		if c.OvertimeCeiling <= 100 {
			return fmt.Errorf("overtime_ceiling must exceed 100 when overtime is allowed (got %d)", c.OvertimeCeiling)
		}
		if c.OvertimeCeiling > 1000 {
			return fmt.Errorf("overtime_ceiling too large (got %d, max 1000)", c.OvertimeCeiling)
		}
	}
	return nil
}

// MaxPercent returns the largest percentage a single allocation may request
// under this policy.
func (c Config) MaxPercent() int {
	if c.AllowOvertime {
		return c.OvertimeCeiling
	}
	return 100
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - NATAPM_ALLOC_CEILING: per-resource concurrent ceiling percent (default: 100)
//   - NATAPM_ALLOC_ALLOW_OVERTIME: permit single allocations above 100% (default: false)
//   - NATAPM_ALLOC_OVERTIME_CEILING: cap for overtime allocations (default: 150)
//   - NATAPM_ALLOC_CHECK_OVERALLOCATION: enable the aggregate guard (default: true)
//
// Returns an error if any variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvInt("NATAPM_ALLOC_CEILING", &cfg.Ceiling); err != nil {
		return cfg, err
	}
	if err := parseEnvBool("NATAPM_ALLOC_ALLOW_OVERTIME", &cfg.AllowOvertime); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("NATAPM_ALLOC_OVERTIME_CEILING", &cfg.OvertimeCeiling); err != nil {
		return cfg, err
	}
	if err := parseEnvBool("NATAPM_ALLOC_CHECK_OVERALLOCATION", &cfg.CheckOverAllocation); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid allocation configuration from environment: %w", err)
	}
	return cfg, nil
}

func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
