package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Latif080790/NataCarePM-sub017/internal/allocation"
)

// SchedulingMode controls what happens to dependent tasks when a schedule
// change propagates.
type SchedulingMode string

const (
	// ModeAuto rewrites the stored dates of every propagated task.
	ModeAuto SchedulingMode = "auto"
	// ModeManual leaves stored dates alone and flags propagated tasks as
	// having stale dates, for a human to resolve.
	ModeManual SchedulingMode = "manual"
)

// IsValid checks if the scheduling mode value is valid.
func (m SchedulingMode) IsValid() bool {
	return m == ModeAuto || m == ModeManual
}

// AllocationPolicy mirrors allocation.Config with YAML field names.
type AllocationPolicy struct {
	Ceiling             int  `yaml:"ceiling"`
	AllowOvertime       bool `yaml:"allow_overtime"`
	OvertimeCeiling     int  `yaml:"overtime_ceiling"`
	CheckOverAllocation bool `yaml:"check_over_allocation"`
}

// Config converts the policy to the allocation package's config type.
func (p AllocationPolicy) Config() allocation.Config {
	return allocation.Config{
		Ceiling:             p.Ceiling,
		AllowOvertime:       p.AllowOvertime,
		OvertimeCeiling:     p.OvertimeCeiling,
		CheckOverAllocation: p.CheckOverAllocation,
	}
}

func policyFromConfig(cfg allocation.Config) AllocationPolicy {
	return AllocationPolicy{
		Ceiling:             cfg.Ceiling,
		AllowOvertime:       cfg.AllowOvertime,
		OvertimeCeiling:     cfg.OvertimeCeiling,
		CheckOverAllocation: cfg.CheckOverAllocation,
	}
}

// ServiceConfig configures the scheduling engine service.
type ServiceConfig struct {
	// Mode selects auto or manual propagation of schedule changes.
	// Default: auto
	Mode SchedulingMode `yaml:"scheduling_mode"`

	// RecomputeInterval throttles the optional background recompute loop,
	// e.g. "30s" or "5m". Empty disables the loop.
	RecomputeInterval string `yaml:"recompute_interval,omitempty"`

	// Allocation is the resource allocation policy.
	Allocation AllocationPolicy `yaml:"allocation"`
}

// DefaultServiceConfig returns the default engine configuration:
// auto-scheduling, no background loop, default allocation policy.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Mode:       ModeAuto,
		Allocation: policyFromConfig(allocation.DefaultConfig()),
	}
}

// Validate checks if the configuration has valid values.
func (c ServiceConfig) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("scheduling_mode must be %q or %q (got %q)", ModeAuto, ModeManual, c.Mode)
	}
	if _, err := c.recomputeEvery(); err != nil {
		return err
	}
	if err := c.Allocation.Config().Validate(); err != nil {
		return fmt.Errorf("allocation policy: %w", err)
	}
	return nil
}

// recomputeEvery parses the background loop interval. Zero means disabled.
func (c ServiceConfig) recomputeEvery() (time.Duration, error) {
	if c.RecomputeInterval == "" {
		return 0, nil
	}
	every, err := time.ParseDuration(c.RecomputeInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid recompute_interval %q: %w", c.RecomputeInterval, err)
	}
	if every <= 0 {
		return 0, fmt.Errorf("recompute_interval must be positive (got %s)", c.RecomputeInterval)
	}
	return every, nil
}

// LoadServiceConfig loads engine configuration from a YAML file, starting
// from defaults so omitted keys keep their default values.
func LoadServiceConfig(path string) (ServiceConfig, error) {
	cfg := DefaultServiceConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ServiceConfigFromEnv creates a ServiceConfig from environment variables,
// falling back to defaults.
//
// Environment variables:
//   - NATAPM_SCHEDULING_MODE: "auto" or "manual" (default: auto)
//   - NATAPM_RECOMPUTE_INTERVAL: background recompute interval, e.g. "30s" (default: disabled)
//   - the NATAPM_ALLOC_* variables read by allocation.ConfigFromEnv
func ServiceConfigFromEnv() (ServiceConfig, error) {
	cfg := DefaultServiceConfig()

	if v := os.Getenv("NATAPM_SCHEDULING_MODE"); v != "" {
		cfg.Mode = SchedulingMode(v)
	}
	if v := os.Getenv("NATAPM_RECOMPUTE_INTERVAL"); v != "" {
		cfg.RecomputeInterval = v
	}

	allocCfg, err := allocation.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	cfg.Allocation = policyFromConfig(allocCfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid engine configuration from environment: %w", err)
	}
	return cfg, nil
}
