package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.Ceiling)
	assert.False(t, cfg.AllowOvertime)
	assert.Equal(t, 150, cfg.OvertimeCeiling)
	assert.True(t, cfg.CheckOverAllocation)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"ceiling zero", func(c *Config) { c.Ceiling = 0 }, true},
		{"ceiling negative", func(c *Config) { c.Ceiling = -1 }, true},
		{"ceiling too large", func(c *Config) { c.Ceiling = 1001 }, true},
		{"ceiling at max", func(c *Config) { c.Ceiling = 1000 }, false},
		{"overtime ceiling ignored when overtime off", func(c *Config) { c.OvertimeCeiling = 50 }, false},
		{"overtime ceiling too low", func(c *Config) { c.AllowOvertime = true; c.OvertimeCeiling = 100 }, true},
		{"overtime ceiling too large", func(c *Config) { c.AllowOvertime = true; c.OvertimeCeiling = 1001 }, true},
		{"overtime valid", func(c *Config) { c.AllowOvertime = true; c.OvertimeCeiling = 200 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigMaxPercent(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 100, cfg.MaxPercent())

	cfg.AllowOvertime = true
	cfg.OvertimeCeiling = 175
	assert.Equal(t, 175, cfg.MaxPercent())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("NATAPM_ALLOC_CEILING", "200")
	t.Setenv("NATAPM_ALLOC_ALLOW_OVERTIME", "true")
	t.Setenv("NATAPM_ALLOC_OVERTIME_CEILING", "250")
	t.Setenv("NATAPM_ALLOC_CHECK_OVERALLOCATION", "false")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Ceiling)
	assert.True(t, cfg.AllowOvertime)
	assert.Equal(t, 250, cfg.OvertimeCeiling)
	assert.False(t, cfg.CheckOverAllocation)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("NATAPM_ALLOC_CEILING", "")
	t.Setenv("NATAPM_ALLOC_ALLOW_OVERTIME", "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	t.Setenv("NATAPM_ALLOC_CEILING", "not-a-number")
	_, err := ConfigFromEnv()
	assert.Error(t, err)

	t.Setenv("NATAPM_ALLOC_CEILING", "0")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}
