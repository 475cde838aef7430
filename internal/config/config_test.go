package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mepscan/internal/quotes"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, quotes.ModeLastPrice, mode)
	assert.InDelta(t, 1100.0, cfg.Analysis.DefaultReferenceRate, 1e-9)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mepscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
analysis:
  pricing_mode: bid-ask-directional
  default_reference_rate: 1250.5
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 1250.5, cfg.Analysis.DefaultReferenceRate, 1e-9)

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, quotes.ModeBidAskDirectional, mode)

	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mepscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("MEPSCAN_SERVER_PORT", "7070")
	t.Setenv("MEPSCAN_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown pricing mode", func(c *Config) { c.Analysis.PricingMode = "vwap" }},
		{"non-positive reference rate", func(c *Config) { c.Analysis.DefaultReferenceRate = 0 }},
		{"negative reference rate", func(c *Config) { c.Analysis.DefaultReferenceRate = -1 }},
		{"zero upload cap", func(c *Config) { c.Analysis.MaxUploadBytes = 0 }},
		{"rate limit without rps", func(c *Config) { c.Security.RateLimit.RPS = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "logfmt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mepscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
