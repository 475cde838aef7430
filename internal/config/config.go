// Package config loads application configuration from defaults, an
// optional YAML file, and MEPSCAN_-prefixed environment variables, in
// that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"mepscan/internal/quotes"
)

// envPrefix is the environment variable prefix, e.g. MEPSCAN_SERVER_PORT.
const envPrefix = "MEPSCAN"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// SecurityConfig contains rate limiting configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains token bucket parameters
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// AnalysisConfig contains the analysis defaults surfaced to clients and
// the limits applied to uploads.
type AnalysisConfig struct {
	// PricingMode fixes which implied-rate variant this deployment
	// computes; it is not selectable per request.
	PricingMode string `yaml:"pricing_mode" envconfig:"PRICING_MODE"`
	// DefaultReferenceRate is the initial reference rate shown to
	// clients before the user enters one.
	DefaultReferenceRate float64 `yaml:"default_reference_rate" envconfig:"DEFAULT_REFERENCE_RATE"`
	// StrongGapThreshold is the gap percentage below which a row is
	// classified as a strong opportunity.
	StrongGapThreshold float64 `yaml:"strong_gap_threshold" envconfig:"STRONG_GAP_THRESHOLD"`
	// MaxUploadBytes caps each uploaded workbook.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Analysis: AnalysisConfig{
			PricingMode:          quotes.ModeLastPrice.String(),
			DefaultReferenceRate: 1100,
			StrongGapThreshold:   -1.5,
			MaxUploadBytes:       10 << 20,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the application cannot
// run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	if c.Analysis.DefaultReferenceRate <= 0 {
		return fmt.Errorf("default reference rate must be positive, got %v", c.Analysis.DefaultReferenceRate)
	}
	if c.Analysis.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Analysis.MaxUploadBytes)
	}
	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive when enabled")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}

// Mode returns the parsed pricing mode.
func (c *Config) Mode() (quotes.PricingMode, error) {
	return quotes.ParsePricingMode(c.Analysis.PricingMode)
}
