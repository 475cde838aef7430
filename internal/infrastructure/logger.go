// Package infrastructure owns the process-wide observability plumbing:
// the slog logger, trace-ID context propagation, and the OpenTelemetry
// providers with their Prometheus export.
package infrastructure

import (
	"log/slog"
	"os"
	"strings"

	"mepscan/internal/config"
)

// NewLogger creates the application logger from configuration. Output
// goes to stdout; format is json or text per config.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
