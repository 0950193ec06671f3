// Package logging configures the process-wide slog logger with a tint
// handler for colored, structured output.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tinted slog handler as the default logger. The level
// string comes from configuration (LOG_LEVEL); anything unrecognized falls
// back to info.
func Setup(level string) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      parseLevel(level),
			TimeFormat: time.TimeOnly,
		}),
	))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
