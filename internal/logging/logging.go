// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable consulted when no level flag is
// given.
const EnvLevel = "LOG_LEVEL"

// DefaultLevel keeps stderr quiet unless something needs attention.
const DefaultLevel = slog.LevelWarn

// ParseLevel maps a case-insensitive level name to a slog level. Unknown
// or empty names yield DefaultLevel.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return DefaultLevel
	}
}

// New returns a text logger writing to w. Debug loggers include the
// source location.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}))
}

// SetDefault installs a stderr logger at the named level, falling back to
// $LOG_LEVEL when name is empty.
func SetDefault(name string) {
	if name == "" {
		name = os.Getenv(EnvLevel)
	}
	slog.SetDefault(New(os.Stderr, ParseLevel(name)))
}
