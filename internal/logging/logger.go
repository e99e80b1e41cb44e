// Package logging builds the slog logger shared by the CLI and front-ends.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel is the environment variable that selects the log level.
const EnvLevel = "PARTICLESIM_LOG_LEVEL"

// New returns a text logger writing to w at the level named by
// PARTICLESIM_LOG_LEVEL (DEBUG, INFO, WARN, ERROR; default INFO).
func New(w io.Writer) *slog.Logger {
	return NewWithLevel(w, LevelFromEnv())
}

func NewWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LevelFromEnv reads EnvLevel.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLevel))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
