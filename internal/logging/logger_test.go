package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded", " error ", slog.LevelError},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLevel, tt.envValue)
			if level := LevelFromEnv(); level != tt.expected {
				t.Errorf("LevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	t.Setenv(EnvLevel, "WARN")

	var buf bytes.Buffer
	log := New(&buf)
	log.Info("hidden")
	log.Warn("font missing", "path", "/tmp/x.ttf")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at WARN")
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "path=/tmp/x.ttf") {
		t.Errorf("unexpected output: %q", out)
	}
}
