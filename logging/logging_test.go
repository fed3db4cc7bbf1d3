package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerInitialized(t *testing.T) {
	require.NotNil(t, GetLogger(), "Logger should be initialized")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		expectedLevel slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"warning level", "warning", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default for unknown", "invalid", slog.LevelInfo},
		{"uppercase", "DEBUG", slog.LevelDebug},
		{"padded", "  error ", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expectedLevel, ParseLevel(tt.level))
		})
	}
}

func TestJSONFormatWritesStructuredRecords(t *testing.T) {
	t.Cleanup(func() { InitLogger("info", "text") })

	var buf bytes.Buffer
	initLogger(&buf, "debug", "json")
	Component("validation").Debug("checked record", "modality", "Finger")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "checked record", rec["msg"])
	require.Equal(t, "validation", rec["component"])
	require.Equal(t, "Finger", rec["modality"])
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	t.Cleanup(func() { InitLogger("info", "text") })

	var buf bytes.Buffer
	initLogger(&buf, "warn", "text")
	GetLogger().Info("hidden")
	require.Empty(t, buf.String())

	GetLogger().Warn("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	InitLogger("info", "text")
	require.Equal(t, GetLogger(), GetLogger(), "GetLogger should return the same instance")
}
