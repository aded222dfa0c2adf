package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in    string
		level LogLevel
		name  string
		slog  slog.Level
	}{
		{"debug", LevelDebug, "DEBUG", slog.LevelDebug},
		{"", LevelInfo, "INFO", slog.LevelInfo},
		{"Warning", LevelWarn, "WARN", slog.LevelWarn},
		{"error", LevelError, "ERROR", slog.LevelError},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.level, got)
		assert.Equal(t, tc.name, got.String())
		assert.Equal(t, tc.slog, got.SlogLevel())
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}

func TestForAddsSubsystem(t *testing.T) {
	var buf bytes.Buffer
	l := For(New(&buf, LevelWarn), Extract)
	l.Info("hidden")
	l.Warn("skipping alignment", "query", "q1")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "subsystem=extract")
	assert.Contains(t, out, "query=q1")

	assert.NotPanics(t, func() { For(nil, App).Error("dropped") })
}
