package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/lingua-api/internal/config"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" Warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		level, ok := logger.ParseLevel(tc.in)
		assert.Equal(t, tc.level, level, "input %q", tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}

// Not parallel: Setup replaces slog.Default.
func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("hidden")
	l.Warn("shown", slog.String("component", "test"))
	slog.Error("via default")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "test", entries[0]["component"])
	assert.Equal(t, "via default", entries[1]["msg"])
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	l, buf := logger.NewTestLogger(t)
	ctx := logger.WithLogger(context.Background(), l.With(slog.String("trace_id", "abc")))

	logger.FromContext(ctx).Info("hello")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	def, _ := logger.NewTestLogger(t)
	assert.Same(t, def, logger.FromContextOrDefault(context.Background(), def))
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))

	// A nil logger is not stored.
	ctx := logger.WithLogger(context.Background(), nil)
	assert.Same(t, def, logger.FromContextOrDefault(ctx, def))

	stored, _ := logger.NewTestLogger(t)
	ctx = logger.WithLogger(ctx, stored)
	assert.Same(t, stored, logger.FromContextOrDefault(ctx, def))
}
