package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/girmesh03/task-manager-api/internal/config"
)

func TestSetupLevels(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range cases {
		log := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.level})
		assert.NotNil(t, log, "level %s", tc.level)
		assert.True(t, log.Enabled(context.Background(), tc.want), "level %s", tc.level)
	}
}

func TestFromContext(t *testing.T) {
	// A bare context yields the default logger.
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	log, _ := GetTestLogger(t)
	ctx := WithLogger(context.Background(), log)
	assert.Equal(t, log, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	fallback, _ := GetTestLogger(t)

	assert.Equal(t, fallback, FromContextOrDefault(context.Background(), fallback))

	carried, _ := GetTestLogger(t)
	ctx := WithLogger(context.Background(), carried)
	assert.Equal(t, carried, FromContextOrDefault(ctx, fallback))
}

func TestWithRequestID(t *testing.T) {
	log, buf := GetTestLogger(t)
	ctx := WithLogger(context.Background(), log)
	ctx = WithRequestID(ctx, "req-123")

	assert.Equal(t, "req-123", RequestID(ctx))

	FromContext(ctx).Info("hello")
	AssertLogContains(t, buf, "req-123")
}
