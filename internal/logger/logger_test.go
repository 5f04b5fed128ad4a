package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLog_WritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))
	t.Cleanup(func() { SetBase(zap.NewNop()) })

	New().With("user_id", "u-1").WithError(errors.New("boom")).Warn("store write failed")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "store write failed", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "u-1", ctx["user_id"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLog_WithDoesNotMutateParent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))
	t.Cleanup(func() { SetBase(zap.NewNop()) })

	parent := New().With("a", 1)
	_ = parent.With("b", 2)
	parent.Info("hello")

	require.Len(t, logs.All(), 1)
	_, hasB := logs.All()[0].ContextMap()["b"]
	assert.False(t, hasB)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}
