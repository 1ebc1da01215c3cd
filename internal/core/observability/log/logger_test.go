package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core), level), logs
}

func TestLogger_FieldsReachZap(t *testing.T) {
	logger, logs := observed(LevelDebug)

	logger.Info("interaction completed",
		String("interactable", "door"),
		Int("passed", 2),
		Duration("period", 2*time.Second),
		Bool("cycled", true),
		Error(errors.New("late")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "interaction completed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "door", ctx["interactable"])
	assert.Equal(t, int64(2), ctx["passed"])
	assert.Equal(t, 2*time.Second, ctx["period"])
	assert.Equal(t, true, ctx["cycled"])
	assert.Equal(t, "late", ctx["error"])
}

func TestLogger_LevelGate(t *testing.T) {
	logger, logs := observed(LevelWarn)

	logger.Debug("dropped")
	logger.Log(LevelInfo, "dropped too")
	logger.Warn("kept")
	assert.Equal(t, 1, logs.Len())

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	logger.Log(LevelDebug, "now kept")
	assert.Equal(t, 2, logs.Len())
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger, logs := observed(LevelDebug)

	child := logger.With(String("interactor", "player")).Named("interaction")
	child.Info("found")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "interaction", entry.LoggerName)
	assert.Equal(t, "player", entry.ContextMap()["interactor"])
}

func TestNop(t *testing.T) {
	logger := NewNop()
	assert.NotPanics(t, func() {
		logger.Info("nothing", String("k", "v"))
		logger.Log(LevelError, "still nothing")
	})
	assert.Equal(t, LevelSilent, logger.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelSilent, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, "error", LevelError.String())
}
