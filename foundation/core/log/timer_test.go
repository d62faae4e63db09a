package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerStop(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	timer := logger.WithRunID("r").StartTimer("scan").WithField("tokens", 12)
	assert.True(t, timer.IsRunning())

	timer.Stop()
	assert.False(t, timer.IsRunning())
	assert.Zero(t, timer.Stop())

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "scan completed", lines[0]["message"])
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, true, lines[0]["success"])
	assert.Equal(t, float64(12), lines[0]["tokens"])
	assert.Equal(t, "r", lines[0]["run_id"])
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.StartTimer("parse").StopWithError(errors.New("expected 'end'"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "parse failed", lines[0]["message"])
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, false, lines[0]["success"])
	assert.Equal(t, "expected 'end'", lines[0]["error"])
}

func TestTimerBelowLevelIsSilent(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	timer := logger.StartTimer("load")
	timer.Checkpoint("read")
	assert.Greater(t, int64(timer.Stop()), int64(-1))
	assert.Empty(t, buf.String())
}
