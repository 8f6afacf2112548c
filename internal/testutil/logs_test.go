package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecorder(t *testing.T) {
	logger, rec := NewLogRecorder()

	logger.Info("run started", slog.String("run_id", "r1"))
	logger.With(slog.String("component", "store")).Warn("snapshot replaced", slog.Int("records", 3))
	logger.Error("run failed")

	require.Len(t, rec.Entries(), 3)

	e, ok := rec.Find("replaced")
	require.True(t, ok)
	assert.Equal(t, slog.LevelWarn, e.Level)
	assert.Equal(t, "store", e.Attrs["component"])
	assert.Equal(t, int64(3), e.Attrs["records"])

	assert.Len(t, rec.AtLevel(slog.LevelError), 1)
	assert.Empty(t, rec.AtLevel(slog.LevelDebug))

	_, ok = rec.Find("missing")
	assert.False(t, ok)

	rec.Reset()
	assert.Empty(t, rec.Entries())
}
