package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelDebug), 1)
		AssertLogContains(t, handler, slog.LevelWarn, "warn")
	})

	t.Run("derived loggers share records and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "parser").Info("progress")
		logger.Info("progress")

		assert.Equal(t, 2, handler.CountMessage("progress"))
		assert.True(t, handler.ContainsAttr("component", "parser"))

		handler.Clear()
		assert.Empty(t, handler.GetRecords())
		AssertNoErrors(t, handler)
	})
}

func TestFixtures(t *testing.T) {
	data := TwoDayFile()
	assert.Len(t, data, 128)

	path := WriteDAT(t, t.TempDir()+"/szdayK", "000001.DAT", data)
	assert.FileExists(t, path)
}
