package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkit/pkg/logger"
)

func TestWithConfig(t *testing.T) {
	t.Run("debug text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithConfig(logger.Config{Level: "debug", Format: "text"}),
			logger.WithService("formbind"),
			logger.WithOutput(buf),
		)
		log.Debug("msg")
		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "service=formbind")
	})

	t.Run("warn json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithConfig(logger.Config{Level: "WARN", Format: "JSON"}),
			logger.WithOutput(buf),
		)
		log.Info("skipped")
		assert.Empty(t, buf.String())

		log.Warn("kept")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "kept", entry["msg"])
	})

	t.Run("unknown values fall back", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithConfig(logger.Config{Level: "loud", Format: "xml"}),
			logger.WithOutput(buf),
		)
		log.Debug("skipped")
		log.Info("kept")
		out := buf.String()
		assert.NotContains(t, out, "skipped")
		assert.Contains(t, out, "msg=kept")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		" Info ":   slog.LevelInfo,
		"warning":  slog.LevelWarn,
		"warn":     slog.LevelWarn,
		"ERROR":    slog.LevelError,
		"":         slog.LevelInfo,
		"critical": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}
