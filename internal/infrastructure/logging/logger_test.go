package logging

import (
	"bytes"
	"chitfund-engine/internal/config"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewHandlerJSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, config.LoggerConfig{Level: "info"}))

	logger.Info("statement built", "groupID", "g1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "statement built", entry["msg"])
	assert.Equal(t, "g1", entry["groupID"])
}

func TestNewHandlerTextEncodingAndLevel(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, config.LoggerConfig{Level: "warn", Encoding: "text"})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	slog.New(h).Warn("ceiling exceeded")
	assert.Contains(t, buf.String(), `msg="ceiling exceeded"`)
}

func TestNewLoggerSetsDefault(t *testing.T) {
	logger := NewLogger(config.LoggerConfig{Level: "debug"})
	assert.Same(t, logger, slog.Default())
}
