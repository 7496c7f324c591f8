package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewWithWriter_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "production", "info")

	l.Debug("hidden")
	l.Info("imported", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "imported", entry["msg"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNewWithWriter_Development(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "development", "debug")

	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
