package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "json", "warn")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", slog.Int64("pet.id", 7))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "kept", record["msg"])
	require.EqualValues(t, 7, record["pet.id"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "TEXT", "debug")
	require.NoError(t, err)

	logger.Debug("pet client response", slog.Int("status", 404))

	require.Contains(t, buf.String(), "pet client response")
	require.Contains(t, buf.String(), "404")
}

func TestNewLogger_RejectsUnknownSettings(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "xml", "info")
	require.Error(t, err)

	_, err = NewLogger(&bytes.Buffer{}, "json", "loud")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)

	lvl, err = ParseLevel("warn+2")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn+2, lvl)
}
