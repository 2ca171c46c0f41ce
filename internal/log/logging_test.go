package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/photoviewer/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "photoviewer.log")

	logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "WARN"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "page", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, 3, entry["page"])
}

func TestForComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "DEBUG")

	ForComponent(base, ComponentEngine).Debug("fetching image", "photo", "1")
	ForComponent(base, ComponentFeed).Info("loaded photos page")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var components []any
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		components = append(components, entry["component"])
	}
	assert.Equal(t, []any{"engine", "feed"}, components)
}

func TestForComponentNilLogger(t *testing.T) {
	assert.NotNil(t, ForComponent(nil, ComponentCommand))
}
