package logs

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range testCases {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "level %q", name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestSetup_Errors(t *testing.T) {
	_, _, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)

	_, _, err = Setup(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestSetup_File(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := Setup(Options{Level: "debug", Format: "json", Output: dir})
	require.NoError(t, err)

	logger.Debug("hello", slog.String("k", "v"))
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestSlogWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	std := log.New(&SlogWriter{Logger: logger, Level: slog.LevelError}, "", 0)
	std.Println("http: TLS handshake error")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http: TLS handshake error", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
}
