package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8001", cfg.JSONRPC.Address)
	assert.Equal(t, ":8002", cfg.REST.Address)
	assert.Equal(t, 15*time.Second, cfg.HTTPServer.HandlerTimeout)
	assert.Equal(t, int64(1<<20), cfg.HTTPServer.MaxBodyBytes)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jsonrpc:
  address: "127.0.0.1:9001"
http_server:
  handler_timeout: 2s
batch:
  max_concurrency: 4
log:
  level: debug
`), 0o600))

	t.Setenv("PARADIGMS_LOG_FORMAT", "text")
	t.Setenv("PARADIGMS_REST_ADDRESS", "127.0.0.1:9002")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9001", cfg.JSONRPC.Address)
	assert.Equal(t, "127.0.0.1:9002", cfg.REST.Address)
	assert.Equal(t, 2*time.Second, cfg.HTTPServer.HandlerTimeout)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PARADIGMS_LOG_LEVEL=warn\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PARADIGMS_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARADIGMS_LOG_LEVEL", "loud")

	_, err := Load("")
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.ErrorContains(t, err, "error reading config")
}
