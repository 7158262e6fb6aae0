package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
api:
  base_url: https://hub.example.com/api
  timeout: 5s
logging:
  level: debug
ui:
  theme: dark
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://hub.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("AGENTHUB_API_URL overrides file value", func(t *testing.T) {
		t.Setenv("AGENTHUB_API_URL", "https://override.example.com")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "https://override.example.com", cfg.API.BaseURL)
	})

	t.Run("unset env leaves file value", func(t *testing.T) {
		t.Setenv("AGENTHUB_API_URL", "")

		cfg := DefaultConfig()
		cfg.API.BaseURL = "https://from-file.example.com"
		cfg.applyEnvOverrides()

		assert.Equal(t, "https://from-file.example.com", cfg.API.BaseURL)
	})

	t.Run("log level override", func(t *testing.T) {
		t.Setenv("AGENTHUB_LOG_LEVEL", "warn")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "warn", cfg.Logging.Level)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.API.Timeout = "not-a-duration"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestRequestTimeout_InvalidFallsBack(t *testing.T) {
	cfg := Config{API: APIConfig{Timeout: "garbage"}}
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://hub.example.com/api"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://hub.example.com/api", loaded.API.BaseURL)
}
