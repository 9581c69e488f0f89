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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.telguarder.com", cfg.Client.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 3, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.Retry.InitialBackoff)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TELGUARDER_LOG_LEVEL", "debug")
	t.Setenv("TELGUARDER_CLIENT__API_KEY", "sekrit")
	t.Setenv("TELGUARDER_CLIENT__TIMEOUT", "3s")
	t.Setenv("TELGUARDER_CACHE__ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sekrit", cfg.Client.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Client.Timeout)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telguarder.yaml")
	content := []byte(`
log_level: warn
client:
  base_url: https://staging.telguarder.example
  retry:
    max_attempts: 5
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "https://staging.telguarder.example", cfg.Client.BaseURL)
	assert.Equal(t, 5, cfg.Client.Retry.MaxAttempts)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad log level", key: "TELGUARDER_LOG_LEVEL", value: "loud"},
		{name: "zero attempts", key: "TELGUARDER_CLIENT__RETRY__MAX_ATTEMPTS", value: "0"},
		{name: "too many attempts", key: "TELGUARDER_CLIENT__RETRY__MAX_ATTEMPTS", value: "99"},
		{name: "empty base url", key: "TELGUARDER_CLIENT__BASE_URL", value: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
