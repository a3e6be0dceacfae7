package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLEETVIEW_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:1880/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10*time.Second, cfg.Watch.Interval)

	r := cfg.TransportResilience()
	assert.Nil(t, r.Retry, "retry is opt-in")
	assert.False(t, r.Dedupe)
	assert.Zero(t, r.RateLimit)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleetview.yaml")
	yaml := `
api:
  baseURL: https://fleet.internal/api
  timeout: 3s
resilience:
  retry:
    maxRetries: 2
    baseDelay: 50ms
  dedupe: true
logging:
  level: debug
watch:
  interval: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("FLEETVIEW_API_TIMEOUT", "7s")
	t.Setenv("FLEETVIEW_RATE_LIMIT", "2.5")
	t.Setenv("FLEETVIEW_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://fleet.internal/api", cfg.API.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.API.Timeout, "env wins over file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, 30*time.Second, cfg.Watch.Interval)
	assert.Equal(t, "fleetview", cfg.API.UserAgent, "defaults survive partial files")

	r := cfg.TransportResilience()
	require.NotNil(t, r.Retry)
	assert.Equal(t, 2, r.Retry.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, r.Retry.BaseDelay)
	assert.Equal(t, 5*time.Second, r.Retry.MaxDelay)
	assert.True(t, r.Dedupe)
	assert.Equal(t, 2.5, r.RateLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("FLEETVIEW_WATCH_INTERVAL", "0s")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.interval")
}
