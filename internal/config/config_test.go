package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensky-state-decoder/internal/fetcher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://opensky-network.org/api", cfg.OpenSky.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.OpenSky.PollInterval)
	assert.Equal(t, fetcher.Presets["bjarred"], cfg.OpenSky.BoundingBox)
	assert.Equal(t, 0.1, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "ring", cfg.Buffer.Type)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
opensky:
  base_url: "http://localhost:8000/api"
  poll_interval: 30s
  bounding_box:
    lamin: 45.8389
    lomin: 5.9962
    lamax: 47.8229
    lomax: 10.5226
rate_limit:
  requests_per_second: 0.2
  burst_size: 2
buffer:
  type: sliding_window
  size: 500
  window: 2m
logging:
  level: DEBUG
  file_path: /var/log/opensky/decoder.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000/api", cfg.OpenSky.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.OpenSky.PollInterval)
	assert.Equal(t, fetcher.Presets["switzerland"], cfg.OpenSky.BoundingBox)
	assert.Equal(t, 0.2, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 2, cfg.RateLimit.BurstSize)
	assert.Equal(t, "sliding_window", cfg.Buffer.Type)
	assert.Equal(t, 500, cfg.Buffer.Size)
	assert.Equal(t, 2*time.Minute, cfg.Buffer.Window)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "/var/log/opensky/decoder.log", cfg.Logging.FilePath)
	// untouched sections keep defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("OPENSKY_BBOX", "new-jersey")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("RATE_LIMIT_RPS", "0.25")
	t.Setenv("BUFFER_SIZE", "42")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, fetcher.Presets["new-jersey"], cfg.OpenSky.BoundingBox)
	assert.Equal(t, "WARN", cfg.Logging.Level)
	assert.Equal(t, 0.25, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 42, cfg.Buffer.Size)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad port", body: "server:\n  port: 70000\n"},
		{name: "bad buffer type", body: "buffer:\n  type: lifo\n"},
		{name: "bad log level", body: "logging:\n  level: TRACE\n"},
		{name: "inverted box", body: "opensky:\n  bounding_box: {lamin: 10, lomin: 0, lamax: 5, lomax: 1}\n"},
		{name: "zero rate", body: "rate_limit:\n  requests_per_second: 0\n"},
		{name: "not yaml", body: "server: [unterminated\n"},
		{name: "bad bbox env", env: map[string]string{"OPENSKY_BBOX": "1,2,3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.body != "" {
				path = writeConfig(t, tt.body)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestParseBoundingBox(t *testing.T) {
	b, err := ParseBoundingBox("54, 12, 56, 14")
	require.NoError(t, err)
	assert.Equal(t, fetcher.BoundingBox{LaMin: 54, LoMin: 12, LaMax: 56, LoMax: 14}, b)

	b, err = ParseBoundingBox("Switzerland")
	require.NoError(t, err)
	assert.Equal(t, fetcher.Presets["switzerland"], b)

	_, err = ParseBoundingBox("54,12,north,14")
	assert.Error(t, err)
}
