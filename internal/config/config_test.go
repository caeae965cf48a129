package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"api_base_url": "http://localhost:3000"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultScanRateLimit, cfg.ScanRateLimit)
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.Equal(t, float64(DefaultFallbackSupply), cfg.FallbackSupply)
	assert.Equal(t, DefaultExportDir, cfg.ExportDir)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.False(t, cfg.DebugLogging)
}

func TestLoadConfigExplicitValues(t *testing.T) {
	path := writeConfigFile(t, `{
		"api_base_url": "https://api.example.com",
		"request_timeout_ms": 5000,
		"poll_interval_ms": 1000,
		"scan_rate_limit": 30,
		"retries": 1,
		"fallback_supply": 500000000,
		"export_dir": "/tmp/exports",
		"debug_logging": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 5000, cfg.RequestTimeout)
	assert.Equal(t, 1000, cfg.PollInterval)
	assert.Equal(t, 30, cfg.ScanRateLimit)
	assert.Equal(t, 1, cfg.Retries)
	assert.Equal(t, 5e8, cfg.FallbackSupply)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.True(t, cfg.DebugLogging)
}

func TestLoadConfigMissingBaseURL(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_base_url")
}

func TestLoadConfigInvalidProtocol(t *testing.T) {
	path := writeConfigFile(t, `{"api_base_url": "ftp://example.com"}`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigInvalidNumerics(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero timeout", `{"api_base_url": "http://localhost", "request_timeout_ms": 0}`},
		{"negative poll interval", `{"api_base_url": "http://localhost", "poll_interval_ms": -1}`},
		{"zero rate limit", `{"api_base_url": "http://localhost", "scan_rate_limit": 0}`},
		{"negative retries", `{"api_base_url": "http://localhost", "retries": -1}`},
		{"zero fallback supply", `{"api_base_url": "http://localhost", "fallback_supply": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	path := writeConfigFile(t, `{"api_base_url": "http://localhost:3000"}`)
	t.Setenv("PAPERDEX_API_BASE_URL", "http://override:9000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:9000", cfg.APIBaseURL)
}
