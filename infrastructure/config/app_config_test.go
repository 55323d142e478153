package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diskowner/infrastructure/y360client"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DISKOWNER_CONFIG_DIR",
		"Y360_DIRECTORY_API_BASE",
		"Y360_DISK_API_BASE",
		"Y360_HTTP_TIMEOUT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"LOG_OUTPUT",
		"SENTRY_DSN",
		"SENTRY_ENVIRONMENT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadAppConfigFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadAppConfigFromEnv()
	require.NoError(t, err)

	assert.Empty(t, cfg.ConfigDir)
	assert.Equal(t, y360client.DefaultDirectoryBaseURL, cfg.API.DirectoryBaseURL)
	assert.Equal(t, y360client.DefaultDiskBaseURL, cfg.API.DiskBaseURL)
	assert.Zero(t, cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Empty(t, cfg.CrashReport.DSN)
	assert.Equal(t, "production", cfg.CrashReport.Environment)
}

func TestLoadAppConfigFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISKOWNER_CONFIG_DIR", "/tmp/diskowner")
	t.Setenv("Y360_DIRECTORY_API_BASE", "http://localhost:9000")
	t.Setenv("Y360_DISK_API_BASE", "http://localhost:9001")
	t.Setenv("Y360_HTTP_TIMEOUT", "15s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example.org/1")

	cfg, err := LoadAppConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/diskowner", cfg.ConfigDir)
	assert.Equal(t, "http://localhost:9000", cfg.API.DirectoryBaseURL)
	assert.Equal(t, "http://localhost:9001", cfg.API.DiskBaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "https://key@sentry.example.org/1", cfg.CrashReport.DSN)
}

func TestLoadAppConfigFromEnv_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("Y360_HTTP_TIMEOUT", "soon")

	_, err := LoadAppConfigFromEnv()
	require.Error(t, err)
}
