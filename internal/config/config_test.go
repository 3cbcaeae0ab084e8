package config_test

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/TomGlanzman/Perp/internal/config"
)

func TestLoadConfig(t *testing.T) {
	// Test with a config string instead of a file
	configYaml := `
monitor:
  file: /data/run42/monitoring.db
  lock_timeout_sec: 60

report:
  status_limit: 50
  plot_dir: /tmp/plots

log_level: debug
`
	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer func() {
		err := os.Remove(tmpFile.Name())
		assert.NoError(t, err)
	}()

	// Write the YAML content to the file
	if _, err := tmpFile.WriteString(configYaml); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	// Load the configuration from the temporary file
	cfg, err := config.LoadConfig(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Assert the configuration values match what we expect
	assert.Equal(t, "/data/run42/monitoring.db", cfg.Monitor.File)
	assert.Equal(t, 60, cfg.Monitor.LockTimeoutSec)

	assert.Equal(t, 50, cfg.Report.StatusLimit)
	assert.Equal(t, "/tmp/plots", cfg.Report.PlotDir)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestLoadConfigDefaults(t *testing.T) {
	// A reporting run normally has no config file at all; every value
	// falls back to its default.
	cfg, err := config.LoadConfig("/definitely/not/a/config.yaml")
	assert.NoError(t, err)

	assert.Equal(t, "./monitoring.db", cfg.Monitor.File)
	assert.Equal(t, 30, cfg.Monitor.LockTimeoutSec)
	assert.Equal(t, 20, cfg.Report.StatusLimit)
	assert.Equal(t, ".", cfg.Report.PlotDir)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestEnvironmentVariables(t *testing.T) {
	// Set environment variables
	assert.NoError(t, os.Setenv("WSTAT_MONITOR_FILE", "/env/monitoring.db"))
	assert.NoError(t, os.Setenv("WSTAT_MONITOR_LOCK_TIMEOUT_SEC", "5"))
	assert.NoError(t, os.Setenv("WSTAT_REPORT_STATUS_LIMIT", "7"))
	assert.NoError(t, os.Setenv("WSTAT_LOG_LEVEL", "warn"))

	// Ensure we clear them afterwards
	defer func() {
		assert.NoError(t, os.Unsetenv("WSTAT_MONITOR_FILE"))
		assert.NoError(t, os.Unsetenv("WSTAT_MONITOR_LOCK_TIMEOUT_SEC"))
		assert.NoError(t, os.Unsetenv("WSTAT_REPORT_STATUS_LIMIT"))
		assert.NoError(t, os.Unsetenv("WSTAT_LOG_LEVEL"))
	}()

	// Create a temporary file with minimal config
	configYaml := `monitor: {}` // Empty monitor config to test env override

	tmpFile, err := os.CreateTemp("", "config-env-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer func() {
		err := os.Remove(tmpFile.Name())
		assert.NoError(t, err)
	}()

	if _, err := tmpFile.WriteString(configYaml); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	// Load the configuration
	cfg, err := config.LoadConfig(tmpFile.Name())
	assert.NoErrorf(t, err, "Failed to load configuration: %v", err)

	// Assert environment variables have precedence
	assert.Equal(t, "/env/monitoring.db", cfg.Monitor.File)
	assert.Equal(t, 5, cfg.Monitor.LockTimeoutSec)
	assert.Equal(t, 7, cfg.Report.StatusLimit)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
}
