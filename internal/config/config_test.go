package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault tests that the built-in configuration is complete and valid
func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, -3.0, cfg.Factor.ClipLower)
	assert.Equal(t, 3.0, cfg.Factor.ClipUpper)
	assert.False(t, cfg.Tracing.Enabled)
}

// TestLoadPrecedence tests defaults < file < environment layering
func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	overlay := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(
		"logging:\n  level: warn\npaths:\n  data_dir: paneldata\n"), 0644))

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := LoadFrom(overlay)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "paneldata", cfg.Paths.DataDir)
		// Untouched sections keep their defaults.
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("SIGNAL_LOGGING_LEVEL", "debug")
		cfg, err := LoadFrom(overlay)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "paneldata", cfg.Paths.DataDir)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("absent default overlay is fine", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "data", cfg.Paths.DataDir)
	})
}

// TestValidate tests rejection of invalid configurations
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"unknown log output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"empty data dir", func(c *Config) { c.Paths.DataDir = "" }},
		{"inverted clip bounds", func(c *Config) { c.Factor.ClipLower, c.Factor.ClipUpper = 3, -3 }},
		{"equal clip bounds", func(c *Config) { c.Factor.ClipLower, c.Factor.ClipUpper = 1, 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestResolvePaths tests directory resolution and defaults
func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(base))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Run("relative dirs anchor at the working directory", func(t *testing.T) {
		cfg := Default()
		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(paths.BaseDir, "data"), paths.DataDir)
		assert.Equal(t, filepath.Join(paths.DataDir, IntermediateDirName), paths.IntermediateDir)
		assert.Equal(t, filepath.Join(paths.DataDir, PredictorsDirName), paths.PredictorsDir)
		assert.Equal(t, filepath.Join(paths.BaseDir, "logs"), paths.LogsDir)
	})

	t.Run("absolute overrides pass through", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.DataDir = filepath.Join(base, "elsewhere")
		cfg.Paths.PredictorsDir = filepath.Join(base, "out")

		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "elsewhere"), paths.DataDir)
		assert.Equal(t, filepath.Join(base, "elsewhere", IntermediateDirName), paths.IntermediateDir)
		assert.Equal(t, filepath.Join(base, "out"), paths.PredictorsDir)
	})

	t.Run("ensure directories creates the layout", func(t *testing.T) {
		cfg := Default()
		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		require.NoError(t, paths.EnsureDirectories())

		for _, dir := range []string{paths.DataDir, paths.IntermediateDir, paths.PredictorsDir, paths.LogsDir} {
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
	})

	t.Run("path helpers join under the right roots", func(t *testing.T) {
		cfg := Default()
		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(paths.IntermediateDir, "SignalMasterTable.csv"),
			paths.IntermediatePath("SignalMasterTable.csv"))
		assert.Equal(t, filepath.Join(paths.PredictorsDir, "ShortConviction.csv"),
			paths.PredictorPath("ShortConviction.csv"))
		assert.Equal(t, filepath.Join(paths.LogsDir, DefaultLogFileName),
			paths.LogPath(DefaultLogFileName))
	})
}
