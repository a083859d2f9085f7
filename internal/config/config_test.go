package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfig() uses defaults when no config file exists
// - LoadConfig() loads from .symgrep/config.yml when present
// - Environment variables override config file values
// - LoadConfig() returns error for invalid configuration values
// - Validate() rejects bad backend, negative workers/sizes/limits, and
//   unknown query modes, accumulating multiple errors

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, ".symgrep", cfg.Storage.IndexDir)
	assert.Equal(t, int64(4<<20), cfg.Scan.MaxFileSize)
	assert.True(t, cfg.Scan.UseGitignore)
	assert.Equal(t, "substring", cfg.Query.Mode)
	assert.Equal(t, 0, cfg.Query.Limit)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, Default().Storage.Backend, cfg.Storage.Backend)
	assert.Equal(t, Default().Query.Mode, cfg.Query.Mode)
}

func TestLoadConfig_ReadsConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".symgrep")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	configYAML := `
storage:
  backend: sqlite
scan:
  workers: 8
  languages:
    inc: php
query:
  mode: exact
  limit: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(configYAML), 0o644))

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, map[string]string{"inc": "php"}, cfg.Scan.Languages)
	assert.Equal(t, "exact", cfg.Query.Mode)
	assert.Equal(t, 25, cfg.Query.Limit)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Scan.MaxFileSize, cfg.Scan.MaxFileSize)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".symgrep")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("storage:\n  backend: file\n"), 0o644))

	t.Setenv("SYMGREP_STORAGE_BACKEND", "sqlite")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".symgrep")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("storage:\n  backend: redis\n"), 0o644))

	_, err := NewLoader(tempDir).Load()
	assert.ErrorIs(t, err, ErrInvalidBackend)
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	cfg.Scan.Workers = -1
	cfg.Query.Mode = "fuzzy"
	cfg.Query.Limit = -5

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBackend)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}
