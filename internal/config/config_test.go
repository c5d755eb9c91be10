package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flintsh/flintsh/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasSpecBudgets(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, config.DefaultHistoryMax, cfg.HistoryMax)
	assert.Equal(t, int64(config.DefaultBufferMax), cfg.BufferMax)
	assert.Equal(t, config.DefaultAutoCompletionMax, cfg.AutoCompletionMax)
	assert.True(t, cfg.InputEncodingUTF8)
}

func TestConfigPath(t *testing.T) {
	path, err := config.ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config", filepath.Base(path))
	assert.Contains(t, path, ".flintsh")
}

func TestLoadSave_RoundTrips(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.Default()
	cfg.HistoryMax = 50
	cfg.IPythonStyleHistorySearch = true
	cfg.RCFile = "rc"
	require.NoError(t, config.Save(cfg))

	got, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 50, got.HistoryMax)
	assert.True(t, got.IPythonStyleHistorySearch)
	assert.Equal(t, "rc", got.RCFile)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
