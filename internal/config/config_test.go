package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultDimensions, cfg.Store.Dimensions)
	assert.Equal(t, "cosine", cfg.Store.Metric)
	assert.Equal(t, "exact", cfg.Search.Mode)
	assert.Equal(t, 1, cfg.Search.K)
	assert.False(t, cfg.Ingest.AllowEmptyContent)
	assert.False(t, cfg.Ingest.SkipDuplicates)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Store.Dimensions = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Search.K = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
store:
  path: /tmp/custom.db
  dimensions: 768
  metric: cosine
search:
  mode: indexed
  k: 5
ingest:
  skip_duplicates: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	require.NoError(t, Load(configPath))
	cfg := Get()

	assert.Equal(t, "/tmp/custom.db", cfg.Store.Path)
	assert.Equal(t, 768, cfg.Store.Dimensions)
	assert.Equal(t, "indexed", cfg.Search.Mode)
	assert.Equal(t, 5, cfg.Search.K)
	assert.True(t, cfg.Ingest.SkipDuplicates)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
store:
  dimensions: -1
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	assert.Error(t, Load(configPath))
}

func TestDefaultPaths(t *testing.T) {
	assert.Contains(t, DefaultConfigDir(), "semstore")
	assert.Contains(t, DefaultDatabasePath(), DefaultDBFileName)
	assert.Equal(t, filepath.Join(DefaultConfigDir(), "config.yaml"), GlobalConfigPath())
}
