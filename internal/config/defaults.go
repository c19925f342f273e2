package config

import (
	"os"
	"path/filepath"
)

// Default configuration values
const (
	// Store defaults. 384 matches all-MiniLM-class sentence encoders.
	DefaultDimensions = 384
	DefaultMetric     = "cosine"
	DefaultDBFileName = "store.db"

	// Search defaults
	DefaultSearchMode = "exact"
	DefaultK          = 1

	// Embedding defaults
	DefaultEmbeddingProvider = "ollama"
	DefaultOllamaURL         = "http://localhost:11434"
	DefaultOllamaEmbedModel  = "all-minilm"
	DefaultOpenAIEmbedModel  = "text-embedding-3-small"
)

// DefaultConfigDir returns the default configuration directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/semstore"
	}
	return filepath.Join(home, ".config", "semstore")
}

// DefaultDataDir returns the default data directory path.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".local/share/semstore"
	}
	return filepath.Join(home, ".local", "share", "semstore")
}

// DefaultDatabasePath returns the default database file path.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultDataDir(), DefaultDBFileName)
}
