// Package config handles configuration loading and validation for semstore.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config represents the complete semstore configuration.
type Config struct {
	Store      StoreConfig      `mapstructure:"store"`
	Search     SearchConfig     `mapstructure:"search"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
}

// StoreConfig configures the SQLite-backed vector store.
type StoreConfig struct {
	Path       string `mapstructure:"path"`
	Dimensions int    `mapstructure:"dimensions"`
	Metric     string `mapstructure:"metric"`
}

// SearchConfig configures query execution.
type SearchConfig struct {
	Mode     string  `mapstructure:"mode"` // "exact" or "indexed"
	K        int     `mapstructure:"k"`
	MinScore float64 `mapstructure:"min_score"`
}

// IngestConfig configures the ingestion pipeline's validation policy.
type IngestConfig struct {
	AllowEmptyContent bool `mapstructure:"allow_empty_content"`
	SkipDuplicates    bool `mapstructure:"skip_duplicates"`
}

// EmbeddingsConfig configures the embedding encoder.
type EmbeddingsConfig struct {
	Provider string            `mapstructure:"provider"`
	Ollama   OllamaEmbedConfig `mapstructure:"ollama"`
	OpenAI   OpenAIEmbedConfig `mapstructure:"openai"`
}

// OllamaEmbedConfig configures Ollama embeddings.
type OllamaEmbedConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

// OpenAIEmbedConfig configures OpenAI embeddings.
type OpenAIEmbedConfig struct {
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Dimensions int    `mapstructure:"dimensions"`
}

// Global configuration instance
var cfg *Config

// Get returns the current configuration.
func Get() *Config {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:       DefaultDatabasePath(),
			Dimensions: DefaultDimensions,
			Metric:     DefaultMetric,
		},
		Search: SearchConfig{
			Mode: DefaultSearchMode,
			K:    DefaultK,
		},
		Ingest: IngestConfig{},
		Embeddings: EmbeddingsConfig{
			Provider: DefaultEmbeddingProvider,
			Ollama: OllamaEmbedConfig{
				URL:   DefaultOllamaURL,
				Model: DefaultOllamaEmbedModel,
			},
			OpenAI: OpenAIEmbedConfig{
				Model: DefaultOpenAIEmbedModel,
			},
		},
	}
}

// Load reads configuration from file and environment variables.
func Load(configFile string) error {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(DefaultConfigDir())
		viper.AddConfigPath(".")
	}

	// Environment variables, e.g. SEMSTORE_STORE_PATH
	viper.SetEnvPrefix("SEMSTORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config file found, using defaults")
	} else {
		log.Debug("Loaded config from", "file", viper.ConfigFileUsed())
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	loadAPIKeysFromEnv()

	return cfg.Validate()
}

// Validate checks configuration invariants that viper cannot enforce.
func (c *Config) Validate() error {
	if c.Store.Dimensions <= 0 {
		return fmt.Errorf("store.dimensions must be positive, got %d", c.Store.Dimensions)
	}
	if c.Search.K <= 0 {
		return fmt.Errorf("search.k must be positive, got %d", c.Search.K)
	}
	return nil
}

// setDefaults sets default values in viper.
func setDefaults() {
	viper.SetDefault("store.path", DefaultDatabasePath())
	viper.SetDefault("store.dimensions", DefaultDimensions)
	viper.SetDefault("store.metric", DefaultMetric)

	viper.SetDefault("search.mode", DefaultSearchMode)
	viper.SetDefault("search.k", DefaultK)
	viper.SetDefault("search.min_score", 0.0)

	viper.SetDefault("ingest.allow_empty_content", false)
	viper.SetDefault("ingest.skip_duplicates", false)

	viper.SetDefault("embeddings.provider", DefaultEmbeddingProvider)
	viper.SetDefault("embeddings.ollama.url", DefaultOllamaURL)
	viper.SetDefault("embeddings.ollama.model", DefaultOllamaEmbedModel)
	viper.SetDefault("embeddings.openai.model", DefaultOpenAIEmbedModel)
}

// loadAPIKeysFromEnv loads API keys from environment variables if not already set.
func loadAPIKeysFromEnv() {
	if cfg.Embeddings.OpenAI.APIKey == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.Embeddings.OpenAI.APIKey = key
		}
	}
}

// ConfigFilePath returns the path of the loaded config file, or empty string if none.
func ConfigFilePath() string {
	return viper.ConfigFileUsed()
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
