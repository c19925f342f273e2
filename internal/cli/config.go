package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nickcecere/semstore/internal/config"
	"github.com/nickcecere/semstore/internal/ui"
)

var configShowPath bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Display current configuration settings and config file locations.

Examples:
  # Show current configuration
  semstore config

  # Show config file paths
  semstore config --path`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowPath, "path", false, "show config file paths")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configShowPath {
		fmt.Println(ui.SectionTitle.Render("Configuration Paths"))
		fmt.Println()
		fmt.Printf("Global config: %s\n", config.GlobalConfigPath())
		fmt.Printf("Active config: %s\n", config.ConfigFilePath())
		fmt.Printf("Database:      %s\n", config.Get().Store.Path)
		return nil
	}

	cfg := config.Get()

	fmt.Println(ui.SectionTitle.Render("Current Configuration"))
	fmt.Println()

	fmt.Println(ui.Bold.Render("Store:"))
	fmt.Printf("  Path: %s\n", cfg.Store.Path)
	fmt.Printf("  Dimensions: %d\n", cfg.Store.Dimensions)
	fmt.Printf("  Metric: %s\n", cfg.Store.Metric)
	fmt.Println()

	fmt.Println(ui.Bold.Render("Search:"))
	fmt.Printf("  Mode: %s\n", cfg.Search.Mode)
	fmt.Printf("  K: %d\n", cfg.Search.K)
	if cfg.Search.MinScore > 0 {
		fmt.Printf("  Min Score: %.2f\n", cfg.Search.MinScore)
	}
	fmt.Println()

	fmt.Println(ui.Bold.Render("Ingest:"))
	fmt.Printf("  Allow Empty Content: %t\n", cfg.Ingest.AllowEmptyContent)
	fmt.Printf("  Skip Duplicates: %t\n", cfg.Ingest.SkipDuplicates)
	fmt.Println()

	fmt.Println(ui.Bold.Render("Embeddings:"))
	fmt.Printf("  Provider: %s\n", cfg.Embeddings.Provider)
	fmt.Printf("  Ollama URL: %s\n", cfg.Embeddings.Ollama.URL)
	fmt.Printf("  Ollama Model: %s\n", cfg.Embeddings.Ollama.Model)
	fmt.Printf("  OpenAI Model: %s\n", cfg.Embeddings.OpenAI.Model)
	if cfg.Embeddings.OpenAI.BaseURL != "" {
		fmt.Printf("  OpenAI Base URL: %s\n", cfg.Embeddings.OpenAI.BaseURL)
	}

	return nil
}
