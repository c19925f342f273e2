package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/semstore/internal/config"
	"github.com/nickcecere/semstore/internal/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store status and statistics",
	Long: `Display information about the store including:
- Number of records
- Embedding dimensionality and distance metric
- Database path and size on disk

Examples:
  # Show status for the configured store
  semstore status`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	log.Debug("Showing status", "path", cfg.Store.Path)

	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Println(ui.SectionTitle.Render("Store Status"))
	fmt.Println()
	fmt.Printf("  Path:       %s\n", cfg.Store.Path)
	fmt.Printf("  Records:    %d\n", stats.RecordCount)
	fmt.Printf("  Dimensions: %d\n", stats.Dimensions)
	fmt.Printf("  Metric:     %s\n", stats.Metric)
	fmt.Printf("  Size:       %s\n", formatSize(stats.SizeBytes))

	if stats.RecordCount == 0 {
		fmt.Println()
		fmt.Println(ui.Dim.Render("Store is empty. Run 'semstore ingest' to add records."))
	}

	return nil
}

// formatSize formats bytes in human-readable form.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
