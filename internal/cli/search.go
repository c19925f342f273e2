package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/semstore/internal/config"
	"github.com/nickcecere/semstore/internal/embeddings"
	"github.com/nickcecere/semstore/internal/planner"
	"github.com/nickcecere/semstore/internal/ui"
)

var (
	searchK        int
	searchMode     string
	searchMinScore float64
	searchJSON     bool
	searchMarkdown bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find records similar to a query",
	Long: `Embed the query text and return the stored records ranked by
cosine similarity.

Exact mode scans every record and is the default; indexed mode pushes
ranking into the database's vector index, which is faster on large
stores but reported distances are best-effort.

Examples:
  # The single most similar record
  semstore search "How many miles?"

  # Top five, using the vector index
  semstore search "How many miles?" -k 5 --mode indexed

  # Machine-readable output
  semstore search "How many miles?" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "limit", "k", 0, "maximum number of results (default from config)")
	searchCmd.Flags().StringVar(&searchMode, "mode", "", "search mode: exact or indexed (default from config)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0.0, "minimum similarity score (0-1)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchMarkdown, "markdown", false, "render results as markdown")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	cfg := config.Get()

	opts, err := searchOptions(cmd, cfg)
	if err != nil {
		return err
	}

	log.Debug("Starting search", "query", truncate(query, 50), "k", opts.K, "mode", opts.Mode)

	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	emb, err := embeddings.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}

	queryEmbedding, err := emb.EmbedQuery(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to embed query: %w", err)
	}

	p := planner.New(st, st.Metric())
	results, err := p.Search(ctx, queryEmbedding, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch {
	case searchJSON:
		return printJSON(results)
	case searchMarkdown:
		return printMarkdown(query, results)
	default:
		printResults(results)
		return nil
	}
}

// searchOptions merges config defaults with command flags. A flag set
// on the command line wins even when its value is zero, so `-k 0` and
// `--min-score 0` override non-zero config values.
func searchOptions(cmd *cobra.Command, cfg *config.Config) (planner.Options, error) {
	modeName := cfg.Search.Mode
	if cmd.Flags().Changed("mode") {
		modeName = searchMode
	}
	mode, err := planner.ParseMode(modeName)
	if err != nil {
		return planner.Options{}, err
	}

	k := cfg.Search.K
	if cmd.Flags().Changed("limit") {
		k = searchK
	}

	minScore := cfg.Search.MinScore
	if cmd.Flags().Changed("min-score") {
		minScore = searchMinScore
	}

	return planner.Options{K: k, Mode: mode, MinScore: minScore}, nil
}

func printResults(results []planner.Result) {
	if len(results) == 0 {
		fmt.Println(ui.Dim.Render("No results"))
		return
	}

	for _, r := range results {
		fmt.Printf("%s %s\n", ui.FormatRecordID(r.ID), ui.FormatScore(r.Score))
		fmt.Println(ui.ResultContent.Render(r.Content))
	}
}

func printJSON(results []planner.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func printMarkdown(query string, results []planner.Result) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Results for %q\n\n", query))
	if len(results) == 0 {
		sb.WriteString("_No results._\n")
	}
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. **#%d** (%.1f%% match)\n\n   %s\n\n", i+1, r.ID, r.Score*100, r.Content))
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := renderer.Render(sb.String())
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	fmt.Print(out)
	return nil
}

// truncate shortens a string for display.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
