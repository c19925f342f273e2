package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/semstore/internal/config"
	"github.com/nickcecere/semstore/internal/embeddings"
	"github.com/nickcecere/semstore/internal/ingest"
	"github.com/nickcecere/semstore/internal/ui"
)

// demoTexts is a small seed corpus for smoke-testing a fresh store.
var demoTexts = []string{
	"The quick brown fox jumps over the lazy dog",
	"A journey of a thousand miles begins with a single step",
	"To be or not to be, that is the question",
	"In the middle of difficulty lies opportunity",
}

var (
	ingestDemo       bool
	ingestSkipDupes  bool
	ingestAllowEmpty bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Embed and store documents",
	Long: `Read documents (one per line), embed them with the configured
encoder, and commit them to the store as a single atomic batch.

Documents are read from the given file, or from stdin when no file is
given.

Examples:
  # Ingest documents from a file
  semstore ingest documents.txt

  # Ingest from stdin
  cat notes.txt | semstore ingest

  # Seed the store with a small demo corpus
  semstore ingest --demo

  # Skip documents whose content is already stored
  semstore ingest documents.txt --skip-duplicates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestDemo, "demo", false, "ingest a built-in demo corpus")
	ingestCmd.Flags().BoolVar(&ingestSkipDupes, "skip-duplicates", false, "skip documents already stored")
	ingestCmd.Flags().BoolVar(&ingestAllowEmpty, "allow-empty", false, "permit empty document content")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	texts, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		log.Warn("No documents to ingest")
		return nil
	}

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

	log.Debug("Embedding documents", "count", len(texts), "model", emb.ModelName())
	vectors, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	docs := make([]ingest.Document, len(texts))
	for i, text := range texts {
		docs[i] = ingest.Document{Content: text, Embedding: vectors[i]}
	}

	pipeline := ingest.New(st, ingest.Options{
		AllowEmptyContent: ingestAllowEmpty || cfg.Ingest.AllowEmptyContent,
		SkipDuplicates:    ingestSkipDupes || cfg.Ingest.SkipDuplicates,
	})

	result, err := pipeline.Ingest(ctx, docs)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println(ui.Success.Render(fmt.Sprintf("Ingested %d documents", len(result.IDs))))
	if result.Skipped > 0 {
		fmt.Println(ui.Dim.Render(fmt.Sprintf("Skipped %d duplicates", result.Skipped)))
	}

	return nil
}

// collectDocuments gathers input texts from the demo corpus, a file, or
// stdin, one document per line.
func collectDocuments(args []string) ([]string, error) {
	if ingestDemo {
		return demoTexts, nil
	}

	var reader *bufio.Scanner
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		reader = bufio.NewScanner(f)
	} else {
		reader = bufio.NewScanner(os.Stdin)
	}
	reader.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var texts []string
	for reader.Scan() {
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return texts, nil
}
