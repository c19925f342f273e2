package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nickcecere/semstore/internal/config"
	"github.com/nickcecere/semstore/internal/ui"
)

var getJSON bool

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a stored record by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output record as JSON, including the embedding")
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id: %q", args[0])
	}

	cfg := config.Get()

	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	if getJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Printf("%s %s\n", ui.FormatRecordID(rec.ID), ui.Dim.Render(rec.CreatedAt.Format("2006-01-02 15:04:05")))
	fmt.Println(ui.ResultContent.Render(rec.Content))
	fmt.Println(ui.Dim.Render(fmt.Sprintf("embedding: %d dimensions", len(rec.Embedding))))
	return nil
}
