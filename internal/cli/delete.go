package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nickcecere/semstore/internal/config"
	"github.com/nickcecere/semstore/internal/ui"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored record by id",
	Long: `Delete a record. The freed id is never reassigned to a later
record within the same store.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	if err := st.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Println(ui.Success.Render(fmt.Sprintf("Deleted record #%d", id)))
	return nil
}
