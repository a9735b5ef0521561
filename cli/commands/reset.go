package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored graph so the default graph is used again",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	store, closeKV, err := openStore(cmdContext(cmd), cmd)
	if err != nil {
		return err
	}
	defer closeKV()

	if err := store.Reset(cmdContext(cmd)); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "deleted %s\n", store.Key())
	return nil
}
