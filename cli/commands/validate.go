package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored graph for dangling edges and other problems",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	store, closeKV, err := openStore(cmdContext(cmd), cmd)
	if err != nil {
		return err
	}
	defer closeKV()

	snap := store.Snapshot()
	if cycle := snap.FindCycle(); cycle != nil {
		fmt.Fprintf(out(cmd), "cycle: %s\n", strings.Join(cycle, " -> "))
	}

	issues := snap.Issues()
	for _, err := range issues {
		fmt.Fprintln(out(cmd), err)
	}
	if len(issues) > 0 {
		return fmt.Errorf("graph has %d problem(s)", len(issues))
	}
	fmt.Fprintf(out(cmd), "ok: %d nodes, %d edges\n", len(snap.Nodes), len(snap.Edges))
	return nil
}
