package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <snapshot-file>",
	Short: "Replace the stored graph with a JSON or YAML snapshot",
	Long: `Replace the stored graph with the snapshot in the given file and save it.
The snapshot is validated first; use --force to store it anyway.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importForce, "force", false, "Store the snapshot even if validation fails")
}

func runImport(cmd *cobra.Command, args []string) error {
	snap, err := readSnapshotFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil && !importForce {
		return fmt.Errorf("snapshot is invalid (use --force to import anyway): %w", err)
	}

	ctx := cmdContext(cmd)
	store, closeKV, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeKV()

	store.Replace(snap)
	if err := store.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "imported %d nodes, %d edges into %s\n", len(snap.Nodes), len(snap.Edges), store.Key())
	return nil
}
