package commands

import (
	"fmt"

	"github.com/meikuraledutech/wfgraph"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the snapshot keys stored in the backend",
	Long: `List every key stored in the configured backend. The key the other
commands operate on is marked with "*".`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	kv, cfg, closeKV, err := openKV(ctx)
	if err != nil {
		return err
	}
	defer closeKV()

	lister, ok := kv.(wfgraph.Lister)
	if !ok {
		return fmt.Errorf("the %s backend cannot list keys", cfg.Backend)
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Fprintln(out(cmd), "no keys stored")
		return nil
	}
	for _, k := range keys {
		mark := " "
		if k == cfg.Key {
			mark = "*"
		}
		fmt.Fprintf(out(cmd), "%s %s\n", mark, k)
	}
	return nil
}
