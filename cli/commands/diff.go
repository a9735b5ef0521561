package commands

import (
	"fmt"

	"github.com/meikuraledutech/wfgraph"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff [snapshot-file]",
	Short: "Show how the stored graph differs from a file or the default graph",
	Long: `Print a unified diff of the YAML renderings of the stored graph and another
snapshot: the given JSON/YAML file, or the built-in default graph when none is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	store, closeKV, err := openStore(cmdContext(cmd), cmd)
	if err != nil {
		return err
	}
	defer closeKV()

	other, otherName := wfgraph.Default(), "default"
	if len(args) == 1 {
		if other, err = readSnapshotFile(args[0]); err != nil {
			return err
		}
		otherName = args[0]
	}

	text, err := diffSnapshots(other, store.Snapshot(), otherName, "stored:"+store.Key())
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(out(cmd), "no differences")
		return nil
	}
	fmt.Fprint(out(cmd), text)
	return nil
}

func diffSnapshots(a, b wfgraph.Snapshot, nameA, nameB string) (string, error) {
	left, err := wfgraph.EncodeYAML(a)
	if err != nil {
		return "", err
	}
	right, err := wfgraph.EncodeYAML(b)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(left)),
		B:        difflib.SplitLines(string(right)),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  3,
	})
}
