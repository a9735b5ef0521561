package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meikuraledutech/wfgraph"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showPretty bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored graph as JSON",
	Long: `Print the stored graph snapshot as JSON, followed by where it came from
(snapshot, default or recovered) on stderr. Output is indented when stdout is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showPretty, "pretty", false, "Indent output even when not writing to a terminal")
}

func runShow(cmd *cobra.Command, args []string) error {
	store, closeKV, err := openStore(cmdContext(cmd), cmd)
	if err != nil {
		return err
	}
	defer closeKV()

	data, err := wfgraph.Encode(store.Snapshot())
	if err != nil {
		return err
	}

	if showPretty || term.IsTerminal(int(os.Stdout.Fd())) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	fmt.Fprintln(out(cmd), string(data))
	fmt.Fprintf(errOut(cmd), "origin: %s, key: %s\n", store.Origin(), store.Key())
	return nil
}
