package commands

import (
	"fmt"
	"os"

	"github.com/meikuraledutech/wfgraph"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored graph",
	Long: `Export the stored graph to Mermaid, JSON or YAML.

Examples:
  wfgraph export
  wfgraph export --format yaml
  wfgraph export --format mermaid --output graph.md`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "mermaid", "Output format: mermaid, json, yaml")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	store, closeKV, err := openStore(cmdContext(cmd), cmd)
	if err != nil {
		return err
	}
	defer closeKV()

	output, err := render(store.Snapshot(), exportFormat)
	if err != nil {
		return err
	}

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(out(cmd), "Graph exported to %s\n", exportOutput)
		return nil
	}
	fmt.Fprint(out(cmd), string(output))
	return nil
}

func render(snap wfgraph.Snapshot, format string) ([]byte, error) {
	switch format {
	case "mermaid":
		return []byte(snap.ToMermaid()), nil
	case "json":
		return wfgraph.Encode(snap)
	case "yaml":
		return wfgraph.EncodeYAML(snap)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use 'mermaid', 'json' or 'yaml')", format)
	}
}
