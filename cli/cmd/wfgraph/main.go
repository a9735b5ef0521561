// wfgraph CLI - inspect and maintain the stored workflow graph.
package main

import (
	"os"

	"github.com/meikuraledutech/wfgraph/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
