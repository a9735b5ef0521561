package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/meikuraledutech/wfgraph"
	"github.com/meikuraledutech/wfgraph/memory"
)

func main() {
	ctx := context.Background()

	// Wire up the in-memory medium behind the KV interface.
	kv := memory.New()
	store := wfgraph.New(kv)

	// ── Observe ───────────────────────────────────────────────────────
	store.Subscribe(func(c wfgraph.Change) {
		fmt.Printf("  change: kind=%d id=%q\n", c.Kind, c.ID)
	})

	// 1. Nothing stored yet: the default graph is used.
	origin := store.Initialize(ctx)
	fmt.Printf("initialized from %s: %d nodes, %d edges\n", origin, len(store.Nodes()), len(store.Edges()))

	// ── Mutate ────────────────────────────────────────────────────────
	fmt.Println("\nadding a node and closing the loop:")
	id := store.AddNode(wfgraph.Node{
		Name:      "Node 5",
		Handler:   "review handler",
		Outputs:   []string{"approved", "rejected"},
		Condition: `score > 0.5`,
	}, wfgraph.Position{X: 400, Y: 50})
	store.SetEdge("edge4", wfgraph.Edge{Source: "node4", Target: id, Label: "edge4"})
	store.SetEdge("edge5", wfgraph.Edge{Source: id, Target: "node1", Label: "retry"})
	store.SetPosition("node2", wfgraph.Position{X: 100, Y: 80})

	// ── Validate ──────────────────────────────────────────────────────
	snap := store.Snapshot()
	if err := snap.Validate(); err != nil {
		log.Fatalf("validate: %v", err)
	}
	if cycle := snap.FindCycle(); cycle != nil {
		fmt.Printf("\ncycle: %v\n", cycle)
	}

	// ── Save and reload ───────────────────────────────────────────────
	if err := store.Save(ctx); err != nil {
		log.Fatalf("save: %v", err)
	}

	reloaded := wfgraph.New(kv)
	fmt.Printf("\nreloaded from %s\n", reloaded.Initialize(ctx))
	printJSON(reloaded.Edges())

	fmt.Println("\nmermaid:")
	fmt.Print(reloaded.Snapshot().ToMermaid())

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := reloaded.Reset(ctx); err != nil {
		log.Fatalf("reset: %v", err)
	}
	fmt.Println("\nstore reset to defaults")
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
