package main

import (
	"context"
	"log"

	"github.com/meikuraledutech/wfgraph"
	"github.com/meikuraledutech/wfgraph/backend"
)

func main() {
	cfg, err := backend.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	kv, closeKV, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s backend: %v", cfg.Backend, err)
	}
	defer closeKV()

	store := wfgraph.New(kv, wfgraph.WithKey(cfg.Key))
	origin := store.Initialize(ctx)
	log.Printf("graph loaded from %s (%s backend, key %q)", origin, cfg.Backend, cfg.Key)

	store.Subscribe(func(c wfgraph.Change) {
		if c.Kind == wfgraph.ChangeSaved {
			log.Printf("graph saved under %q", store.Key())
		}
	})

	app := newApp(store)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("listen: %v", err)
	}
}
