package main

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/wfgraph"
)

// nodeRequest is the body of POST /nodes.
type nodeRequest struct {
	wfgraph.Node
	Position wfgraph.Position `json:"position"`
}

func newApp(store *wfgraph.GraphStore) *fiber.App {
	app := fiber.New()

	// ── Graph ─────────────────────────────────────────────────────────
	app.Get("/graph", func(c fiber.Ctx) error {
		return c.JSON(store.Snapshot())
	})

	app.Post("/save", func(c fiber.Ctx) error {
		if err := store.Save(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "saved", "key": store.Key()})
	})

	app.Post("/reset", func(c fiber.Ctx) error {
		if err := store.Reset(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(store.Snapshot())
	})

	app.Get("/validate", func(c fiber.Ctx) error {
		snap := store.Snapshot()
		cycle := snap.FindCycle()
		issues := snap.Issues()
		if len(issues) == 0 {
			return c.JSON(fiber.Map{"valid": true, "cycle": cycle})
		}
		msgs := make([]string, len(issues))
		for i, err := range issues {
			msgs[i] = err.Error()
		}
		return c.Status(422).JSON(fiber.Map{"valid": false, "errors": msgs, "cycle": cycle})
	})

	app.Get("/export", func(c fiber.Ctx) error {
		snap := store.Snapshot()
		switch format := c.Query("format", "json"); format {
		case "json":
			data, err := wfgraph.Encode(snap)
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(data)
		case "yaml":
			data, err := wfgraph.EncodeYAML(snap)
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
			c.Set(fiber.HeaderContentType, "application/yaml")
			return c.Send(data)
		case "mermaid":
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.SendString(snap.ToMermaid())
		default:
			return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("unsupported format %q", format)})
		}
	})

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/nodes", func(c fiber.Ctx) error {
		var req nodeRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		id := store.AddNode(req.Node, req.Position)
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Get("/nodes/:id", func(c fiber.Ctx) error {
		n, ok := store.Node(c.Params("id"))
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		return c.JSON(n)
	})

	app.Put("/nodes/:id", func(c fiber.Ctx) error {
		var node wfgraph.Node
		if err := c.Bind().JSON(&node); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		store.SetNode(c.Params("id"), node)
		return c.SendStatus(204)
	})

	app.Delete("/nodes/:id", func(c fiber.Ctx) error {
		err := store.RemoveNode(c.Params("id"))
		if errors.Is(err, wfgraph.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// ── Edges ─────────────────────────────────────────────────────────
	app.Post("/edges", func(c fiber.Ctx) error {
		var edge wfgraph.Edge
		if err := c.Bind().JSON(&edge); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if err := checkEndpoints(store, edge); err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		id := store.AddEdge(edge)
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Get("/edges/:id", func(c fiber.Ctx) error {
		e, ok := store.Edge(c.Params("id"))
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "edge not found"})
		}
		return c.JSON(e)
	})

	app.Put("/edges/:id", func(c fiber.Ctx) error {
		var edge wfgraph.Edge
		if err := c.Bind().JSON(&edge); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if err := checkEndpoints(store, edge); err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		store.SetEdge(c.Params("id"), edge)
		return c.SendStatus(204)
	})

	app.Delete("/edges/:id", func(c fiber.Ctx) error {
		err := store.RemoveEdge(c.Params("id"))
		if errors.Is(err, wfgraph.ErrEdgeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "edge not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// ── Layouts ───────────────────────────────────────────────────────
	app.Put("/layouts/:id", func(c fiber.Ctx) error {
		var pos wfgraph.Position
		if err := c.Bind().JSON(&pos); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		store.SetPosition(c.Params("id"), pos)
		return c.SendStatus(204)
	})

	app.Delete("/layouts/:id", func(c fiber.Ctx) error {
		store.RemovePosition(c.Params("id"))
		return c.SendStatus(204)
	})

	// ── Configs ───────────────────────────────────────────────────────
	app.Get("/configs", func(c fiber.Ctx) error {
		return c.JSON(store.Configs())
	})

	app.Put("/configs", func(c fiber.Ctx) error {
		// Fields missing from the body keep their current values.
		cfg := store.Configs()
		if err := c.Bind().JSON(&cfg); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		store.SetConfigs(cfg)
		return c.SendStatus(204)
	})

	return app
}

// checkEndpoints rejects edges whose source or target is not a node.
// The store accepts such edges; the HTTP surface does not.
func checkEndpoints(store *wfgraph.GraphStore, e wfgraph.Edge) error {
	if _, ok := store.Node(e.Source); !ok {
		return fmt.Errorf("%w: source %q", wfgraph.ErrDanglingEdge, e.Source)
	}
	if _, ok := store.Node(e.Target); !ok {
		return fmt.Errorf("%w: target %q", wfgraph.ErrDanglingEdge, e.Target)
	}
	return nil
}
