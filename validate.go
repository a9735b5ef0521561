package wfgraph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/expr-lang/expr"
)

var (
	ErrDanglingEdge     = errors.New("wfgraph: edge references unknown node")
	ErrMissingLayout    = errors.New("wfgraph: node has no layout entry")
	ErrOrphanLayout     = errors.New("wfgraph: layout entry for unknown node")
	ErrInvalidCondition = errors.New("wfgraph: invalid node condition")
	ErrInvalidConfig    = errors.New("wfgraph: invalid config")
	ErrUnencodable      = errors.New("wfgraph: value cannot be stored losslessly")
)

// ValidationError is one problem found by Validate. It unwraps to one of the Err* sentinels above.
type ValidationError struct {
	Err    error
	Ref    string // node or edge ID, or config path
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Ref)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Ref, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate performs checks that mutations do not enforce: edge endpoints,
// layout coverage, condition syntax, values Encode cannot round-trip, and config ranges.
// It returns nil or the joined *ValidationError values in a stable order.
func (s Snapshot) Validate() error {
	return errors.Join(s.Issues()...)
}

// Issues is Validate without the join.
func (s Snapshot) Issues() []error {
	var errs []error
	add := func(err error, ref, detail string) {
		errs = append(errs, &ValidationError{Err: err, Ref: ref, Detail: detail})
	}

	for _, id := range sortedKeys(s.Edges) {
		e := s.Edges[id]
		if _, ok := s.Nodes[e.Source]; !ok {
			add(ErrDanglingEdge, id, fmt.Sprintf("source %q", e.Source))
		}
		if _, ok := s.Nodes[e.Target]; !ok {
			add(ErrDanglingEdge, id, fmt.Sprintf("target %q", e.Target))
		}
	}

	for _, id := range sortedKeys(s.Nodes) {
		if _, ok := s.Layouts.Nodes[id]; !ok {
			add(ErrMissingLayout, id, "")
		}
		if cond := s.Nodes[id].Condition; cond != "" {
			if _, err := expr.Compile(cond); err != nil {
				add(ErrInvalidCondition, id, err.Error())
			}
		}
	}

	for _, id := range sortedKeys(s.Layouts.Nodes) {
		if _, ok := s.Nodes[id]; !ok {
			add(ErrOrphanLayout, id, "")
		}
		if p := s.Layouts.Nodes[id]; !finite(p.X) || !finite(p.Y) {
			add(ErrUnencodable, id, fmt.Sprintf("position (%v, %v)", p.X, p.Y))
		}
	}

	for _, id := range sortedKeys(s.Nodes) {
		n := s.Nodes[id]
		if !allValidUTF8(append([]string{id, n.Name, n.Handler, n.Condition}, n.Outputs...)...) {
			add(ErrUnencodable, id, "invalid UTF-8")
		}
	}
	for _, id := range sortedKeys(s.Edges) {
		e := s.Edges[id]
		if !allValidUTF8(id, e.Source, e.Target, e.Label) {
			add(ErrUnencodable, id, "invalid UTF-8")
		}
	}

	c := s.Configs
	if c.Node.Normal.Radius <= 0 {
		add(ErrInvalidConfig, "node.normal.radius", fmt.Sprintf("must be positive, got %v", c.Node.Normal.Radius))
	}
	if c.Node.Selectable < 0 {
		add(ErrInvalidConfig, "node.selectable", fmt.Sprintf("must not be negative, got %d", c.Node.Selectable))
	}
	if c.Edge.Normal.Width <= 0 {
		add(ErrInvalidConfig, "edge.normal.width", fmt.Sprintf("must be positive, got %v", c.Edge.Normal.Width))
	}
	if c.Edge.Marker.Target.Width < 0 {
		add(ErrInvalidConfig, "edge.marker.target.width", fmt.Sprintf("must not be negative, got %v", c.Edge.Marker.Target.Width))
	}
	if c.View.Selection.Box.StrokeWidth < 0 {
		add(ErrInvalidConfig, "view.selection.box.strokeWidth", fmt.Sprintf("must not be negative, got %v", c.View.Selection.Box.StrokeWidth))
	}

	return errs
}

// FindCycle returns the node IDs of one directed cycle, first node repeated at the end,
// or nil if the graph is acyclic. Cycles are legal; this is informational.
// Edges with unknown endpoints are ignored.
func (s Snapshot) FindCycle() []string {
	adj := make(map[string][]string)
	for _, id := range sortedKeys(s.Edges) {
		e := s.Edges[id]
		if _, ok := s.Nodes[e.Source]; !ok {
			continue
		}
		if _, ok := s.Nodes[e.Target]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(s.Nodes))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		stack = append(stack, id)
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				for i, v := range stack {
					if v == next {
						cycle = append(append([]string{}, stack[i:]...), next)
						break
					}
				}
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = visited
		return false
	}

	for _, id := range sortedKeys(s.Nodes) {
		if state[id] == unvisited && dfs(id) {
			return cycle
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func allValidUTF8(ss ...string) bool {
	for _, s := range ss {
		if !utf8.ValidString(s) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
