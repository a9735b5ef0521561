package wfgraph_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meikuraledutech/wfgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("DefaultIsValid", func(t *testing.T) {
		assert.NoError(t, wfgraph.Default().Validate())
	})

	t.Run("Problems", func(t *testing.T) {
		snap := wfgraph.Default()
		snap.Edges["e-src"] = wfgraph.Edge{Source: "ghost", Target: "node1"}
		snap.Edges["e-dst"] = wfgraph.Edge{Source: "node1", Target: "phantom"}
		delete(snap.Layouts.Nodes, "node2")
		snap.Layouts.Nodes["stale"] = wfgraph.Position{}
		n := snap.Nodes["node3"]
		n.Condition = "x >"
		snap.Nodes["node3"] = n
		snap.Configs.Node.Normal.Radius = 0
		snap.Configs.Node.Selectable = -1

		issues := snap.Issues()
		require.Len(t, issues, 7)

		var refs []string
		for _, err := range issues {
			var verr *wfgraph.ValidationError
			require.True(t, errors.As(err, &verr))
			refs = append(refs, verr.Ref)
		}
		assert.Equal(t, []string{"e-dst", "e-src", "node2", "node3", "stale", "node.normal.radius", "node.selectable"}, refs)

		err := snap.Validate()
		assert.ErrorIs(t, err, wfgraph.ErrDanglingEdge)
		assert.ErrorIs(t, err, wfgraph.ErrMissingLayout)
		assert.ErrorIs(t, err, wfgraph.ErrOrphanLayout)
		assert.ErrorIs(t, err, wfgraph.ErrInvalidCondition)
		assert.ErrorIs(t, err, wfgraph.ErrInvalidConfig)
		assert.Contains(t, err.Error(), `target "phantom"`)
	})

	t.Run("ConditionSyntaxOnly", func(t *testing.T) {
		snap := wfgraph.Default()
		n := snap.Nodes["node1"]
		n.Condition = `status == "done" && retries < 3`
		snap.Nodes["node1"] = n
		assert.NoError(t, snap.Validate())
	})

	t.Run("Unencodable", func(t *testing.T) {
		snap := wfgraph.Default()
		snap.Layouts.Nodes["node2"] = wfgraph.Position{X: math.NaN(), Y: 0}
		snap.Layouts.Nodes["node4"] = wfgraph.Position{X: 0, Y: math.Inf(1)}
		n := snap.Nodes["node1"]
		n.Name = "bad\xffname"
		snap.Nodes["node1"] = n

		var refs []string
		for _, err := range snap.Issues() {
			assert.ErrorIs(t, err, wfgraph.ErrUnencodable)
			refs = append(refs, err.(*wfgraph.ValidationError).Ref)
		}
		assert.Equal(t, []string{"node2", "node4", "node1"}, refs)

		_, err := wfgraph.Encode(snap)
		assert.Error(t, err)
	})

	t.Run("ErrorMessage", func(t *testing.T) {
		err := &wfgraph.ValidationError{Err: wfgraph.ErrOrphanLayout, Ref: "x"}
		assert.Equal(t, "wfgraph: layout entry for unknown node: x", err.Error())
	})
}

func TestFindCycle(t *testing.T) {
	t.Run("Acyclic", func(t *testing.T) {
		assert.Nil(t, wfgraph.Default().FindCycle())
	})

	t.Run("Loop", func(t *testing.T) {
		snap := wfgraph.Default()
		snap.Edges["edge4"] = wfgraph.Edge{Source: "node4", Target: "node1", Label: "loop"}
		assert.Equal(t, []string{"node1", "node2", "node3", "node4", "node1"}, snap.FindCycle())
		assert.NoError(t, snap.Validate())
	})

	t.Run("SelfLoop", func(t *testing.T) {
		snap := wfgraph.Default()
		snap.Edges["self"] = wfgraph.Edge{Source: "node2", Target: "node2"}
		assert.Equal(t, []string{"node2", "node2"}, snap.FindCycle())
	})

	t.Run("IgnoresDanglingEdges", func(t *testing.T) {
		snap := wfgraph.Default()
		snap.Edges["back"] = wfgraph.Edge{Source: "ghost", Target: "node1"}
		snap.Edges["fwd"] = wfgraph.Edge{Source: "node4", Target: "ghost"}
		assert.Nil(t, snap.FindCycle())
	})
}
