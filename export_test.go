package wfgraph_test

import (
	"testing"

	"github.com/meikuraledutech/wfgraph"
	"github.com/stretchr/testify/assert"
)

func TestToMermaid(t *testing.T) {
	snap := wfgraph.Default()
	snap.Edges["edge4"] = wfgraph.Edge{Source: "node4", Target: "node1"}

	want := `graph LR
    n0["Node 1"]
    n1["Node 2"]
    n2["Node 3"]
    n3["Node 4"]
    n0 -->|"edge1"| n1
    n1 -->|"edge2"| n2
    n2 -->|"edge3"| n3
    n3 --> n0
`
	assert.Equal(t, want, snap.ToMermaid())
}

func TestToMermaidEscaping(t *testing.T) {
	snap := wfgraph.Snapshot{
		Nodes: map[string]wfgraph.Node{
			"end":   {Name: `say "hi"`},
			"start": {Name: "step #1"},
		},
		Edges: map[string]wfgraph.Edge{
			"e1": {Source: "start", Target: "end", Label: `a "b"`},
			"e2": {Source: "end", Target: "gone"},
		},
	}

	want := `graph LR
    n0["say #quot;hi#quot;"]
    n1["step #35;1"]
    n2["gone"]
    n1 -->|"a #quot;b#quot;"| n0
    n0 --> n2
`
	assert.Equal(t, want, snap.ToMermaid())
}
