package wfgraph

const nodeSize = 40

// DefaultConfigs returns the canvas configuration used when nothing is stored.
func DefaultConfigs() Configs {
	return Configs{
		Node: NodeConfig{
			Normal: NodeShape{Radius: nodeSize / 2},
			Label: NodeLabel{
				Visible:                 true,
				Direction:               "center",
				Color:                   "#fff",
				DirectionAutoAdjustment: true,
			},
			Selectable: 2,
		},
		Edge: EdgeConfig{
			Selectable: true,
			Normal:     EdgeStroke{Width: 3},
			Marker: EdgeMarker{
				Target: Marker{Type: "arrow", Width: 3},
			},
		},
		View: ViewConfig{
			BoxSelectionEnabled:  true,
			AutoPanAndZoomOnLoad: "fit-content",
			Selection: ViewSelection{
				Box: SelectionBox{
					Color:           "#0000ff20",
					StrokeWidth:     1,
					StrokeColor:     "#aaaaff",
					StrokeDasharray: "0",
				},
			},
		},
	}
}

// Default returns the built-in graph: four nodes chained by three edges.
func Default() Snapshot {
	return Snapshot{
		Nodes: map[string]Node{
			"node1": {Name: "Node 1", Handler: "some handler", Outputs: []string{"some output 1", "some output 2"}},
			"node2": {Name: "Node 2", Handler: "another handler", Outputs: []string{"another output"}},
			"node3": {Name: "Node 3", Handler: "some handler", Outputs: []string{"some result"}},
			"node4": {Name: "Node 4", Handler: "aggregation handler", Outputs: []string{"overall result"}},
		},
		Edges: map[string]Edge{
			"edge1": {Source: "node1", Target: "node2", Label: "edge1"},
			"edge2": {Source: "node2", Target: "node3", Label: "edge2"},
			"edge3": {Source: "node3", Target: "node4", Label: "edge3"},
		},
		Layouts: Layouts{
			Nodes: map[string]Position{
				"node1": {X: 0, Y: 0},
				"node2": {X: 100, Y: 50},
				"node3": {X: 200, Y: -50},
				"node4": {X: 300, Y: 0},
			},
		},
		Configs: DefaultConfigs(),
	}
}
