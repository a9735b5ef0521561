package wfgraph

// Snapshot is the complete state of a workflow graph at one instant.
// It is the unit that is persisted and restored.
type Snapshot struct {
	Nodes   map[string]Node `json:"nodes" yaml:"nodes"`
	Edges   map[string]Edge `json:"edges" yaml:"edges"`
	Layouts Layouts         `json:"layouts" yaml:"layouts"`
	Configs Configs         `json:"configs" yaml:"configs"`
}

// Node represents a workflow step. Its ID is the key it is stored under.
// Outputs order is meaningful: it determines edge anchor order.
type Node struct {
	Name      string   `json:"name" yaml:"name"`
	Handler   string   `json:"handler" yaml:"handler"`
	Outputs   []string `json:"outputs" yaml:"outputs"`
	Condition string   `json:"condition" yaml:"condition"`
}

// Edge represents a directed connection between two node IDs.
// Source and Target must name existing nodes; this is checked only by Validate.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label" yaml:"label"`
}

// Layouts holds the canvas positions of the nodes.
type Layouts struct {
	Nodes map[string]Position `json:"nodes" yaml:"nodes"`
}

// Position is a point in canvas space.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Configs is the view and interaction configuration of the whole canvas.
type Configs struct {
	Node NodeConfig `json:"node" yaml:"node"`
	Edge EdgeConfig `json:"edge" yaml:"edge"`
	View ViewConfig `json:"view" yaml:"view"`
}

type NodeConfig struct {
	Normal NodeShape `json:"normal" yaml:"normal"`
	Label  NodeLabel `json:"label" yaml:"label"`
	// Selectable is the maximum number of nodes selected at once.
	// It is enforced by the renderer, not by the store.
	Selectable int `json:"selectable" yaml:"selectable"`
}

type NodeShape struct {
	Radius float64 `json:"radius" yaml:"radius"`
}

type NodeLabel struct {
	Visible                 bool   `json:"visible" yaml:"visible"`
	Direction               string `json:"direction" yaml:"direction"`
	Color                   string `json:"color" yaml:"color"`
	DirectionAutoAdjustment bool   `json:"directionAutoAdjustment" yaml:"directionAutoAdjustment"`
}

type EdgeConfig struct {
	Selectable bool       `json:"selectable" yaml:"selectable"`
	Normal     EdgeStroke `json:"normal" yaml:"normal"`
	Marker     EdgeMarker `json:"marker" yaml:"marker"`
}

type EdgeStroke struct {
	Width float64 `json:"width" yaml:"width"`
}

type EdgeMarker struct {
	Target Marker `json:"target" yaml:"target"`
}

type Marker struct {
	Type  string  `json:"type" yaml:"type"`
	Width float64 `json:"width" yaml:"width"`
}

type ViewConfig struct {
	BoxSelectionEnabled  bool          `json:"boxSelectionEnabled" yaml:"boxSelectionEnabled"`
	AutoPanAndZoomOnLoad string        `json:"autoPanAndZoomOnLoad" yaml:"autoPanAndZoomOnLoad"`
	Selection            ViewSelection `json:"selection" yaml:"selection"`
}

type ViewSelection struct {
	Box SelectionBox `json:"box" yaml:"box"`
}

type SelectionBox struct {
	Color           string  `json:"color" yaml:"color"`
	StrokeWidth     float64 `json:"strokeWidth" yaml:"strokeWidth"`
	StrokeColor     string  `json:"strokeColor" yaml:"strokeColor"`
	StrokeDasharray string  `json:"strokeDasharray" yaml:"strokeDasharray"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes:   make(map[string]Node, len(s.Nodes)),
		Edges:   make(map[string]Edge, len(s.Edges)),
		Layouts: Layouts{Nodes: make(map[string]Position, len(s.Layouts.Nodes))},
		Configs: s.Configs,
	}
	for id, n := range s.Nodes {
		out.Nodes[id] = n.clone()
	}
	for id, e := range s.Edges {
		out.Edges[id] = e
	}
	for id, p := range s.Layouts.Nodes {
		out.Layouts.Nodes[id] = p
	}
	return out
}

func (n Node) clone() Node {
	if n.Outputs != nil {
		n.Outputs = append([]string{}, n.Outputs...)
	}
	return n
}

// normalize replaces nil containers with empty ones.
func (s *Snapshot) normalize() {
	if s.Nodes == nil {
		s.Nodes = make(map[string]Node)
	}
	if s.Edges == nil {
		s.Edges = make(map[string]Edge)
	}
	if s.Layouts.Nodes == nil {
		s.Layouts.Nodes = make(map[string]Position)
	}
	for id, n := range s.Nodes {
		if n.Outputs == nil {
			n.Outputs = []string{}
			s.Nodes[id] = n
		}
	}
}
