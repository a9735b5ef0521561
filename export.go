package wfgraph

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToMermaid exports the graph to Mermaid flowchart syntax, left to right,
// nodes and edges in ID order. Node IDs are emitted as n0, n1, ... so that IDs
// which are Mermaid keywords or contain punctuation still render; names and labels
// are quoted with Mermaid's entity escapes. Edge endpoints with no node get a
// box titled with the raw ID.
func (s Snapshot) ToMermaid() string {
	var sb strings.Builder
	alias := make(map[string]string, len(s.Nodes))
	declare := func(id, title string) {
		alias[id] = fmt.Sprintf("n%d", len(alias))
		sb.WriteString(fmt.Sprintf("    %s[%s]\n", alias[id], mermaidText(title)))
	}

	sb.WriteString("graph LR\n")
	for _, id := range sortedKeys(s.Nodes) {
		declare(id, s.Nodes[id].Name)
	}
	edges := sortedKeys(s.Edges)
	for _, id := range edges {
		e := s.Edges[id]
		for _, end := range []string{e.Source, e.Target} {
			if _, ok := alias[end]; !ok {
				declare(end, end)
			}
		}
	}
	for _, id := range edges {
		e := s.Edges[id]
		if e.Label == "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", alias[e.Source], alias[e.Target]))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", alias[e.Source], mermaidText(e.Label), alias[e.Target]))
	}

	return sb.String()
}

var mermaidEscaper = strings.NewReplacer(
	"#", "#35;",
	`"`, "#quot;",
	"\n", " ",
	"\r", " ",
)

// mermaidText quotes s as a Mermaid string.
func mermaidText(s string) string {
	return `"` + mermaidEscaper.Replace(s) + `"`
}

// EncodeYAML serializes a snapshot as YAML.
func EncodeYAML(s Snapshot) ([]byte, error) {
	c := s.Clone()
	c.normalize()
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("wfgraph: encode yaml: %w", err)
	}
	return data, nil
}

// DecodeYAML parses a YAML snapshot with the same defaults and checks as Decode.
func DecodeYAML(data []byte) (Snapshot, error) {
	s := Snapshot{Configs: DefaultConfigs()}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.Nodes == nil {
		return Snapshot{}, fmt.Errorf("%w: missing nodes", ErrCorruptSnapshot)
	}
	s.normalize()
	return s, nil
}
