package wfgraph

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a snapshot as a JSON document.
// Map keys are written in sorted order, so equal snapshots encode to equal bytes.
// NaN or infinite coordinates make Encode fail, and invalid UTF-8 in strings is
// written as U+FFFD; Snapshot.Validate reports both as ErrUnencodable.
func Encode(s Snapshot) ([]byte, error) {
	c := s.Clone()
	c.normalize()
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("wfgraph: encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a JSON snapshot.
// Missing containers decode as empty, missing config fields take their default values.
// A document that is not JSON or has no nodes object yields ErrCorruptSnapshot.
// Dangling edges are not rejected here; see Snapshot.Validate.
func Decode(data []byte) (Snapshot, error) {
	s := Snapshot{Configs: DefaultConfigs()}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if s.Nodes == nil {
		return Snapshot{}, fmt.Errorf("%w: missing nodes", ErrCorruptSnapshot)
	}
	s.normalize()
	return s, nil
}
