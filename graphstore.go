package wfgraph

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// DefaultKey is the storage entry snapshots are written under.
const DefaultKey = "workflowStore"

// Origin tells where the store's current state came from.
type Origin int

const (
	OriginNone      Origin = iota // not initialized yet
	OriginDefault                 // nothing stored, or the medium was unavailable
	OriginSnapshot                // restored from the stored snapshot
	OriginRecovered               // the stored snapshot was corrupt and defaults were used
)

func (o Origin) String() string {
	switch o {
	case OriginDefault:
		return "default"
	case OriginSnapshot:
		return "snapshot"
	case OriginRecovered:
		return "recovered"
	default:
		return "none"
	}
}

// ChangeKind identifies what a Change touched.
type ChangeKind int

const (
	ChangeLoaded ChangeKind = iota
	ChangeSaved
	ChangeNode
	ChangeNodeRemoved
	ChangeEdge
	ChangeEdgeRemoved
	ChangeLayout
	ChangeLayoutRemoved
	ChangeConfigs
)

// Change is published to observers after every state change.
// ID is the node or edge ID for entity changes and empty otherwise.
type Change struct {
	Kind ChangeKind
	ID   string
}

// Observer receives changes synchronously, after the store's lock is released.
type Observer func(Change)

// Option configures a GraphStore.
type Option func(*GraphStore)

// WithKey sets the storage entry name.
func WithKey(key string) Option {
	return func(s *GraphStore) { s.key = key }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *GraphStore) { s.logger = l }
}

// WithDefaults replaces the built-in default graph.
func WithDefaults(fn func() Snapshot) Option {
	return func(s *GraphStore) { s.defaults = fn }
}

// GraphStore owns the nodes, edges, layouts and configs of one workflow graph
// and persists them as a single snapshot in a KV medium.
// Construct one per process and pass it to every consumer.
type GraphStore struct {
	kv       KV
	key      string
	logger   *log.Logger
	defaults func() Snapshot

	mu     sync.RWMutex
	state  Snapshot
	origin Origin

	obsMu     sync.Mutex
	observers []observerEntry
	nextObs   int
}

type observerEntry struct {
	id int
	fn Observer
}

// New creates a GraphStore backed by kv. A nil kv behaves like an unavailable medium:
// Initialize uses the defaults and Save fails.
// The store is empty until Initialize is called.
func New(kv KV, opts ...Option) *GraphStore {
	s := &GraphStore{
		kv:       kv,
		key:      DefaultKey,
		logger:   log.Default(),
		defaults: Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = Snapshot{Configs: DefaultConfigs()}
	s.state.normalize()
	return s
}

// Initialize loads the stored snapshot, falling back to the defaults when the entry is
// absent, unreadable or corrupt. It never fails; the returned Origin says which case applied.
// Calling it again replaces the whole state with what is stored.
func (s *GraphStore) Initialize(ctx context.Context) Origin {
	snap, origin := s.load(ctx)

	s.mu.Lock()
	s.state = snap
	s.origin = origin
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeLoaded})
	return origin
}

func (s *GraphStore) load(ctx context.Context) (Snapshot, Origin) {
	if s.kv == nil {
		s.logger.Printf("wfgraph: no storage medium, using default graph")
		return s.fallback(), OriginDefault
	}

	raw, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.Printf("wfgraph: no snapshot under %q, using default graph", s.key)
		return s.fallback(), OriginDefault
	case err != nil:
		s.logger.Printf("wfgraph: read %q: %v, using default graph", s.key, err)
		return s.fallback(), OriginDefault
	case raw == "":
		s.logger.Printf("wfgraph: empty snapshot under %q, using default graph", s.key)
		return s.fallback(), OriginDefault
	}

	snap, err := Decode([]byte(raw))
	if err != nil {
		s.logger.Printf("wfgraph: discarding snapshot under %q: %v", s.key, err)
		return s.fallback(), OriginRecovered
	}
	s.logger.Printf("wfgraph: loaded %d nodes, %d edges from %q", len(snap.Nodes), len(snap.Edges), s.key)
	return snap, OriginSnapshot
}

func (s *GraphStore) fallback() Snapshot {
	snap := s.defaults().Clone()
	snap.normalize()
	return snap
}

// Save writes the full current state under the store's key, replacing any prior value.
// Storage failures are returned wrapped in ErrStorage. Saving before Initialize
// returns ErrNotInitialized and leaves the stored entry untouched.
func (s *GraphStore) Save(ctx context.Context) error {
	s.mu.RLock()
	if s.origin == OriginNone {
		s.mu.RUnlock()
		return ErrNotInitialized
	}
	data, err := Encode(s.state)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if s.kv == nil {
		return fmt.Errorf("%w: no storage medium", ErrStorage)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: write %q: %w", ErrStorage, s.key, err)
	}

	s.publish(Change{Kind: ChangeSaved})
	return nil
}

// Reset deletes the stored entry and reloads the default graph.
func (s *GraphStore) Reset(ctx context.Context) error {
	if s.kv != nil {
		if err := s.kv.Delete(ctx, s.key); err != nil {
			return fmt.Errorf("%w: delete %q: %w", ErrStorage, s.key, err)
		}
	}

	s.mu.Lock()
	s.state = s.fallback()
	s.origin = OriginDefault
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeLoaded})
	return nil
}

// Replace swaps in snap as the whole state without touching storage.
func (s *GraphStore) Replace(snap Snapshot) {
	c := snap.Clone()
	c.normalize()

	s.mu.Lock()
	s.state = c
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeLoaded})
}

// Origin reports how the current state was produced.
func (s *GraphStore) Origin() Origin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.origin
}

// Key returns the storage entry name.
func (s *GraphStore) Key() string { return s.key }

// Snapshot returns a deep copy of the current state.
func (s *GraphStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *GraphStore) Nodes() map[string]Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Node, len(s.state.Nodes))
	for id, n := range s.state.Nodes {
		out[id] = n.clone()
	}
	return out
}

func (s *GraphStore) Edges() map[string]Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Edge, len(s.state.Edges))
	for id, e := range s.state.Edges {
		out[id] = e
	}
	return out
}

func (s *GraphStore) Layouts() Layouts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Layouts{Nodes: make(map[string]Position, len(s.state.Layouts.Nodes))}
	for id, p := range s.state.Layouts.Nodes {
		out.Nodes[id] = p
	}
	return out
}

func (s *GraphStore) Configs() Configs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Configs
}

func (s *GraphStore) Node(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.state.Nodes[id]
	return n.clone(), ok
}

func (s *GraphStore) Edge(id string) (Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.state.Edges[id]
	return e, ok
}

// Position returns the layout entry of a node. A missing entry is not an error;
// renderers usually place such nodes at the origin.
func (s *GraphStore) Position(id string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.Layouts.Nodes[id]
	return p, ok
}

// SetNode inserts or replaces the node with the given ID.
func (s *GraphStore) SetNode(id string, n Node) {
	n = n.clone()
	if n.Outputs == nil {
		n.Outputs = []string{}
	}
	s.mu.Lock()
	s.state.Nodes[id] = n
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeNode, ID: id})
}

// AddNode inserts n under a generated ID and places it at pos.
// Returns the new node ID.
func (s *GraphStore) AddNode(n Node, pos Position) string {
	id := uuid.NewString()
	s.SetNode(id, n)
	s.SetPosition(id, pos)
	return id
}

// RemoveNode deletes a node together with its layout entry and every edge touching it.
// Edge removals are published first in ID order, then the layout removal, then the node.
// Returns ErrNodeNotFound if the node doesn't exist.
func (s *GraphStore) RemoveNode(id string) error {
	s.mu.Lock()
	if _, ok := s.state.Nodes[id]; !ok {
		s.mu.Unlock()
		return ErrNodeNotFound
	}
	delete(s.state.Nodes, id)
	_, placed := s.state.Layouts.Nodes[id]
	delete(s.state.Layouts.Nodes, id)

	var removed []string
	for _, eid := range sortedKeys(s.state.Edges) {
		if e := s.state.Edges[eid]; e.Source == id || e.Target == id {
			delete(s.state.Edges, eid)
			removed = append(removed, eid)
		}
	}
	s.mu.Unlock()

	for _, eid := range removed {
		s.publish(Change{Kind: ChangeEdgeRemoved, ID: eid})
	}
	if placed {
		s.publish(Change{Kind: ChangeLayoutRemoved, ID: id})
	}
	s.publish(Change{Kind: ChangeNodeRemoved, ID: id})
	return nil
}

// SetEdge inserts or replaces the edge with the given ID.
// Endpoints are not checked against the node set.
func (s *GraphStore) SetEdge(id string, e Edge) {
	s.mu.Lock()
	s.state.Edges[id] = e
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeEdge, ID: id})
}

// AddEdge inserts e under a generated ID and returns it.
func (s *GraphStore) AddEdge(e Edge) string {
	id := uuid.NewString()
	s.SetEdge(id, e)
	return id
}

// RemoveEdge deletes an edge. Returns ErrEdgeNotFound if the edge doesn't exist.
func (s *GraphStore) RemoveEdge(id string) error {
	s.mu.Lock()
	if _, ok := s.state.Edges[id]; !ok {
		s.mu.Unlock()
		return ErrEdgeNotFound
	}
	delete(s.state.Edges, id)
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeEdgeRemoved, ID: id})
	return nil
}

// SetPosition moves a node. The node does not have to exist.
// NaN or infinite coordinates are accepted here but cannot be saved; Validate reports them.
func (s *GraphStore) SetPosition(id string, p Position) {
	s.mu.Lock()
	s.state.Layouts.Nodes[id] = p
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeLayout, ID: id})
}

// RemovePosition drops the layout entry of a node. No error if there is none.
func (s *GraphStore) RemovePosition(id string) {
	s.mu.Lock()
	delete(s.state.Layouts.Nodes, id)
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeLayoutRemoved, ID: id})
}

// SetConfigs replaces the canvas configuration.
func (s *GraphStore) SetConfigs(c Configs) {
	s.mu.Lock()
	s.state.Configs = c
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeConfigs})
}

// UpdateConfigs applies fn to the canvas configuration under the store's lock.
// fn must not call back into the store.
func (s *GraphStore) UpdateConfigs(fn func(*Configs)) {
	s.mu.Lock()
	fn(&s.state.Configs)
	s.mu.Unlock()

	s.publish(Change{Kind: ChangeConfigs})
}

// Validate checks the current state; see Snapshot.Validate.
func (s *GraphStore) Validate() error {
	snap := s.Snapshot()
	return snap.Validate()
}

// Subscribe registers fn for every subsequent change. The returned func unregisters it.
func (s *GraphStore) Subscribe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observerEntry{id: id, fn: fn})
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *GraphStore) publish(c Change) {
	s.obsMu.Lock()
	observers := make([]observerEntry, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.Unlock()

	for _, o := range observers {
		o.fn(c)
	}
}
