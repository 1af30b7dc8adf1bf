package hashlife

import (
	"fmt"
	"log/slog"
	"math"
)

// StoreOptions configures a Store. The zero value is valid.
type StoreOptions struct {
	// Logger receives debug records for iteration and collection.
	// Default: nil (discard)
	Logger *slog.Logger

	// CollectThreshold enables automatic collection in World.Iterate once the
	// number of live nodes exceeds it.
	// Default: 0 (never collect; the store only grows)
	CollectThreshold int

	// InitialCapacity preallocates arena slots and intern table buckets.
	// Default: 0 (grow on demand)
	InitialCapacity int
}

// StoreStats contains counters describing a Store.
type StoreStats struct {
	Nodes        int    // live canonical nodes
	FreeSlots    int    // collected slots waiting for reuse
	ZeroLevels   int    // levels present in the all-dead cache
	InternHits   uint64 // intern requests answered by an existing node
	InternMisses uint64 // intern requests that created a node
	MemoHits     uint64 // Forward calls answered by a node's cache slot
	MemoMisses   uint64 // Forward calls that had to compute
	Collections  uint64 // completed Collect runs
	Swept        uint64 // nodes removed by all Collect runs
}

// key is the interned content of a node. Children are compared by handle, so
// hashing a key never looks below one level.
type key struct {
	level int
	child [4]NodeID
	bits  uint8
}

// Store owns every canonical node. A Store is not safe for concurrent use;
// one goroutine should own a Store and every World built on it.
type Store struct {
	logger *slog.Logger

	nodes []entry // arena; index 0 is reserved
	table map[key]NodeID
	free  []uint32 // slots waiting for reuse
	zeros []NodeID // zeros[l-1] is Zero(l)

	collectThreshold int
	stats            StoreStats
}

// NewStore creates an empty Store.
func NewStore(options StoreOptions) *Store {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	capacity := options.InitialCapacity
	if capacity < 0 {
		capacity = 0
	}
	s := &Store{
		logger:           logger,
		nodes:            make([]entry, 1, capacity+1),
		table:            make(map[key]NodeID, capacity),
		collectThreshold: options.CollectThreshold,
	}
	return s
}

// intern returns the canonical node for k, creating it if needed.
// The candidate content lives on the stack until a slot is actually required.
func (s *Store) intern(k key) NodeID {
	if id, ok := s.table[k]; ok {
		s.stats.InternHits++
		return id
	}
	s.stats.InternMisses++

	e := entry{level: k.level, child: k.child, bits: k.bits, inUse: true}
	var slot uint32
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
		e.gen = s.nodes[slot].gen
		s.nodes[slot] = e
	} else {
		if uint64(len(s.nodes)) > math.MaxUint32 {
			panic("hashlife: node arena is full")
		}
		slot = uint32(len(s.nodes))
		s.nodes = append(s.nodes, e)
	}
	id := makeID(slot, e.gen)
	s.table[k] = id
	return id
}

// leaf interns a level-1 node from a bit mask indexed by Quadrant.
func (s *Store) leaf(bits uint8) NodeID {
	return s.intern(key{level: 1, bits: bits & 0xf})
}

// join interns a node above level 1. Children are trusted to be at level-1.
func (s *Store) join(level int, nw, ne, sw, se NodeID) NodeID {
	return s.intern(key{level: level, child: [4]NodeID{nw, ne, sw, se}})
}

// Leaf returns the canonical level-1 node with the given cells.
func (s *Store) Leaf(nw, ne, sw, se bool) NodeID {
	var bits uint8
	for q, live := range [4]bool{nw, ne, sw, se} {
		if live {
			bits |= 1 << uint(q)
		}
	}
	return s.leaf(bits)
}

// Join returns the canonical node whose quadrants are the given nodes.
// All four must share one level; the result is one level higher.
func (s *Store) Join(nw, ne, sw, se NodeID) (NodeID, error) {
	level := s.entry(nw).level
	for _, c := range [3]NodeID{ne, sw, se} {
		if l := s.entry(c).level; l != level {
			return 0, fmt.Errorf("%w: join of levels %d and %d", ErrLevelMismatch, level, l)
		}
	}
	return s.join(level+1, nw, ne, sw, se), nil
}

// Zero returns the canonical all-dead node of the given level (>= 1).
func (s *Store) Zero(level int) NodeID {
	if level < 1 {
		panic(fmt.Sprintf("hashlife: zero node level %d", level))
	}
	if len(s.zeros) == 0 {
		s.zeros = append(s.zeros, s.leaf(0))
	}
	for len(s.zeros) < level {
		back := s.zeros[len(s.zeros)-1]
		s.zeros = append(s.zeros, s.join(len(s.zeros)+1, back, back, back, back))
	}
	return s.zeros[level-1]
}

// IsZero reports whether id is the all-dead node of its level.
func (s *Store) IsZero(id NodeID) bool {
	return s.Zero(s.entry(id).level) == id
}

// Get returns a snapshot of the node's content.
func (s *Store) Get(id NodeID) Node {
	e := s.entry(id)
	return Node{id: id, level: e.level, child: e.child, bits: e.bits}
}

// Level returns the node's level.
func (s *Store) Level(id NodeID) int {
	return s.entry(id).level
}

// Len returns the number of live canonical nodes.
func (s *Store) Len() int {
	return len(s.nodes) - 1 - len(s.free)
}

// Stats returns a copy of the store's counters.
func (s *Store) Stats() StoreStats {
	stats := s.stats
	stats.Nodes = s.Len()
	stats.FreeSlots = len(s.free)
	stats.ZeroLevels = len(s.zeros)
	return stats
}

// Valid reports whether id refers to a live node of this store. Handles of
// collected nodes stay invalid even after their slot is reused.
func (s *Store) Valid(id NodeID) bool {
	slot := id.slot()
	if slot == 0 || int(slot) >= len(s.nodes) {
		return false
	}
	e := &s.nodes[slot]
	return e.inUse && e.gen == id.gen()
}

// entry returns the arena slot for id. The pointer is only good until the next
// intern, which may grow the arena.
func (s *Store) entry(id NodeID) *entry {
	if !s.Valid(id) {
		panic(fmt.Errorf("%w: %d", ErrInvalidNode, id))
	}
	return &s.nodes[id.slot()]
}
