package hashlife

import (
	"fmt"
	"time"
)

// CollectStats contains statistics from one collection run.
type CollectStats struct {
	Live         int           // nodes that survived
	Swept        int           // nodes removed and returned to the free list
	MemosCleared int           // surviving cache slots that pointed at swept nodes
	Duration     time.Duration // wall time of the run
}

// Pin records an external reference to id. Pinned nodes, their descendants
// and the all-dead cache survive every Collect.
func (s *Store) Pin(id NodeID) {
	s.entry(id).pins++
}

// Unpin releases one reference taken with Pin.
func (s *Store) Unpin(id NodeID) error {
	e := s.entry(id)
	if e.pins == 0 {
		return fmt.Errorf("%w: %d", ErrNotPinned, id)
	}
	e.pins--
	return nil
}

// Pins returns the number of outstanding pins on id.
func (s *Store) Pins(id NodeID) int {
	return s.entry(id).pins
}

// MaybeCollect runs Collect when a collect threshold is configured and the
// store has grown past it. It reports whether a collection ran.
func (s *Store) MaybeCollect() (CollectStats, bool) {
	if s.collectThreshold <= 0 || s.Len() <= s.collectThreshold {
		return CollectStats{}, false
	}
	return s.Collect(), true
}

// Collect removes every node that cannot be reached from a pinned node or the
// all-dead cache. Handles to removed nodes become invalid for good; their slots
// are reused by later nodes under new handles. Forward cache slots that pointed
// at removed nodes are emptied; all other cached results are kept.
func (s *Store) Collect() CollectStats {
	start := time.Now()
	marked := make([]bool, len(s.nodes))

	var stack []NodeID
	for slot := 1; slot < len(s.nodes); slot++ {
		if e := &s.nodes[slot]; e.inUse && e.pins > 0 {
			stack = append(stack, makeID(uint32(slot), e.gen))
		}
	}
	stack = append(stack, s.zeros...)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if marked[id.slot()] {
			continue
		}
		marked[id.slot()] = true
		if e := &s.nodes[id.slot()]; e.level > 1 {
			for _, c := range e.child {
				if !marked[c.slot()] {
					stack = append(stack, c)
				}
			}
		}
	}

	var stats CollectStats
	for slot := 1; slot < len(s.nodes); slot++ {
		e := &s.nodes[slot]
		if !e.inUse {
			continue
		}
		if !marked[slot] {
			delete(s.table, key{level: e.level, child: e.child, bits: e.bits})
			*e = entry{gen: e.gen + 1}
			s.free = append(s.free, uint32(slot))
			stats.Swept++
			continue
		}
		stats.Live++
	}
	for slot := 1; slot < len(s.nodes); slot++ {
		e := &s.nodes[slot]
		if e.inUse && e.nextLevel != 0 && !marked[e.next.slot()] {
			e.next, e.nextLevel = 0, 0
			stats.MemosCleared++
		}
	}

	stats.Duration = time.Since(start)
	s.stats.Collections++
	s.stats.Swept += uint64(stats.Swept)
	recordCollect(stats)
	s.logger.Debug("collected",
		"live", stats.Live,
		"swept", stats.Swept,
		"memos_cleared", stats.MemosCleared,
		"duration", stats.Duration)
	return stats
}
