package hashlife

import (
	"fmt"
	"math/bits"
)

// quarter names quadrant q of node id. New nodes are assembled from the
// quarters of existing same-level nodes.
type quarter struct {
	id NodeID
	q  Quadrant
}

// inner returns the quadrant of a child that touches the center of its parent.
func (q Quadrant) inner() Quadrant {
	return SE - q
}

// assemble interns a node at the level of its sources whose quadrants are the
// given quarters. For level-1 sources the quarters are single cells.
func (s *Store) assemble(nw, ne, sw, se quarter) NodeID {
	parts := [4]quarter{nw, ne, sw, se}
	level := s.nodes[nw.id.slot()].level
	if level == 1 {
		var b uint8
		for i, p := range parts {
			b |= (s.nodes[p.id.slot()].bits >> uint(p.q) & 1) << uint(i)
		}
		return s.leaf(b)
	}
	var c [4]NodeID
	for i, p := range parts {
		c[i] = s.nodes[p.id.slot()].child[p.q]
	}
	return s.join(level, c[NW], c[NE], c[SW], c[SE])
}

func (s *Store) mergeHorizontal(l, r NodeID) NodeID {
	return s.assemble(quarter{l, NE}, quarter{r, NW}, quarter{l, SE}, quarter{r, SW})
}

func (s *Store) mergeVertical(t, b NodeID) NodeID {
	return s.assemble(quarter{t, SW}, quarter{t, SE}, quarter{b, NW}, quarter{b, NE})
}

func (s *Store) mergeCenter(nw, ne, sw, se NodeID) NodeID {
	return s.assemble(quarter{nw, SE}, quarter{ne, SW}, quarter{sw, NE}, quarter{se, NW})
}

// sameLevel checks that every id has the level of the first.
func (s *Store) sameLevel(op string, ids ...NodeID) error {
	level := s.entry(ids[0]).level
	for _, id := range ids[1:] {
		if l := s.entry(id).level; l != level {
			return fmt.Errorf("%w: %s of levels %d and %d", ErrLevelMismatch, op, level, l)
		}
	}
	return nil
}

// MergeHorizontal returns the node straddling the boundary between l and r,
// which sit side by side: (l.ne, r.nw, l.se, r.sw).
func (s *Store) MergeHorizontal(l, r NodeID) (NodeID, error) {
	if err := s.sameLevel("horizontal merge", l, r); err != nil {
		return 0, err
	}
	return s.mergeHorizontal(l, r), nil
}

// MergeVertical returns the node straddling the boundary between t above and
// b below: (t.sw, t.se, b.nw, b.ne).
func (s *Store) MergeVertical(t, b NodeID) (NodeID, error) {
	if err := s.sameLevel("vertical merge", t, b); err != nil {
		return 0, err
	}
	return s.mergeVertical(t, b), nil
}

// MergeCenter returns the node made of the corners that meet where the four
// nodes touch: (nw.se, ne.sw, sw.ne, se.nw).
func (s *Store) MergeCenter(nw, ne, sw, se NodeID) (NodeID, error) {
	if err := s.sameLevel("center merge", nw, ne, sw, se); err != nil {
		return 0, err
	}
	return s.mergeCenter(nw, ne, sw, se), nil
}

// Expand returns a node one level larger with id at its center and dead cells
// around it.
func (s *Store) Expand(id NodeID) NodeID {
	e := *s.entry(id)
	if e.level == 1 {
		bit := func(q Quadrant) uint8 { return e.bits >> uint(q) & 1 }
		return s.join(2,
			s.leaf(bit(NW)<<uint(SE)),
			s.leaf(bit(NE)<<uint(SW)),
			s.leaf(bit(SW)<<uint(NE)),
			s.leaf(bit(SE)<<uint(NW)))
	}
	z := s.Zero(e.level - 1)
	c := e.child
	return s.join(e.level+1,
		s.join(e.level, z, z, z, c[NW]),
		s.join(e.level, z, z, c[NE], z),
		s.join(e.level, z, c[SW], z, z),
		s.join(e.level, c[SE], z, z, z))
}

// Compact returns the smallest node, centered where id is centered, that
// still holds every live cell of id. The result is at least level 1.
func (s *Store) Compact(id NodeID) NodeID {
	cur := id
	for {
		e := *s.entry(cur)
		if e.level == 1 || !s.outerRingIsZero(e) {
			return cur
		}
		cur = s.mergeCenter(e.child[NW], e.child[NE], e.child[SW], e.child[SE])
	}
}

// outerRingIsZero reports whether the twelve grandchildren of e that face
// outward are all dead.
func (s *Store) outerRingIsZero(e entry) bool {
	if e.level == 2 {
		for q, c := range e.child {
			if s.nodes[c.slot()].bits&^(1<<uint(Quadrant(q).inner())) != 0 {
				return false
			}
		}
		return true
	}
	zero := s.Zero(e.level - 2)
	for q, c := range e.child {
		keep := Quadrant(q).inner()
		for g, gc := range s.nodes[c.slot()].child {
			if Quadrant(g) != keep && gc != zero {
				return false
			}
		}
	}
	return true
}

// Population returns the number of live cells in id.
func (s *Store) Population(id NodeID) uint64 {
	return s.population(id, make(map[NodeID]uint64))
}

func (s *Store) population(id NodeID, seen map[NodeID]uint64) uint64 {
	e := s.entry(id)
	if e.level == 1 {
		return uint64(bits.OnesCount8(e.bits))
	}
	if n, ok := seen[id]; ok {
		return n
	}
	if s.IsZero(id) {
		return 0
	}
	c := s.nodes[id.slot()].child
	var n uint64
	for _, child := range c {
		n += s.population(child, seen)
	}
	seen[id] = n
	return n
}
