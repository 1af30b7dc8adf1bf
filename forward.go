package hashlife

import "fmt"

// Forward returns the inner core of id advanced in time: a node one level
// smaller, covering the center of id, 2^(max(targetLevel,2)-2) generations
// later. A targetLevel of 0 or less selects id's own level, the largest step
// the node supports. Stepping is linear in the levels up to targetLevel and
// doubles at every level above it.
func (s *Store) Forward(id NodeID, targetLevel int) (NodeID, error) {
	level := s.entry(id).level
	if level == 1 {
		return 0, fmt.Errorf("%w: node %d", ErrLeafForward, id)
	}
	if targetLevel <= 0 {
		targetLevel = level
	}
	if targetLevel > level {
		return 0, fmt.Errorf("%w: target %d on level %d", ErrTargetLevel, targetLevel, level)
	}
	return s.forward(id, targetLevel), nil
}

// forward is Forward without validation. A target above the node's level is
// clamped to it, which is how the maximum-speed path reaches its children.
func (s *Store) forward(id NodeID, target int) NodeID {
	e := &s.nodes[id.slot()]
	level := e.level
	if target > level {
		target = level
	}
	if target < 2 {
		target = 2
	}
	if e.nextLevel == target {
		s.stats.MemoHits++
		return e.next
	}
	s.stats.MemoMisses++

	var result NodeID
	if level == 2 {
		result = s.step(e.child)
	} else {
		c := e.child
		n00 := s.forward(c[NW], target)
		n01 := s.forward(s.mergeHorizontal(c[NW], c[NE]), target)
		n02 := s.forward(c[NE], target)
		n10 := s.forward(s.mergeVertical(c[NW], c[SW]), target)
		n11 := s.forward(s.mergeCenter(c[NW], c[NE], c[SW], c[SE]), target)
		n12 := s.forward(s.mergeVertical(c[NE], c[SE]), target)
		n20 := s.forward(c[SW], target)
		n21 := s.forward(s.mergeHorizontal(c[SW], c[SE]), target)
		n22 := s.forward(c[SE], target)

		var nw, ne, sw, se NodeID
		if target < level {
			// One phase only: the nine results are already target generations
			// ahead, so their centers are the answer.
			nw = s.mergeCenter(n00, n01, n10, n11)
			ne = s.mergeCenter(n01, n02, n11, n12)
			sw = s.mergeCenter(n10, n11, n20, n21)
			se = s.mergeCenter(n11, n12, n21, n22)
		} else {
			sub := level - 1
			nw = s.forward(s.join(sub, n00, n01, n10, n11), sub)
			ne = s.forward(s.join(sub, n01, n02, n11, n12), sub)
			sw = s.forward(s.join(sub, n10, n11, n20, n21), sub)
			se = s.forward(s.join(sub, n11, n12, n21, n22), sub)
		}
		result = s.join(level-1, nw, ne, sw, se)
	}

	// The arena may have grown during recursion.
	e = &s.nodes[id.slot()]
	e.next = result
	e.nextLevel = target
	return result
}

// step applies B3/S23 once to the sixteen cells of a level-2 node given its
// four leaf children, returning the next state of the central four cells.
func (s *Store) step(c [4]NodeID) NodeID {
	nw, ne, sw, se := s.Get(c[NW]), s.Get(c[NE]), s.Get(c[SW]), s.Get(c[SE])

	countNW := nw.Sum(SE) + ne.SumLeft() + sw.SumTop() + se.Raw(NW)
	countNE := ne.Sum(SW) + nw.SumRight() + se.SumTop() + sw.Raw(NE)
	countSW := sw.Sum(NE) + se.SumLeft() + nw.SumBottom() + ne.Raw(SW)
	countSE := se.Sum(NW) + sw.SumRight() + ne.SumBottom() + nw.Raw(SE)

	return s.Leaf(
		rule(countNW, nw.Live(SE)),
		rule(countNE, ne.Live(SW)),
		rule(countSW, sw.Live(NE)),
		rule(countSE, se.Live(NW)))
}

// rule is B3/S23: birth on three neighbors, survival on two or three.
func rule(neighbors int, live bool) bool {
	return neighbors == 3 || (neighbors == 2 && live)
}

// ForwardN returns id advanced by exactly n generations. The working node is
// grown as needed so no live cell can run off its edge, and the result is
// compacted around the same center.
func (s *Store) ForwardN(id NodeID, n uint64) NodeID {
	cur := id
	s.entry(cur)
	for target := 2; n > 0; target++ {
		if n&1 == 1 {
			for s.nodes[cur.slot()].level < target-2 {
				cur = s.Expand(cur)
			}
			// Two extra levels keep everything that can move within the
			// stepped-forward center.
			cur = s.Expand(s.Expand(cur))
			cur = s.Compact(s.forward(cur, target))
		}
		n >>= 1
	}
	return s.Compact(cur)
}
