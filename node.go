package hashlife

import "fmt"

// NodeID identifies a canonical node within a Store. Two handles from the same
// store are equal exactly when the squares they represent are equal.
// The zero NodeID is never issued.
//
// The low 32 bits select an arena slot and the high 32 bits carry the slot's
// generation, which changes every time a collection frees the slot.
type NodeID uint64

func makeID(slot, gen uint32) NodeID {
	return NodeID(gen)<<32 | NodeID(slot)
}

func (id NodeID) slot() uint32 {
	return uint32(id)
}

func (id NodeID) gen() uint32 {
	return uint32(id >> 32)
}

// Quadrant names one of the four children of a node. The numeric values are
// the leaf position indexes used by Raw and Sum.
type Quadrant int

const (
	// NW is the north-west (upper left) quadrant.
	NW Quadrant = iota

	// NE is the north-east (upper right) quadrant.
	NE

	// SW is the south-west (lower left) quadrant.
	SW

	// SE is the south-east (lower right) quadrant.
	SE
)

func (q Quadrant) String() string {
	switch q {
	case NW:
		return "nw"
	case NE:
		return "ne"
	case SW:
		return "sw"
	case SE:
		return "se"
	default:
		return fmt.Sprintf("Quadrant(%d)", int(q))
	}
}

// entry is an arena slot. Entries are only ever created by Store.intern.
type entry struct {
	level int

	// For level > 1: child handles indexed by Quadrant.
	child [4]NodeID

	// For level == 1: bit q set means quadrant q is live.
	bits uint8

	// Single-slot forward cache. nextLevel == 0 means the slot is empty.
	next      NodeID
	nextLevel int

	// pins counts external references held through Store.Pin.
	pins int

	// inUse is false for slots sitting on the free list.
	inUse bool

	// gen is the slot's generation; handles carry it in their high bits.
	gen uint32
}

// Node is a read-only snapshot of a canonical node's content.
type Node struct {
	id    NodeID
	level int
	child [4]NodeID
	bits  uint8
}

// ID returns the node's handle.
func (n Node) ID() NodeID {
	return n.id
}

// Level returns the node's size class; the node covers 2^Level x 2^Level cells.
func (n Node) Level() int {
	return n.level
}

// IsLeaf returns true for level-1 nodes, whose quadrants are single cells.
func (n Node) IsLeaf() bool {
	return n.level == 1
}

// Child returns the handle of quadrant q. Only valid above level 1.
func (n Node) Child(q Quadrant) NodeID {
	if n.level == 1 {
		panic(fmt.Errorf("%w: Child on node %d", ErrIsLeaf, n.id))
	}
	return n.child[q]
}

// Live reports whether cell q of a level-1 node is live.
func (n Node) Live(q Quadrant) bool {
	return n.Raw(q) == 1
}

// Raw returns cell q of a level-1 node as 0 or 1.
func (n Node) Raw(q Quadrant) int {
	n.mustLeaf()
	if q < NW || q > SE {
		panic(fmt.Sprintf("hashlife: leaf index %d out of range", int(q)))
	}
	return int(n.bits>>uint(q)) & 1
}

// Sum counts the live cells of a level-1 node, not counting cell skip.
func (n Node) Sum(skip Quadrant) int {
	return n.Raw(NW) + n.Raw(NE) + n.Raw(SW) + n.Raw(SE) - n.Raw(skip)
}

// SumLeft counts the live cells in the west column of a level-1 node.
func (n Node) SumLeft() int {
	return n.Raw(NW) + n.Raw(SW)
}

// SumTop counts the live cells in the north row of a level-1 node.
func (n Node) SumTop() int {
	return n.Raw(NW) + n.Raw(NE)
}

// SumRight counts the live cells in the east column of a level-1 node.
func (n Node) SumRight() int {
	return n.Raw(NE) + n.Raw(SE)
}

// SumBottom counts the live cells in the south row of a level-1 node.
func (n Node) SumBottom() int {
	return n.Raw(SW) + n.Raw(SE)
}

func (n Node) mustLeaf() {
	if n.level != 1 {
		panic(fmt.Errorf("%w: node %d has level %d", ErrNotALeaf, n.id, n.level))
	}
}

// String formats small nodes for debugging. Deep nodes print only their handles.
func (n Node) String() string {
	if n.level == 1 {
		return fmt.Sprintf("(1 %d%d/%d%d)", n.Raw(NW), n.Raw(NE), n.Raw(SW), n.Raw(SE))
	}
	return fmt.Sprintf("(%d %d %d %d %d)", n.level, n.child[NW], n.child[NE], n.child[SW], n.child[SE])
}
