// Package hashlife computes Conway's Game of Life on an unbounded board using
// hash-consed quadtrees and memoized recursive stepping (HashLife).
package hashlife

import "errors"

// Structure errors
var (
	// ErrLevelMismatch indicates that the four children of a node, or the two or
	// four operands of a merge, are not all at the same level.
	ErrLevelMismatch = errors.New("node level mismatch")

	// ErrInvalidNode indicates a handle that was never issued by the store or
	// whose node has since been collected.
	ErrInvalidNode = errors.New("invalid node handle")

	// ErrNotALeaf indicates that a leaf-only helper was called on a node above level 1.
	ErrNotALeaf = errors.New("expected level-1 node")

	// ErrIsLeaf indicates a request for the children of a level-1 node.
	ErrIsLeaf = errors.New("level-1 node has no children")

	// ErrLevelTooLarge indicates that a node is too large for its coordinates
	// to be represented as int64 values.
	ErrLevelTooLarge = errors.New("node level too large")
)

// Stepping errors
var (
	// ErrLeafForward indicates that Forward was called on a level-1 node, which
	// has no inner core.
	ErrLeafForward = errors.New("cannot step a level-1 node")

	// ErrTargetLevel indicates a Forward target level above the node's own level.
	ErrTargetLevel = errors.New("target level exceeds node level")
)

// Collection errors
var (
	// ErrNotPinned indicates an Unpin of a node that holds no pins.
	ErrNotPinned = errors.New("node is not pinned")
)
