package hashlife

import (
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"time"

	"github.com/google/uuid"
)

// MaxDrawLevel is the largest node level whose cells Draw can address with
// int64 coordinates.
const MaxDrawLevel = 62

// Cell is an absolute board coordinate. North is +Y.
type Cell struct {
	X, Y int64
}

// Bounds is an inclusive axis-aligned rectangle of cells.
type Bounds struct {
	MinX, MaxX int64
	MinY, MaxY int64
}

// Contains reports whether c lies inside b.
func (b Bounds) Contains(c Cell) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

// Empty reports whether b contains no cells.
func (b Bounds) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Shift returns b translated by (dx, dy).
func (b Bounds) Shift(dx, dy int64) Bounds {
	return Bounds{MinX: b.MinX + dx, MaxX: b.MaxX + dx, MinY: b.MinY + dy, MaxY: b.MaxY + dy}
}

// View returns the bounds of a width x height viewport centered on (x, y).
func View(x, y, width, height int64) Bounds {
	return Bounds{
		MinX: x - width/2,
		MaxX: x - width/2 + width - 1,
		MinY: y - height/2,
		MaxY: y - height/2 + height - 1,
	}
}

// centerOf returns the local origin for a run of span+1 cells starting at
// lo: one past the floored midpoint, or the midpoint itself at math.MaxInt64.
// Either choice fits the level FillNode picks.
func centerOf(lo int64, span uint64) int64 {
	mid := lo + int64(span/2)
	if mid == math.MaxInt64 {
		return mid
	}
	return mid + 1
}

// toLocal returns v - origin clamped to +/-drawLimit. The subtraction is
// checked, so any pair of int64 values gives the right clamped result.
func toLocal(v, origin int64) int64 {
	d := v - origin
	if (v >= 0) != (origin >= 0) && (d >= 0) != (v >= 0) {
		if v >= 0 {
			return drawLimit
		}
		return -drawLimit
	}
	return max(-drawLimit, min(drawLimit, d))
}

// addSat returns a + b saturated to the int64 range.
func addSat(a, b int64) int64 {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt64
	case b < 0 && sum > a:
		return math.MinInt64
	}
	return sum
}

// FillNode builds the node holding exactly the given live cells. It also
// returns the absolute coordinate of the node's local (0, 0), the cell just
// north-east of its center. Duplicate cells are ignored. An empty input gives
// Zero(1) with origin (0, 0). FillNode panics with ErrLevelTooLarge when the
// cells span more than 2^(MaxDrawLevel-1) in either direction.
//
// Any int64 coordinates are accepted. Local coordinates are small, so the
// conversions to and from them are exact in wrapping int64 arithmetic.
func (s *Store) FillNode(cells []Cell) (NodeID, Cell) {
	if len(cells) == 0 {
		return s.Zero(1), Cell{}
	}
	minX, maxX := cells[0].X, cells[0].X
	minY, maxY := cells[0].Y, cells[0].Y
	for _, c := range cells[1:] {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	// Spans minus one, exact for any int64 bounds.
	spanX := uint64(maxX - minX)
	spanY := uint64(maxY - minY)
	// ceil(log2(extent)) + 1
	level := bits.Len64(max(spanX, spanY)) + 1
	if level > MaxDrawLevel {
		panic(fmt.Errorf("%w: pattern needs level %d", ErrLevelTooLarge, level))
	}

	origin := Cell{X: centerOf(minX, spanX), Y: centerOf(minY, spanY)}
	local := make([]Cell, len(cells))
	for i, c := range cells {
		local[i] = Cell{X: c.X - origin.X, Y: c.Y - origin.Y}
	}
	root := s.fill(level, local)
	return s.Compact(root), origin
}

// fill builds a level node from cells given in its local coordinates, all of
// which lie inside it.
func (s *Store) fill(level int, cells []Cell) NodeID {
	if len(cells) == 0 {
		return s.Zero(level)
	}
	if level == 1 {
		var b uint8
		for _, c := range cells {
			b |= 1 << uint(quadrantOf(c))
		}
		return s.leaf(b)
	}
	var parts [4][]Cell
	q := int64(1) << uint(level-2)
	for _, c := range cells {
		quad := quadrantOf(c)
		dx, dy := quadrantOffset(quad, q)
		parts[quad] = append(parts[quad], Cell{X: c.X - dx, Y: c.Y - dy})
	}
	return s.join(level,
		s.fill(level-1, parts[NW]),
		s.fill(level-1, parts[NE]),
		s.fill(level-1, parts[SW]),
		s.fill(level-1, parts[SE]))
}

// quadrantOf returns the quadrant holding local cell c.
func quadrantOf(c Cell) Quadrant {
	switch {
	case c.X < 0 && c.Y >= 0:
		return NW
	case c.Y >= 0:
		return NE
	case c.X < 0:
		return SW
	default:
		return SE
	}
}

// quadrantOffset returns where quadrant q's local origin sits in its parent's
// coordinates, for a parent whose children have half-size q.
func quadrantOffset(quad Quadrant, q int64) (int64, int64) {
	switch quad {
	case NW:
		return -q, q
	case NE:
		return q, q
	case SW:
		return -q, -q
	default:
		return q, -q
	}
}

// Draw calls emit for every live cell of id inside bounds, in local
// coordinates where the cell just north-east of the node's center is (0, 0).
// Each cell is emitted once; the order is fixed for a given node and bounds.
func (s *Store) Draw(id NodeID, bounds Bounds, emit func(Cell)) error {
	return s.drawAt(id, bounds, Cell{}, emit)
}

func (s *Store) drawAt(id NodeID, bounds Bounds, offset Cell, emit func(Cell)) error {
	if level := s.entry(id).level; level > MaxDrawLevel {
		return fmt.Errorf("%w: draw of level %d", ErrLevelTooLarge, level)
	}
	if bounds.Empty() {
		return nil
	}
	s.draw(id, bounds.clamp(), offset, emit)
	return nil
}

// drawLimit bounds query rectangles so the shifts applied while descending
// cannot overflow.
const drawLimit = int64(1) << MaxDrawLevel

func (b Bounds) clamp() Bounds {
	c := func(v int64) int64 { return max(-drawLimit, min(drawLimit, v)) }
	return Bounds{MinX: c(b.MinX), MaxX: c(b.MaxX), MinY: c(b.MinY), MaxY: c(b.MaxY)}
}

// draw descends into every non-empty quadrant that meets bounds. bounds are
// relative to the current node; offset converts back to the caller's frame.
func (s *Store) draw(id NodeID, bounds Bounds, offset Cell, emit func(Cell)) {
	e := s.nodes[id.slot()]
	if s.IsZero(id) {
		return
	}
	half := int64(1) << uint(e.level-1)
	if bounds.MaxX < -half || bounds.MinX >= half || bounds.MaxY < -half || bounds.MinY >= half {
		return
	}
	if e.level == 1 {
		for _, q := range [4]Quadrant{NW, NE, SW, SE} {
			if e.bits>>uint(q)&1 == 0 {
				continue
			}
			c := Cell{X: -1, Y: 0}
			switch q {
			case NE:
				c = Cell{X: 0, Y: 0}
			case SW:
				c = Cell{X: -1, Y: -1}
			case SE:
				c = Cell{X: 0, Y: -1}
			}
			if bounds.Contains(c) {
				emit(Cell{X: c.X + offset.X, Y: c.Y + offset.Y})
			}
		}
		return
	}
	q := half >> 1
	for i, child := range e.child {
		dx, dy := quadrantOffset(Quadrant(i), q)
		s.draw(child, bounds.Shift(-dx, -dy), Cell{X: offset.X + dx, Y: offset.Y + dy}, emit)
	}
}

// World is a board advanced through time. Its root node is replaced, never
// changed, on every Iterate. A World belongs to the goroutine that owns its Store.
type World struct {
	id     uuid.UUID
	store  *Store
	logger *slog.Logger

	root       NodeID
	origin     Cell // absolute coordinate of the root's local (0, 0)
	generation uint64
}

// NewWorld creates a World whose live cells are exactly cells.
func NewWorld(store *Store, cells []Cell) *World {
	root, origin := store.FillNode(cells)
	w := &World{
		id:     uuid.New(),
		store:  store,
		root:   root,
		origin: origin,
	}
	w.logger = store.logger.With("world", w.id.String())
	store.Pin(root)
	w.logger.Debug("world created",
		"cells", len(cells),
		"level", store.Level(root),
		"origin_x", origin.X,
		"origin_y", origin.Y)
	return w
}

// ID returns the world's session identifier.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Store returns the store that owns the world's nodes.
func (w *World) Store() *Store {
	return w.store
}

// Root returns the current root node.
func (w *World) Root() NodeID {
	return w.root
}

// Origin returns the absolute coordinate of the root's local (0, 0).
func (w *World) Origin() Cell {
	return w.origin
}

// Generation returns the number of generations advanced so far.
func (w *World) Generation() uint64 {
	return w.generation
}

// Iterate advances the world by n generations.
func (w *World) Iterate(n uint64) {
	start := time.Now()
	before := w.store.Stats()

	old := w.root
	w.root = w.store.ForwardN(old, n)
	w.store.Pin(w.root)
	if err := w.store.Unpin(old); err != nil {
		panic(err)
	}
	w.generation += n

	collected, ran := w.store.MaybeCollect()
	elapsed := time.Since(start)
	after := w.store.Stats()
	recordIterate(n, elapsed, before, after)
	w.logger.Debug("iterated",
		"generations", n,
		"generation", w.generation,
		"level", w.store.Level(w.root),
		"nodes", after.Nodes,
		"collected", ran,
		"swept", collected.Swept,
		"duration", elapsed)
}

// Bounds returns the absolute region covered by the root node, clipped to the
// int64 range. Every live cell with int64 coordinates lies inside it. A root
// above MaxDrawLevel gives ErrLevelTooLarge.
func (w *World) Bounds() (Bounds, error) {
	level := w.store.Level(w.root)
	if level > MaxDrawLevel {
		return Bounds{}, fmt.Errorf("%w: bounds of level %d", ErrLevelTooLarge, level)
	}
	half := int64(1) << uint(level-1)
	return Bounds{
		MinX: addSat(w.origin.X, -half),
		MaxX: addSat(w.origin.X, half-1),
		MinY: addSat(w.origin.Y, -half),
		MaxY: addSat(w.origin.Y, half-1),
	}, nil
}

// Draw calls emit with the absolute coordinate of every live cell inside bounds.
func (w *World) Draw(bounds Bounds, emit func(Cell)) error {
	if bounds.Empty() {
		return nil
	}
	local := Bounds{
		MinX: toLocal(bounds.MinX, w.origin.X),
		MaxX: toLocal(bounds.MaxX, w.origin.X),
		MinY: toLocal(bounds.MinY, w.origin.Y),
		MaxY: toLocal(bounds.MaxY, w.origin.Y),
	}
	return w.store.drawAt(w.root, local, w.origin, emit)
}

// Cells returns the live cells inside bounds in Draw order.
func (w *World) Cells(bounds Bounds) ([]Cell, error) {
	var cells []Cell
	err := w.Draw(bounds, func(c Cell) {
		cells = append(cells, c)
	})
	return cells, err
}

// Population returns the number of live cells on the board.
func (w *World) Population() uint64 {
	return w.store.Population(w.root)
}

// Close releases the world's hold on its root so a collection may reclaim it.
// The world must not be used afterwards.
func (w *World) Close() error {
	if w.root == 0 {
		return nil
	}
	err := w.store.Unpin(w.root)
	w.root = 0
	return err
}
