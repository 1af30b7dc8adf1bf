package hashlife

import (
	"errors"
	"math/rand/v2"
	"sort"
	"testing"
)

// bruteStep applies B3/S23 once to an explicit set of live cells.
func bruteStep(live map[Cell]bool) map[Cell]bool {
	neighbors := make(map[Cell]int)
	for c := range live {
		for dy := int64(-1); dy <= 1; dy++ {
			for dx := int64(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				neighbors[Cell{X: c.X + dx, Y: c.Y + dy}]++
			}
		}
	}
	next := make(map[Cell]bool)
	for c, n := range neighbors {
		if n == 3 || (n == 2 && live[c]) {
			next[c] = true
		}
	}
	return next
}

// bruteRun advances cells by n generations the slow way.
func bruteRun(cells []Cell, n int) []Cell {
	live := make(map[Cell]bool, len(cells))
	for _, c := range cells {
		live[c] = true
	}
	for i := 0; i < n; i++ {
		live = bruteStep(live)
	}
	return sortedCells(live)
}

func sortedCells(set map[Cell]bool) []Cell {
	out := make([]Cell, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sortCells(out)
	return out
}

func sortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}

// within keeps the cells inside b.
func within(cells []Cell, b Bounds) []Cell {
	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		if b.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// worldCells returns every live cell of w, sorted.
func worldCells(t *testing.T, w *World) []Cell {
	t.Helper()
	bounds, err := w.Bounds()
	if err != nil {
		t.Fatalf("Bounds() error: %v", err)
	}
	cells, err := w.Cells(bounds)
	if err != nil {
		t.Fatalf("Cells() error: %v", err)
	}
	sortCells(cells)
	if cells == nil {
		cells = []Cell{}
	}
	return cells
}

// nodeCells returns every live cell of id in local coordinates, sorted.
func nodeCells(t *testing.T, s *Store, id NodeID) []Cell {
	t.Helper()
	half := int64(1) << uint(s.Level(id)-1)
	cells := []Cell{}
	err := s.Draw(id, Bounds{MinX: -half, MaxX: half - 1, MinY: -half, MaxY: half - 1}, func(c Cell) {
		cells = append(cells, c)
	})
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	sortCells(cells)
	return cells
}

// randomCells returns count cells scattered over a size x size square
// starting at (x0, y0).
func randomCells(rng *rand.Rand, count int, x0, y0, size int64) []Cell {
	cells := make([]Cell, count)
	for i := range cells {
		cells[i] = Cell{X: x0 + rng.Int64N(size), Y: y0 + rng.Int64N(size)}
	}
	return cells
}

func dedupe(cells []Cell) []Cell {
	set := make(map[Cell]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}
	return sortedCells(set)
}

// mustPanicWith runs fn and checks that it panics with an error wrapping target.
func mustPanicWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("panic value %v does not wrap %v", r, target)
		}
	}()
	fn()
}

var (
	block   = []Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	blinker = []Cell{{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}}
	glider  = []Cell{{X: 1, Y: 0}, {X: 2, Y: -1}, {X: 0, Y: -2}, {X: 1, Y: -2}, {X: 2, Y: -2}}
	rpent   = []Cell{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: -1}}
	acorn   = []Cell{{X: 0, Y: 1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: 3, Y: 0}, {X: 4, Y: 1}, {X: 5, Y: 1}, {X: 6, Y: 1}}
)
