package hashlife

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandCentersNode(t *testing.T) {
	s := NewStore(StoreOptions{})

	for _, cells := range [][]Cell{block, blinker, glider, rpent, acorn} {
		id, _ := s.FillNode(cells)
		exp := s.Expand(id)
		assert.Equal(t, s.Level(id)+1, s.Level(exp))
		assert.Equal(t, nodeCells(t, s, id), nodeCells(t, s, exp), "Expand must not move cells")
	}
}

func TestExpandLeaf(t *testing.T) {
	s := NewStore(StoreOptions{})
	leaf := s.Leaf(true, false, false, true)
	exp := s.Expand(leaf)

	n := s.Get(exp)
	require.Equal(t, 2, n.Level())
	assert.Equal(t, s.Leaf(false, false, false, true), n.Child(NW))
	assert.Equal(t, s.Zero(1), n.Child(NE))
	assert.Equal(t, s.Zero(1), n.Child(SW))
	assert.Equal(t, s.Leaf(true, false, false, false), n.Child(SE))
}

func TestExpandQuadrants(t *testing.T) {
	s := NewStore(StoreOptions{})
	a := s.Leaf(true, false, false, false)
	b := s.Leaf(false, true, false, false)
	c := s.Leaf(false, false, true, false)
	d := s.Leaf(false, false, false, true)
	id, err := s.Join(a, b, c, d)
	require.NoError(t, err)

	n := s.Get(s.Expand(id))
	z := s.Zero(1)
	want := map[Quadrant][4]NodeID{
		NW: {z, z, z, a},
		NE: {z, z, b, z},
		SW: {z, c, z, z},
		SE: {d, z, z, z},
	}
	for q, children := range want {
		quad := s.Get(n.Child(q))
		for i, child := range children {
			assert.Equal(t, child, quad.Child(Quadrant(i)), "%v.%v", q, Quadrant(i))
		}
	}
}

func TestCompactExpandInverse(t *testing.T) {
	s := NewStore(StoreOptions{})
	rng := rand.New(rand.NewPCG(7, 11))

	patterns := [][]Cell{block, blinker, glider, rpent, acorn}
	for i := 0; i < 20; i++ {
		patterns = append(patterns, randomCells(rng, 1+rng.IntN(40), -20, -20, 40))
	}

	for i, cells := range patterns {
		id, _ := s.FillNode(cells)
		assert.Equal(t, id, s.Compact(id), "pattern %d: FillNode should already be compact", i)
		assert.Equal(t, id, s.Compact(s.Expand(id)), "pattern %d", i)
		assert.Equal(t, id, s.Compact(s.Expand(s.Expand(s.Expand(id)))), "pattern %d", i)
	}
}

func TestCompactStopsAtLevelOne(t *testing.T) {
	s := NewStore(StoreOptions{})
	assert.Equal(t, s.Zero(1), s.Compact(s.Zero(6)))

	leaf := s.Leaf(false, true, false, false)
	assert.Equal(t, leaf, s.Compact(leaf))
	assert.Equal(t, leaf, s.Compact(s.Expand(s.Expand(leaf))))
}

func TestCompactKeepsBoundaryCells(t *testing.T) {
	s := NewStore(StoreOptions{})
	// A single cell in the far north-west corner of a level-3 node.
	id := s.fill(3, []Cell{{X: -4, Y: 3}})
	assert.Equal(t, id, s.Compact(id))
	assert.Equal(t, 3, s.Level(s.Compact(id)))
}

func TestMerges(t *testing.T) {
	s := NewStore(StoreOptions{})
	// Two level-2 nodes whose children are all different leaves.
	leaves := make([]NodeID, 8)
	for i := range leaves {
		leaves[i] = s.Leaf(i&1 != 0, i&2 != 0, i&4 != 0, true)
	}
	l, err := s.Join(leaves[0], leaves[1], leaves[2], leaves[3])
	require.NoError(t, err)
	r, err := s.Join(leaves[4], leaves[5], leaves[6], leaves[7])
	require.NoError(t, err)

	h, err := s.MergeHorizontal(l, r)
	require.NoError(t, err)
	want, _ := s.Join(leaves[1], leaves[4], leaves[3], leaves[6])
	assert.Equal(t, want, h)

	v, err := s.MergeVertical(l, r)
	require.NoError(t, err)
	want, _ = s.Join(leaves[2], leaves[3], leaves[4], leaves[5])
	assert.Equal(t, want, v)

	c, err := s.MergeCenter(l, r, r, l)
	require.NoError(t, err)
	want, _ = s.Join(leaves[3], leaves[6], leaves[5], leaves[0])
	assert.Equal(t, want, c)
}

func TestMergeLeaves(t *testing.T) {
	s := NewStore(StoreOptions{})
	l := s.Leaf(false, true, false, true) // east column live
	r := s.Leaf(false, false, false, false)

	h, err := s.MergeHorizontal(l, r)
	require.NoError(t, err)
	assert.Equal(t, s.Leaf(true, false, true, false), h)

	v, err := s.MergeVertical(l, r)
	require.NoError(t, err)
	assert.Equal(t, s.Leaf(false, true, false, false), v)

	c, err := s.MergeCenter(r, r, l, r)
	require.NoError(t, err)
	assert.Equal(t, s.Leaf(false, false, true, false), c)
}

func TestMergeLevelMismatch(t *testing.T) {
	s := NewStore(StoreOptions{})
	one, two := s.Zero(1), s.Zero(2)

	_, err := s.MergeHorizontal(one, two)
	assert.ErrorIs(t, err, ErrLevelMismatch)
	_, err = s.MergeVertical(two, one)
	assert.ErrorIs(t, err, ErrLevelMismatch)
	_, err = s.MergeCenter(two, two, two, one)
	assert.ErrorIs(t, err, ErrLevelMismatch)
}

func TestPopulation(t *testing.T) {
	s := NewStore(StoreOptions{})
	assert.Equal(t, uint64(0), s.Population(s.Zero(10)))

	id, _ := s.FillNode(acorn)
	assert.Equal(t, uint64(len(acorn)), s.Population(id))
	assert.Equal(t, uint64(len(acorn)), s.Population(s.Expand(s.Expand(id))))

	// Sharing: four copies of the same quadrant.
	q, _ := s.FillNode(glider)
	four, err := s.Join(q, q, q, q)
	require.NoError(t, err)
	assert.Equal(t, uint64(4*len(glider)), s.Population(four))
}
