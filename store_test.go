package hashlife

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafIsCanonical(t *testing.T) {
	s := NewStore(StoreOptions{})

	a := s.Leaf(true, false, false, true)
	b := s.Leaf(true, false, false, true)
	c := s.Leaf(false, true, true, false)

	assert.Equal(t, a, b, "identical content should intern to one handle")
	assert.NotEqual(t, a, c, "distinct content must not alias")
	assert.NotZero(t, a)
	assert.Equal(t, 2, s.Len())

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.InternHits)
	assert.Equal(t, uint64(2), stats.InternMisses)
}

func TestAllLeavesDistinct(t *testing.T) {
	s := NewStore(StoreOptions{})
	seen := make(map[NodeID]uint8)
	for b := 0; b < 16; b++ {
		id := s.Leaf(b&1 != 0, b&2 != 0, b&4 != 0, b&8 != 0)
		_, dup := seen[id]
		require.False(t, dup, "bits %04b aliased", b)
		seen[id] = uint8(b)

		n := s.Get(id)
		assert.Equal(t, 1, n.Level())
		assert.True(t, n.IsLeaf())
		assert.Equal(t, b&1 != 0, n.Live(NW))
		assert.Equal(t, b&2 != 0, n.Live(NE))
		assert.Equal(t, b&4 != 0, n.Live(SW))
		assert.Equal(t, b&8 != 0, n.Live(SE))
	}
	assert.Equal(t, 16, s.Len())
}

func TestJoinIsCanonical(t *testing.T) {
	s := NewStore(StoreOptions{})
	x := s.Leaf(true, false, false, false)
	y := s.Leaf(false, false, false, true)

	a, err := s.Join(x, y, y, x)
	require.NoError(t, err)
	b, err := s.Join(x, y, y, x)
	require.NoError(t, err)
	c, err := s.Join(y, x, x, y)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	n := s.Get(a)
	assert.Equal(t, 2, n.Level())
	assert.False(t, n.IsLeaf())
	assert.Equal(t, x, n.Child(NW))
	assert.Equal(t, y, n.Child(NE))
	assert.Equal(t, y, n.Child(SW))
	assert.Equal(t, x, n.Child(SE))
}

func TestJoinLevelMismatch(t *testing.T) {
	s := NewStore(StoreOptions{})
	leaf := s.Leaf(true, true, true, true)
	two := s.Zero(2)

	_, err := s.Join(leaf, leaf, leaf, two)
	assert.ErrorIs(t, err, ErrLevelMismatch)
	_, err = s.Join(two, leaf, two, two)
	assert.ErrorIs(t, err, ErrLevelMismatch)
}

func TestZero(t *testing.T) {
	s := NewStore(StoreOptions{})

	z1 := s.Zero(1)
	assert.Equal(t, s.Leaf(false, false, false, false), z1)
	assert.Equal(t, 1, s.Stats().ZeroLevels)

	z4 := s.Zero(4)
	assert.Equal(t, 4, s.Level(z4))
	assert.Equal(t, 4, s.Stats().ZeroLevels)
	n := s.Get(z4)
	for _, q := range []Quadrant{NW, NE, SW, SE} {
		assert.Equal(t, s.Zero(3), n.Child(q))
	}

	// Lower levels come from the cache and do not shrink it.
	assert.Equal(t, z1, s.Zero(1))
	assert.Equal(t, 4, s.Stats().ZeroLevels)

	assert.True(t, s.IsZero(z4))
	assert.False(t, s.IsZero(s.Leaf(false, false, true, false)))

	assert.Panics(t, func() { s.Zero(0) })
}

func TestInvalidHandlesPanic(t *testing.T) {
	s := NewStore(StoreOptions{})
	leaf := s.Leaf(true, false, false, false)

	assert.False(t, s.Valid(0))
	assert.False(t, s.Valid(leaf+100))
	assert.True(t, s.Valid(leaf))

	mustPanicWith(t, ErrInvalidNode, func() { s.Get(0) })
	mustPanicWith(t, ErrInvalidNode, func() { s.Level(leaf + 100) })
	mustPanicWith(t, ErrInvalidNode, func() { s.Expand(42) })
	mustPanicWith(t, ErrInvalidNode, func() { s.ForwardN(0, 1) })
}

func TestNewStoreOptions(t *testing.T) {
	s := NewStore(StoreOptions{InitialCapacity: 128, CollectThreshold: 10})
	assert.Equal(t, 0, s.Len())
	assert.GreaterOrEqual(t, cap(s.nodes), 129)
	assert.Equal(t, 10, s.collectThreshold)
	assert.NotNil(t, s.logger)

	s = NewStore(StoreOptions{InitialCapacity: -5})
	assert.Equal(t, 0, s.Len())
}
