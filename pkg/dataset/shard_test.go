package dataset

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShard_Validate(t *testing.T) {
	assert.NoError(t, Whole.Validate())
	assert.NoError(t, Shard{Count: 4, Index: 3}.Validate())
	assert.Error(t, Shard{Count: 0, Index: 0}.Validate())
	assert.Error(t, Shard{Count: 4, Index: 4}.Validate())
	assert.Error(t, Shard{Count: 4, Index: -1}.Validate())
}

func TestShard_DisjointAndComplete(t *testing.T) {
	const n = 101
	const workers = 4

	seen := make(map[int]int)
	for w := 0; w < workers; w++ {
		indices := Shard{Count: workers, Index: w}.Indices(n, 5)
		for _, i := range indices {
			seen[i]++
		}
	}

	require.Len(t, seen, n)
	for i, count := range seen {
		assert.Equal(t, 1, count, "index %d", i)
	}
}

func TestShard_Deterministic(t *testing.T) {
	s := Shard{Count: 3, Index: 1}

	a := s.Indices(50, 2)
	b := s.Indices(50, 2)
	assert.Equal(t, a, b)

	// a different epoch deals this worker a different hand of the same size
	c := s.Indices(50, 3)
	assert.NotEqual(t, a, c)
	assert.Len(t, c, len(a))
}

func TestShard_WholeIsIdentitySet(t *testing.T) {
	indices := Whole.Indices(10, 0)
	require.Len(t, indices, 10)
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)
}

func TestShard_InvalidPanics(t *testing.T) {
	assert.Panics(t, func() { Shard{Count: 2, Index: 2}.Indices(10, 0) })
}
