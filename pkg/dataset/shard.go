package dataset

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Shard identifies one worker's slice of a run: Index in [0, Count). Use
// Whole for a single worker owning everything.
//
// Sharding is a pure function of (n, epoch, Count, Index): every worker
// derives the same seeded permutation and takes a strided, disjoint subset,
// so no coordination or hidden sampler state is needed across processes.
type Shard struct {
	Count int
	Index int
}

// Whole is the single-worker shard.
var Whole = Shard{Count: 1, Index: 0}

// Validate reports whether the descriptor is usable.
func (s Shard) Validate() error {
	if s.Count < 1 {
		return errors.Errorf("shard count %d, want >= 1", s.Count)
	}
	if s.Index < 0 || s.Index >= s.Count {
		return errors.Errorf("shard index %d out of range [0, %d)", s.Index, s.Count)
	}
	return nil
}

// Indices returns this worker's subset of a permutation of [0, n) seeded by
// the epoch. Subsets for the same (n, epoch) are disjoint across workers and
// together cover all n indices.
func (s Shard) Indices(n int, epoch int64) []int {
	if err := s.Validate(); err != nil {
		panic("dataset: " + err.Error())
	}

	perm := rand.New(rand.NewSource(epoch)).Perm(n)
	out := make([]int, 0, (n+s.Count-1)/s.Count)
	for i := s.Index; i < n; i += s.Count {
		out = append(out, perm[i])
	}
	return out
}
