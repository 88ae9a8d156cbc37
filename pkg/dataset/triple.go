package dataset

import (
	"strconv"
	"strings"
)

// Triple is one temporal fact: subject and object entities, a relation, and
// a fixed-length sequence of temporal token ids. Temporal holds raw-token
// positions until the owning split is transformed, dense token ids after.
type Triple struct {
	Subject  int
	Object   int
	Relation int
	Temporal []int
}

// key encodes the full tuple, temporal tokens included, as the exact-match
// identity used by filter sets.
func (t Triple) key() string {
	var b strings.Builder
	b.Grow(16 + 8*len(t.Temporal))
	b.WriteString(strconv.Itoa(t.Subject))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(t.Object))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(t.Relation))
	for _, tok := range t.Temporal {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(tok))
	}
	return b.String()
}

// TripleSet is a set of known-true triples, used to keep negative sampling
// from producing facts that are actually true. Membership is exact-tuple:
// two triples differing only in a temporal token are distinct entries.
//
// A set is populated while splits are transformed and must be frozen before
// samplers start reading it; it is not safe for concurrent mutation.
type TripleSet struct {
	members map[string]struct{}
}

// NewTripleSet returns an empty set.
func NewTripleSet() *TripleSet {
	return &TripleSet{members: make(map[string]struct{})}
}

// Add inserts a triple.
func (s *TripleSet) Add(t Triple) {
	s.members[t.key()] = struct{}{}
}

// Contains reports whether the exact triple is in the set.
func (s *TripleSet) Contains(t Triple) bool {
	_, ok := s.members[t.key()]
	return ok
}

// Len returns the number of distinct triples in the set.
func (s *TripleSet) Len() int {
	return len(s.members)
}
