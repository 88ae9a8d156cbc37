package dataset

import (
	"math/rand"
	"sync/atomic"
)

// DefaultMaxAttempts bounds the resample-until-unfiltered loop. The filter
// set can in principle cover so much of the entity space that rejection
// sampling stalls, so after this many draws the sampler accepts the last
// candidate even if it is a known triple, and counts the fallback.
const DefaultMaxAttempts = 100

// CorruptMode selects which side of a positive triple gets replaced.
type CorruptMode int

const (
	// CorruptBoth flips a fair coin per negative between subject and object.
	CorruptBoth CorruptMode = iota
	// CorruptSubject always replaces the subject (head prediction).
	CorruptSubject
	// CorruptObject always replaces the object (tail prediction).
	CorruptObject
)

// Sampler draws corrupted variants of positive triples. A negative keeps the
// positive's relation and temporal tokens and differs in exactly one entity
// slot, redrawn uniformly from [0, Entities).
//
// The filter set, when present, is read-only here; Sampler itself is safe
// for concurrent use as long as callers pass per-goroutine rngs.
type Sampler struct {
	Entities    int
	Corrupt     CorruptMode
	Filter      *TripleSet // nil disables filtering
	MaxAttempts int        // 0 means DefaultMaxAttempts

	fallbacks atomic.Int64
}

// Corrupted returns one negative for the given positive. With filtering
// enabled it redraws until the corrupted triple is not a known true triple,
// giving up after MaxAttempts draws and accepting the last candidate.
func (s *Sampler) Corrupted(pos Triple, rng *rand.Rand) Triple {
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var neg Triple
	for i := 0; i < attempts; i++ {
		neg = s.corruptOnce(pos, rng)
		if s.Filter == nil || !s.Filter.Contains(neg) {
			return neg
		}
	}

	s.fallbacks.Add(1)
	return neg
}

// Negatives returns n corrupted variants of the positive.
func (s *Sampler) Negatives(pos Triple, n int, rng *rand.Rand) []Triple {
	if n <= 0 {
		return nil
	}
	out := make([]Triple, n)
	for i := range out {
		out[i] = s.Corrupted(pos, rng)
	}
	return out
}

// FallbackCount reports how many negatives were accepted despite being in
// the filter set because MaxAttempts ran out. Callers surface this after an
// epoch or export so dense filter sets do not degrade samples silently.
func (s *Sampler) FallbackCount() int64 {
	return s.fallbacks.Load()
}

func (s *Sampler) corruptOnce(pos Triple, rng *rand.Rand) Triple {
	neg := pos // shares the temporal token slice, which negatives keep intact

	subject := false
	switch s.Corrupt {
	case CorruptSubject:
		subject = true
	case CorruptObject:
		subject = false
	default:
		subject = rng.Intn(2) == 0
	}

	if subject {
		neg.Subject = rng.Intn(s.Entities)
	} else {
		neg.Object = rng.Intn(s.Entities)
	}
	return neg
}
