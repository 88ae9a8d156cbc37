// Package model is the scoring boundary between the data pipeline and a
// trained temporal knowledge-graph embedding model. The evaluator sees one
// contract (higher plausibility means a more believable triple) and each
// scorer family normalizes its own ranking direction behind it:
// translational models negate their distances, bilinear models score by
// dot product directly.
package model

import (
	"math"

	"github.com/pkg/errors"
)

// Side selects which entity slot a ranking query fills in.
type Side int

const (
	// SideHead ranks candidate subjects given (relation, time, object).
	SideHead Side = iota
	// SideTail ranks candidate objects given (subject, relation, time).
	SideTail
)

// Kind names a scorer family.
type Kind string

const (
	// KindTTransE is the translational family: relations and time shift
	// entities in the embedding space, and closer means more plausible.
	KindTTransE Kind = "ttranse"
	// KindTDistMult is the bilinear family: plausibility is a trilinear
	// product, and larger means more plausible.
	KindTDistMult Kind = "tdistmult"
)

// ParseKind validates a scorer family name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTTransE, KindTDistMult:
		return Kind(s), nil
	}
	return "", errors.Errorf("unknown model kind %q (want %s or %s)", s, KindTTransE, KindTDistMult)
}

// Scorer is the read-only boundary of a trained model.
//
// RelationTime folds a relation and its temporal tokens into one vector;
// Combine builds the ranking query for one side; Plausibility compares a
// query against a candidate entity embedding under the shared
// higher-is-more-plausible contract. Score collapses the three for a single
// triple. Implementations are safe for concurrent readers.
type Scorer interface {
	Kind() Kind
	EntityCount() int
	Dim() int
	Entity(id int) []float64
	RelationTime(rel int, temporal []int) []float64
	Combine(side Side, entity, relTime []float64) []float64
	Plausibility(query, candidate []float64) float64
	Score(sub, obj, rel int, temporal []int) float64
}

// New builds a scorer of the given family over the embedding tables. The l1
// flag only affects the translational family's distance.
func New(kind Kind, emb *Embeddings, l1 bool) (Scorer, error) {
	switch kind {
	case KindTTransE:
		return &TTransE{Emb: emb, L1: l1}, nil
	case KindTDistMult:
		return &TDistMult{Emb: emb}, nil
	}
	return nil, errors.Errorf("unknown model kind %q", kind)
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func l1Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func l2Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
