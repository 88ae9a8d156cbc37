package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureEmbeddings is small enough to rank by hand:
//
//	entities  e0=(0,0) e1=(1,0) e2=(0,1) e3=(1,1)
//	relations r0=(1,0) r1=(0,0)
//	temporal  t0=(0,1) t1=(0,0)
func fixtureEmbeddings() *Embeddings {
	return &Embeddings{
		Dim:      2,
		Entity:   [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		Relation: [][]float64{{1, 0}, {0, 0}},
		Temporal: [][]float64{{0, 1}, {0, 0}},
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("ttranse")
	require.NoError(t, err)
	assert.Equal(t, KindTTransE, kind)

	kind, err = ParseKind("tdistmult")
	require.NoError(t, err)
	assert.Equal(t, KindTDistMult, kind)

	_, err = ParseKind("lstm")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	emb := fixtureEmbeddings()

	s, err := New(KindTTransE, emb, true)
	require.NoError(t, err)
	assert.Equal(t, KindTTransE, s.Kind())
	assert.Equal(t, 4, s.EntityCount())
	assert.Equal(t, 2, s.Dim())

	s, err = New(KindTDistMult, emb, false)
	require.NoError(t, err)
	assert.Equal(t, KindTDistMult, s.Kind())

	_, err = New(Kind("lstm"), emb, false)
	assert.Error(t, err)
}

func TestTTransE_Score(t *testing.T) {
	m := &TTransE{Emb: fixtureEmbeddings()}

	// e0 + r0 + t0 = (1,1) = e3 exactly
	assert.InDelta(t, 0, m.Score(0, 3, 0, []int{0}), 1e-12)

	// against e1=(1,0) the shift misses by 1 in the second coordinate
	assert.InDelta(t, -1, m.Score(0, 1, 0, []int{0}), 1e-12)

	// the exact match must outrank the near miss
	assert.Greater(t, m.Score(0, 3, 0, []int{0}), m.Score(0, 1, 0, []int{0}))
}

func TestTTransE_Distances(t *testing.T) {
	emb := fixtureEmbeddings()

	// query (1,1) vs e0=(0,0): L1 distance 2, L2 distance sqrt(2)
	l2 := &TTransE{Emb: emb}
	assert.InDelta(t, -1.4142135623730951, l2.Score(0, 0, 0, []int{0}), 1e-12)

	l1 := &TTransE{Emb: emb, L1: true}
	assert.InDelta(t, -2, l1.Score(0, 0, 0, []int{0}), 1e-12)
}

func TestTTransE_CombineSides(t *testing.T) {
	m := &TTransE{Emb: fixtureEmbeddings()}
	rt := m.RelationTime(0, []int{0})
	assert.Equal(t, []float64{1, 1}, rt)

	// ranking subjects for (?, r0+t0, e3): the query walks the object back
	head := m.Combine(SideHead, m.Entity(3), rt)
	assert.Equal(t, []float64{0, 0}, head)
	assert.InDelta(t, 0, m.Plausibility(head, m.Entity(0)), 1e-12)

	// ranking objects for (e0, r0+t0, ?): the query walks the subject forward
	tail := m.Combine(SideTail, m.Entity(0), rt)
	assert.Equal(t, []float64{1, 1}, tail)
	assert.InDelta(t, 0, m.Plausibility(tail, m.Entity(3)), 1e-12)
}

func TestTTransE_TemporalSequence(t *testing.T) {
	m := &TTransE{Emb: fixtureEmbeddings()}

	// the zero token t1 contributes nothing, extra t0 shifts further
	assert.Equal(t, []float64{1, 1}, m.RelationTime(0, []int{0, 1}))
	assert.Equal(t, []float64{1, 2}, m.RelationTime(0, []int{0, 0}))
	assert.Equal(t, []float64{1, 0}, m.RelationTime(0, nil))
}

func TestTDistMult_Score(t *testing.T) {
	m := &TDistMult{Emb: fixtureEmbeddings()}

	// <e1, r0+t0, e3> = 1*1*1 + 0*1*1
	assert.InDelta(t, 1, m.Score(1, 3, 0, []int{0}), 1e-12)

	// trilinear symmetry in the entity slots
	assert.InDelta(t, m.Score(1, 3, 0, []int{0}), m.Score(3, 1, 0, []int{0}), 1e-12)

	// orthogonal pair scores zero
	assert.InDelta(t, 0, m.Score(1, 2, 0, []int{1}), 1e-12)
}

func TestTDistMult_Combine(t *testing.T) {
	m := &TDistMult{Emb: fixtureEmbeddings()}
	rt := m.RelationTime(0, []int{0})

	// both sides build the same elementwise product
	assert.Equal(t, m.Combine(SideHead, m.Entity(3), rt), m.Combine(SideTail, m.Entity(3), rt))
	assert.Equal(t, []float64{1, 1}, m.Combine(SideHead, m.Entity(3), rt))
}
