package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetric_Update(t *testing.T) {
	var m Metric
	for _, rank := range []int{2, 5, 1} {
		m.Update(rank)
	}

	assert.EqualValues(t, 3, m.Cnt)
	assert.EqualValues(t, 1, m.H1)
	assert.EqualValues(t, 2, m.H3)
	assert.EqualValues(t, 3, m.H10)
	assert.InDelta(t, 8, m.MRSum, 1e-12)
	assert.InDelta(t, 1.7, m.MRRSum, 1e-12)
}

func TestMetric_CutoffBoundaries(t *testing.T) {
	cases := []struct {
		rank        int
		h1, h3, h10 int64
	}{
		{1, 1, 1, 1},
		{2, 0, 1, 1},
		{3, 0, 1, 1},
		{4, 0, 0, 1},
		{10, 0, 0, 1},
		{11, 0, 0, 0},
	}
	for _, c := range cases {
		var m Metric
		m.Update(c.rank)
		assert.Equal(t, c.h1, m.H1, "rank %d", c.rank)
		assert.Equal(t, c.h3, m.H3, "rank %d", c.rank)
		assert.Equal(t, c.h10, m.H10, "rank %d", c.rank)
	}
}

func TestMetric_PanicsOnBadRank(t *testing.T) {
	var m Metric
	assert.Panics(t, func() { m.Update(0) })
	assert.Panics(t, func() { m.Update(-3) })
}

func TestMetric_Merge(t *testing.T) {
	var sequential Metric
	for _, rank := range []int{1, 2, 7, 40} {
		sequential.Update(rank)
	}

	var a, b Metric
	a.Update(1)
	a.Update(2)
	b.Update(7)
	b.Update(40)
	a.Merge(&b)

	// counters and the integer-valued rank sum match exactly; the
	// reciprocal sum accumulates in a different order when merged, so it
	// agrees only up to float rounding
	assert.Equal(t, sequential.Cnt, a.Cnt)
	assert.Equal(t, sequential.H1, a.H1)
	assert.Equal(t, sequential.H3, a.H3)
	assert.Equal(t, sequential.H10, a.H10)
	assert.Equal(t, sequential.MRSum, a.MRSum)
	assert.InDelta(t, sequential.MRRSum, a.MRRSum, 1e-12)
}

func TestMetric_Report(t *testing.T) {
	var m Metric
	for _, rank := range []int{2, 5, 1} {
		m.Update(rank)
	}

	rec, err := m.Report()
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, rec.H1, 1e-12)
	assert.InDelta(t, 2.0/3, rec.H3, 1e-12)
	assert.InDelta(t, 1, rec.H10, 1e-12)
	assert.InDelta(t, 8.0/3, rec.MR, 1e-12)
	assert.InDelta(t, 1.7/3, rec.MRR, 1e-12)
}

func TestMetric_ReportEmpty(t *testing.T) {
	var m Metric
	_, err := m.Report()
	assert.Error(t, err)
}

func TestMetric_String(t *testing.T) {
	var m Metric
	m.Update(1)
	m.Update(1)
	assert.Equal(t, "\nH@1: 1\nH@3: 1\nH@10: 1\nMR: 1\nMRR: 1\n", m.String())
}
