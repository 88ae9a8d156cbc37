// Package ranking turns a scorer and an evaluation split into filtered
// link-prediction metrics: Hits@1/3/10, mean rank, and mean reciprocal
// rank over full-vocabulary candidate rankings.
package ranking

import (
	"fmt"

	"github.com/pkg/errors"
)

// Metric accumulates per-query ranks. Updates only ever increment, so
// per-worker metrics merge into a run total by plain summation, in any
// order, without locking. The integer counters agree exactly across merge
// orders; the floating-point sums agree up to rounding.
type Metric struct {
	Cnt    int64
	H1     int64
	H3     int64
	H10    int64
	MRSum  float64
	MRRSum float64
}

// Update records one query's 1-indexed rank. Rank 0 or below is a caller
// logic bug (1/rank is undefined), not a data condition, and panics.
func (m *Metric) Update(rank int) {
	if rank < 1 {
		panic(fmt.Sprintf("ranking: rank %d, want >= 1", rank))
	}

	m.Cnt++
	if rank < 2 {
		m.H1++
	}
	if rank < 4 {
		m.H3++
	}
	if rank < 11 {
		m.H10++
	}
	m.MRSum += float64(rank)
	m.MRRSum += 1.0 / float64(rank)
}

// Merge folds another accumulator into this one.
func (m *Metric) Merge(other *Metric) {
	m.Cnt += other.Cnt
	m.H1 += other.H1
	m.H3 += other.H3
	m.H10 += other.H10
	m.MRSum += other.MRSum
	m.MRRSum += other.MRRSum
}

// Record is the finalized metrics block reported for a run.
type Record struct {
	H1  float64 `json:"H1"`
	H3  float64 `json:"H3"`
	H10 float64 `json:"H10"`
	MR  float64 `json:"MR"`
	MRR float64 `json:"MRR"`
}

// Report finalizes the accumulator by normalizing each sum over the query
// count. Reporting with no recorded queries is an error rather than NaNs
// leaking into published results.
func (m *Metric) Report() (Record, error) {
	if m.Cnt == 0 {
		return Record{}, errors.New("ranking: no evaluation queries recorded")
	}
	n := float64(m.Cnt)
	return Record{
		H1:  float64(m.H1) / n,
		H3:  float64(m.H3) / n,
		H10: float64(m.H10) / n,
		MR:  m.MRSum / n,
		MRR: m.MRRSum / n,
	}, nil
}

// String prints the metrics block.
func (r Record) String() string {
	return fmt.Sprintf("\nH@1: %v\nH@3: %v\nH@10: %v\nMR: %v\nMRR: %v\n",
		r.H1, r.H3, r.H10, r.MR, r.MRR)
}

// String prints the accumulated metrics block.
func (m *Metric) String() string {
	rec, err := m.Report()
	if err != nil {
		return "\n(no evaluation queries)\n"
	}
	return rec.String()
}
