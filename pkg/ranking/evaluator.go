package ranking

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/cnclabs/tkge/pkg/dataset"
	"github.com/cnclabs/tkge/pkg/model"
)

// Mode selects which side(s) of each triple are hidden and ranked.
type Mode string

const (
	// ModeBoth ranks the subject and the object of every triple,
	// contributing two metric updates per triple.
	ModeBoth Mode = "both"
	// ModeHead ranks only the subject.
	ModeHead Mode = "head"
	// ModeTail ranks only the object.
	ModeTail Mode = "tail"
)

// ParseMode validates a mode string from a flag or config file.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBoth, ModeHead, ModeTail:
		return Mode(s), nil
	}
	return "", errors.Errorf("ranking: unknown evaluation mode %q, want both, head or tail", s)
}

const progressEvery = 10000

// Evaluator ranks the true entity of a query against every entity in the
// vocabulary. Candidates are ordered by descending plausibility with a
// stable sort, so ties resolve toward the smaller entity id and repeated
// runs agree. The scratch buffers make an Evaluator single-goroutine;
// Run hands each worker its own.
type Evaluator struct {
	Scorer model.Scorer
	Mode   Mode

	scores []float64
	order  []int
}

// NewEvaluator sizes the candidate buffers for the scorer's vocabulary.
func NewEvaluator(s model.Scorer, mode Mode) *Evaluator {
	n := s.EntityCount()
	return &Evaluator{
		Scorer: s,
		Mode:   mode,
		scores: make([]float64, n),
		order:  make([]int, n),
	}
}

// Ranks evaluates one triple and returns the 1-indexed rank of the true
// subject and the true object. A side the mode does not cover is reported
// as 0, meaning not computed.
func (e *Evaluator) Ranks(t dataset.Triple) (headRank, tailRank int) {
	relTime := e.Scorer.RelationTime(t.Relation, t.Temporal)
	if e.Mode == ModeBoth || e.Mode == ModeHead {
		headRank = e.rank(model.SideHead, t.Object, t.Subject, relTime)
	}
	if e.Mode == ModeBoth || e.Mode == ModeTail {
		tailRank = e.rank(model.SideTail, t.Subject, t.Object, relTime)
	}
	return headRank, tailRank
}

// rank scores every entity as a candidate for the hidden side, anchored on
// the known entity, and returns 1 plus the truth's position in descending
// plausibility order.
func (e *Evaluator) rank(side model.Side, anchor, truth int, relTime []float64) int {
	query := e.Scorer.Combine(side, e.Scorer.Entity(anchor), relTime)
	for id := range e.scores {
		e.scores[id] = e.Scorer.Plausibility(query, e.Scorer.Entity(id))
		e.order[id] = id
	}
	sort.SliceStable(e.order, func(i, j int) bool {
		return e.scores[e.order[i]] > e.scores[e.order[j]]
	})
	for pos, id := range e.order {
		if id == truth {
			return pos + 1
		}
	}
	panic("ranking: true entity missing from candidate list")
}

// Run evaluates the shard's slice of a split across worker goroutines and
// returns the merged metrics. Each worker owns an Evaluator and a Metric,
// so the only shared state is the scorer's read-only tables and the
// progress counter.
func Run(scorer model.Scorer, ds *dataset.Dataset, mode Mode, shard dataset.Shard, epoch int64, workers int) (*Metric, error) {
	if err := shard.Validate(); err != nil {
		return nil, err
	}
	indices := shard.Indices(ds.Len(), epoch)
	if len(indices) == 0 {
		return nil, errors.Errorf("ranking: shard %d/%d holds no evaluation triples", shard.Index, shard.Count)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(indices) {
		workers = len(indices)
	}

	slog.Info("evaluating split",
		"path", ds.Path(),
		"queries", humanize.Comma(int64(len(indices))),
		"mode", string(mode),
		"workers", workers)

	total := int64(len(indices))
	chunk := (len(indices) + workers - 1) / workers
	metrics := make([]Metric, workers)

	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			start := w * chunk
			if start > len(indices) {
				start = len(indices)
			}
			end := start + chunk
			if end > len(indices) {
				end = len(indices)
			}
			ev := NewEvaluator(scorer, mode)
			m := &metrics[w]
			for _, i := range indices[start:end] {
				headRank, tailRank := ev.Ranks(ds.EvalTriple(i))
				if headRank > 0 {
					m.Update(headRank)
				}
				if tailRank > 0 {
					m.Update(tailRank)
				}
				if n := done.Add(1); n%progressEvery == 0 {
					slog.Info("evaluation progress",
						"done", humanize.Comma(n),
						"total", humanize.Comma(total))
				}
			}
		}(w)
	}
	wg.Wait()

	merged := &Metric{}
	for i := range metrics {
		merged.Merge(&metrics[i])
	}
	return merged, nil
}
