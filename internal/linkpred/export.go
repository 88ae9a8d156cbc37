package linkpred

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/cnclabs/tkge/pkg/dataset"
)

// ExportPairs streams this shard's slice of the configured split as labeled
// training pairs: each positive triple on a "+" line followed by its
// corrupted negatives on "-" lines, fields space-delimited in the split-file
// order (subject object relation temporal tokens). Only the train and valid
// splits carry samplers; the test split is evaluation-only and is rejected.
//
// The visit order is the shard's epoch permutation and the sampler rng is
// derived from seed, epoch and rank, so reruns of the same configuration
// emit identical streams while other epochs and ranks diverge. Returns the
// number of positives written.
func ExportPairs(cfg *Config, w io.Writer) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if cfg.Split == "test" {
		return 0, errors.New("the test split is evaluation-only; export pairs from train or valid")
	}

	bundle, err := Assemble(cfg)
	if err != nil {
		return 0, err
	}
	ds, err := bundle.Split(cfg.Split)
	if err != nil {
		return 0, err
	}

	shard := cfg.Shard()
	indices := shard.Indices(ds.Len(), cfg.Epoch)
	rng := rand.New(rand.NewSource(cfg.Seed + cfg.Epoch + int64(cfg.Rank)))

	bw := bufio.NewWriter(w)
	for _, i := range indices {
		pos, negs := ds.TrainingPair(i, rng)
		writePair(bw, '+', pos)
		for _, neg := range negs {
			writePair(bw, '-', neg)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}

	if n := ds.Sampler.FallbackCount(); n > 0 {
		slog.Warn("negative sampler hit its attempt budget; some negatives are known true triples",
			"fallbacks", humanize.Comma(n),
			"max_attempts", ds.Sampler.MaxAttempts)
	}
	slog.Info("exported training pairs",
		"split", cfg.Split,
		"positives", humanize.Comma(int64(len(indices))),
		"negatives_per_positive", cfg.Negatives,
		"shard", fmt.Sprintf("%d/%d", shard.Index, shard.Count))

	return len(indices), nil
}

func writePair(w *bufio.Writer, label byte, t dataset.Triple) {
	w.WriteByte(label)
	fmt.Fprintf(w, " %d %d %d", t.Subject, t.Object, t.Relation)
	for _, tok := range t.Temporal {
		fmt.Fprintf(w, " %d", tok)
	}
	w.WriteByte('\n')
}
