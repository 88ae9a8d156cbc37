package linkpred

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cnclabs/tkge/pkg/model"
	"github.com/cnclabs/tkge/pkg/ranking"
)

// Report is the published result of one evaluation run.
type Report struct {
	RunID   string         `json:"run_id"`
	Dataset string         `json:"dataset"`
	Split   string         `json:"split"`
	Model   string         `json:"model"`
	Mode    string         `json:"mode"`
	Queries int64          `json:"queries"`
	Metrics ranking.Record `json:"metrics"`
}

// Evaluate runs ranked link prediction over the configured split and shard
// and returns the metrics report.
func Evaluate(cfg *Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bundle, err := Assemble(cfg)
	if err != nil {
		return nil, err
	}
	scorer, err := loadScorer(cfg, bundle)
	if err != nil {
		return nil, err
	}
	ds, err := bundle.Split(cfg.Split)
	if err != nil {
		return nil, err
	}
	mode, err := ranking.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	metric, err := ranking.Run(scorer, ds, mode, cfg.Shard(), cfg.Epoch, cfg.Workers)
	if err != nil {
		return nil, err
	}
	rec, err := metric.Report()
	if err != nil {
		return nil, err
	}

	return &Report{
		RunID:   uuid.NewString(),
		Dataset: cfg.Data,
		Split:   cfg.Split,
		Model:   string(scorer.Kind()),
		Mode:    cfg.Mode,
		Queries: metric.Cnt,
		Metrics: rec,
	}, nil
}

// loadScorer resolves the configured checkpoint into a scorer. A directory
// is read as text embedding files and scored under the configured family; a
// file is a binary checkpoint carrying its own family and distance flag. No
// checkpoint at all scores with freshly seeded embeddings.
//
// Whatever the source, the tables must agree with the dataset's
// vocabularies, otherwise some entity or token would have no vector.
func loadScorer(cfg *Config, bundle *Bundle) (model.Scorer, error) {
	kind, err := model.ParseKind(cfg.Model)
	if err != nil {
		return nil, err
	}

	if cfg.Checkpoint == "" {
		slog.Warn("no checkpoint given, scoring with fresh seeded embeddings",
			"model", string(kind), "dim", cfg.Dim, "seed", cfg.Seed)
		emb := model.NewEmbeddings(bundle.Entities, bundle.Relations, bundle.Index.Len(), cfg.Dim, cfg.Seed)
		return model.New(kind, emb, cfg.L1)
	}

	if info, err := os.Stat(cfg.Checkpoint); err == nil && info.IsDir() {
		emb, err := model.LoadText(cfg.Checkpoint)
		if err != nil {
			return nil, err
		}
		if err := checkTables(bundle, emb); err != nil {
			return nil, errors.Wrapf(err, "embeddings in %s", cfg.Checkpoint)
		}
		slog.Info("loaded text embeddings",
			"dir", cfg.Checkpoint, "model", string(kind), "dim", emb.Dim)
		return model.New(kind, emb, cfg.L1)
	}

	ckpt, err := model.LoadCheckpoint(cfg.Checkpoint)
	if err != nil {
		return nil, err
	}
	if ckpt.Kind != kind {
		return nil, errors.Errorf("checkpoint %s was saved as %s, config wants %s",
			cfg.Checkpoint, ckpt.Kind, kind)
	}
	if err := checkTables(bundle, ckpt.Embeddings()); err != nil {
		return nil, errors.Wrapf(err, "checkpoint %s", cfg.Checkpoint)
	}
	slog.Info("loaded checkpoint",
		"path", cfg.Checkpoint, "model", string(ckpt.Kind), "dim", ckpt.Dim, "l1", ckpt.L1)
	return ckpt.Scorer()
}

func checkTables(bundle *Bundle, emb *model.Embeddings) error {
	if got, want := len(emb.Entity), bundle.Entities; got != want {
		return errors.Errorf("entity table has %d rows, vocabulary has %d", got, want)
	}
	if got, want := len(emb.Relation), bundle.Relations; got != want {
		return errors.Errorf("relation table has %d rows, vocabulary has %d", got, want)
	}
	if got, want := len(emb.Temporal), bundle.Index.Len(); got != want {
		return errors.Errorf("temporal table has %d rows, index has %d tokens", got, want)
	}
	return nil
}
