package linkpred

import (
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/cnclabs/tkge/pkg/dataset"
	"github.com/cnclabs/tkge/pkg/ranking"
)

// Dataset directory layout, shared with the upstream preprocessing scripts.
const (
	entityVocabFile   = "entity2id.txt"
	relationVocabFile = "relation2id.txt"
	trainFile         = "train2id.txt"
	validFile         = "valid2id.txt"
	testFile          = "test2id.txt"
)

// Bundle is a fully assembled dataset: all three splits transformed against
// one temporal index, with samplers configured from the run's config.
type Bundle struct {
	Entities  int
	Relations int
	Index     *dataset.TemporalIndex

	Train *dataset.Dataset
	Valid *dataset.Dataset
	Test  *dataset.Dataset

	// Known holds the training and validation triples; it backs filtered
	// sampling on those splits.
	Known *dataset.TripleSet
}

// Assemble loads the vocabulary counts and the three splits from the data
// directory, builds the temporal index over their union, and transforms
// each split.
//
// The known-triple set accumulates in split order: training triples are
// known when validation transforms, so a filtered validation sampler never
// emits a training fact as a negative. The test split stays unfiltered;
// evaluation ranks against the full vocabulary and draws no negatives.
func Assemble(cfg *Config) (*Bundle, error) {
	entities, err := dataset.ReadCount(filepath.Join(cfg.Data, entityVocabFile))
	if err != nil {
		return nil, err
	}
	relations, err := dataset.ReadCount(filepath.Join(cfg.Data, relationVocabFile))
	if err != nil {
		return nil, err
	}

	train, err := dataset.Load(filepath.Join(cfg.Data, trainFile), entities, relations)
	if err != nil {
		return nil, err
	}
	valid, err := dataset.Load(filepath.Join(cfg.Data, validFile), entities, relations)
	if err != nil {
		return nil, err
	}
	test, err := dataset.Load(filepath.Join(cfg.Data, testFile), entities, relations)
	if err != nil {
		return nil, err
	}

	idx := dataset.BuildTemporalIndex(train, valid, test)

	known := dataset.NewTripleSet()
	if err := train.Transform(idx, known, cfg.Filter); err != nil {
		return nil, err
	}
	if err := valid.Transform(idx, known, cfg.Filter); err != nil {
		return nil, err
	}
	if err := test.Transform(idx, nil, false); err != nil {
		return nil, err
	}

	corrupt, err := corruptModeFor(ranking.Mode(cfg.Mode))
	if err != nil {
		return nil, err
	}
	for _, ds := range []*dataset.Dataset{train, valid} {
		ds.Negatives = cfg.Negatives
		ds.Sampler.Corrupt = corrupt
	}

	slog.Info("assembled dataset",
		"data", cfg.Data,
		"entities", entities,
		"relations", relations,
		"temporal_tokens", idx.Len(),
		"known_triples", known.Len(),
		"filter", cfg.Filter)

	return &Bundle{
		Entities:  entities,
		Relations: relations,
		Index:     idx,
		Train:     train,
		Valid:     valid,
		Test:      test,
		Known:     known,
	}, nil
}

// Split returns the named split.
func (b *Bundle) Split(name string) (*dataset.Dataset, error) {
	switch name {
	case "train":
		return b.Train, nil
	case "valid":
		return b.Valid, nil
	case "test":
		return b.Test, nil
	}
	return nil, errors.Errorf("unknown split %q, want train, valid or test", name)
}

// corruptModeFor maps the ranked sides onto the entity slot the sampler
// corrupts: ranking heads means drawing corrupted subjects, ranking tails
// corrupted objects, and both flips per negative.
func corruptModeFor(mode ranking.Mode) (dataset.CorruptMode, error) {
	switch mode {
	case ranking.ModeBoth:
		return dataset.CorruptBoth, nil
	case ranking.ModeHead:
		return dataset.CorruptSubject, nil
	case ranking.ModeTail:
		return dataset.CorruptObject, nil
	}
	return 0, errors.Errorf("unknown evaluation mode %q", mode)
}
