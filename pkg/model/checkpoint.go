package model

import (
	"os"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Checkpoint is the binary on-disk form of a trained model: the scorer
// family, its distance flag, and the three embedding tables. Encoded with
// msgpack so large tables round-trip compactly.
type Checkpoint struct {
	Kind     Kind        `msgpack:"kind"`
	L1       bool        `msgpack:"l1"`
	Dim      int         `msgpack:"dim"`
	Entity   [][]float64 `msgpack:"entity"`
	Relation [][]float64 `msgpack:"relation"`
	Temporal [][]float64 `msgpack:"temporal"`
}

// SaveCheckpoint writes the model to path.
func SaveCheckpoint(path string, kind Kind, l1 bool, emb *Embeddings) error {
	ckpt := Checkpoint{
		Kind:     kind,
		L1:       l1,
		Dim:      emb.Dim,
		Entity:   emb.Entity,
		Relation: emb.Relation,
		Temporal: emb.Temporal,
	}
	data, err := msgpack.Marshal(&ckpt)
	if err != nil {
		return errors.Wrapf(err, "encode checkpoint %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write checkpoint %s", path)
	}
	return nil
}

// LoadCheckpoint reads a model saved by SaveCheckpoint. A missing path is an
// error reported before any evaluation or resumed run proceeds.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Errorf("can't find the saved model at %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read checkpoint %s", path)
	}

	var ckpt Checkpoint
	if err := msgpack.Unmarshal(data, &ckpt); err != nil {
		return nil, errors.Wrapf(err, "decode checkpoint %s", path)
	}
	if _, err := ParseKind(string(ckpt.Kind)); err != nil {
		return nil, errors.Wrapf(err, "checkpoint %s", path)
	}
	if ckpt.Dim <= 0 {
		return nil, errors.Errorf("checkpoint %s: bad dimension %d", path, ckpt.Dim)
	}
	for _, table := range [][][]float64{ckpt.Entity, ckpt.Relation, ckpt.Temporal} {
		for _, row := range table {
			if len(row) != ckpt.Dim {
				return nil, errors.Errorf("checkpoint %s: row width %d, header says %d", path, len(row), ckpt.Dim)
			}
		}
	}
	return &ckpt, nil
}

// Embeddings returns the checkpoint's tables as a live table set.
func (c *Checkpoint) Embeddings() *Embeddings {
	return &Embeddings{
		Dim:      c.Dim,
		Entity:   c.Entity,
		Relation: c.Relation,
		Temporal: c.Temporal,
	}
}

// Scorer builds the checkpoint's scorer.
func (c *Checkpoint) Scorer() (Scorer, error) {
	return New(c.Kind, c.Embeddings(), c.L1)
}
