package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestCheckpoint_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ckpt")
	emb := NewEmbeddings(4, 2, 3, 6, 13)

	require.NoError(t, SaveCheckpoint(path, KindTTransE, true, emb))

	ckpt, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, KindTTransE, ckpt.Kind)
	assert.True(t, ckpt.L1)
	assert.Equal(t, 6, ckpt.Dim)
	assert.Equal(t, emb.Entity, ckpt.Entity)
	assert.Equal(t, emb.Relation, ckpt.Relation)
	assert.Equal(t, emb.Temporal, ckpt.Temporal)

	scorer, err := ckpt.Scorer()
	require.NoError(t, err)
	assert.Equal(t, KindTTransE, scorer.Kind())
	assert.Equal(t, 4, scorer.EntityCount())
}

func TestLoadCheckpoint_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.ckpt")
	_, err := LoadCheckpoint(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't find the saved model at")
}

func TestLoadCheckpoint_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ckpt")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack"), 0644))
	_, err := LoadCheckpoint(path)
	assert.Error(t, err)
}

func TestLoadCheckpoint_Invalid(t *testing.T) {
	write := func(t *testing.T, ckpt Checkpoint) string {
		t.Helper()
		data, err := msgpack.Marshal(&ckpt)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "model.ckpt")
		require.NoError(t, os.WriteFile(path, data, 0644))
		return path
	}

	_, err := LoadCheckpoint(write(t, Checkpoint{Kind: "lstm", Dim: 2}))
	assert.Error(t, err, "unknown kind")

	_, err = LoadCheckpoint(write(t, Checkpoint{Kind: KindTTransE, Dim: 0}))
	assert.Error(t, err, "bad dimension")

	_, err = LoadCheckpoint(write(t, Checkpoint{
		Kind:   KindTTransE,
		Dim:    2,
		Entity: [][]float64{{1, 2, 3}},
	}))
	assert.Error(t, err, "row width mismatch")
}
