package linkpred

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnclabs/tkge/pkg/dataset"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ttranse", cfg.Model)
	assert.Equal(t, 128, cfg.Dim)
	assert.Equal(t, 1, cfg.Negatives)
	assert.True(t, cfg.Filter)
	assert.Equal(t, "both", cfg.Mode)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 1, cfg.WorldSize)
	assert.Equal(t, 0, cfg.Rank)
	assert.Equal(t, "test", cfg.Split)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `data: /data/icews14
model: tdistmult
dim: 64
filter: false
world_size: 4
rank: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path, Default())
	require.NoError(t, err)

	assert.Equal(t, "/data/icews14", cfg.Data)
	assert.Equal(t, "tdistmult", cfg.Model)
	assert.Equal(t, 64, cfg.Dim)
	assert.False(t, cfg.Filter)
	assert.Equal(t, dataset.Shard{Count: 4, Index: 2}, cfg.Shard())

	// unspecified keys keep their defaults
	assert.Equal(t, 1, cfg.Negatives)
	assert.Equal(t, "both", cfg.Mode)
	assert.Equal(t, "test", cfg.Split)
}

func TestLoadConfig_Base(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: /data/icews14\n"), 0644))

	base := Default()
	base.Split = "train"
	cfg, err := LoadConfig(path, base)
	require.NoError(t, err)

	assert.Equal(t, "train", cfg.Split, "file without a split keeps the base's")
	assert.Equal(t, "/data/icews14", cfg.Data)
	assert.Empty(t, base.Data, "base is not mutated")
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), Default())
	assert.Error(t, err)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dim: [not a number\n"), 0644))
	_, err := LoadConfig(path, Default())
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Data = "/data/icews14"
		return cfg
	}
	assert.NoError(t, valid().Validate())

	breakages := map[string]func(*Config){
		"no data":        func(c *Config) { c.Data = "" },
		"bad model":      func(c *Config) { c.Model = "lstm" },
		"bad mode":       func(c *Config) { c.Mode = "sideways" },
		"zero dim":       func(c *Config) { c.Dim = 0 },
		"negatives":      func(c *Config) { c.Negatives = -1 },
		"zero workers":   func(c *Config) { c.Workers = 0 },
		"zero world":     func(c *Config) { c.WorldSize = 0 },
		"rank too large": func(c *Config) { c.Rank = 1 },
		"bad split":      func(c *Config) { c.Split = "dev" },
	}
	for name, breakIt := range breakages {
		cfg := valid()
		breakIt(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
