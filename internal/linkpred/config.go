// Package linkpred assembles the temporal link-prediction pipeline behind
// the command-line tools: vocabulary and split loading, the shared temporal
// index, negative-sampler setup, scorer loading, and ranked evaluation.
package linkpred

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/cnclabs/tkge/pkg/dataset"
	"github.com/cnclabs/tkge/pkg/model"
	"github.com/cnclabs/tkge/pkg/ranking"
)

// Config carries everything a run needs. Flags and YAML files both decode
// into it; flag values win because the CLIs apply them after LoadConfig.
type Config struct {
	// Data is the dataset directory holding entity2id.txt, relation2id.txt
	// and the three split files.
	Data string `yaml:"data"`

	// Model names the scorer family, ttranse or tdistmult.
	Model string `yaml:"model"`

	// Checkpoint points at a saved model: either a binary checkpoint file
	// or a directory of text embedding files. Empty means score with fresh
	// seeded embeddings, which is only useful as a pipeline smoke test.
	Checkpoint string `yaml:"checkpoint"`

	// Dim is the embedding dimension used when no checkpoint is given.
	Dim int `yaml:"dim"`

	// L1 switches the translational scorer to L1 distance.
	L1 bool `yaml:"l1"`

	// Negatives is the number of corrupted triples drawn per positive when
	// exporting training pairs.
	Negatives int `yaml:"negatives"`

	// Filter drops corrupted triples that are known true facts, retrying up
	// to the sampler's attempt budget.
	Filter bool `yaml:"filter"`

	// Mode picks the ranked sides: both, head or tail. It also fixes which
	// entity slot the exporter corrupts.
	Mode string `yaml:"mode"`

	// Workers is the evaluation goroutine count.
	Workers int `yaml:"workers"`

	// Seed drives fresh embedding init and negative sampling.
	Seed int64 `yaml:"seed"`

	// Epoch reshuffles the shard permutation; distinct epochs visit the
	// split in distinct orders.
	Epoch int64 `yaml:"epoch"`

	// WorldSize and Rank describe this process's shard of the split.
	WorldSize int `yaml:"world_size"`
	Rank      int `yaml:"rank"`

	// Split selects train, valid or test.
	Split string `yaml:"split"`
}

// Default returns the configuration a run starts from before YAML and flags
// are applied.
func Default() *Config {
	return &Config{
		Model:     string(model.KindTTransE),
		Dim:       128,
		Negatives: 1,
		Filter:    true,
		Mode:      string(ranking.ModeBoth),
		Workers:   1,
		Seed:      1,
		WorldSize: 1,
		Rank:      0,
		Split:     "test",
	}
}

// LoadConfig overlays a YAML file onto base, so a file only has to name the
// values it changes. The CLIs pass their own defaults as the base.
func LoadConfig(path string, base *Config) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	cfg := *base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	return &cfg, nil
}

// Validate rejects configurations no run can execute.
func (c *Config) Validate() error {
	if c.Data == "" {
		return errors.New("config: data directory is required")
	}
	if _, err := model.ParseKind(c.Model); err != nil {
		return errors.Wrap(err, "config")
	}
	if _, err := ranking.ParseMode(c.Mode); err != nil {
		return errors.Wrap(err, "config")
	}
	if c.Dim < 1 {
		return errors.Errorf("config: embedding dimension %d, want >= 1", c.Dim)
	}
	if c.Negatives < 0 {
		return errors.Errorf("config: %d negatives per positive, want >= 0", c.Negatives)
	}
	if c.Workers < 1 {
		return errors.Errorf("config: %d workers, want >= 1", c.Workers)
	}
	if err := c.Shard().Validate(); err != nil {
		return errors.Wrap(err, "config")
	}
	switch c.Split {
	case "train", "valid", "test":
	default:
		return errors.Errorf("config: unknown split %q, want train, valid or test", c.Split)
	}
	return nil
}

// Shard returns the shard descriptor for this process.
func (c *Config) Shard() dataset.Shard {
	return dataset.Shard{Count: c.WorldSize, Index: c.Rank}
}
