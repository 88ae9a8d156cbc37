package dataset

import (
	"bufio"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Dataset is one split (train/valid/test) of a temporal knowledge graph.
//
// A split moves through two phases. Load parses the raw file and validates
// every id against the declared vocabulary sizes; temporal fields are kept
// as raw tokens. Transform then rewrites tokens to dense ids through the
// shared TemporalIndex and optionally attaches a filter set for negative
// sampling. After Transform a split is effectively immutable and safe to
// read from many goroutines.
type Dataset struct {
	// Negatives is the number of corrupted triples per positive returned by
	// TrainingPair. Defaults to 1.
	Negatives int

	// Sampler produces the corrupted triples; populated by Transform. Its
	// Corrupt mode and MaxAttempts may be adjusted before sampling starts.
	Sampler *Sampler

	path          string
	entityCount   int
	relationCount int
	arity         int

	triples   []Triple
	rawTokens [][]string // raw temporal tokens until Transform

	transformed bool
}

// Load parses one triple per line: "subject object relation tok [tok ...]",
// whitespace-delimited. Subject/object ids must lie in [0, entityCount) and
// relation ids in [0, relationCount); the temporal arity is fixed by the
// first line. Any malformed or out-of-range line fails the whole load.
func Load(path string, entityCount, relationCount int) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open triple file %s", path)
	}
	defer file.Close()

	ds := &Dataset{
		Negatives:     1,
		path:          path,
		entityCount:   entityCount,
		relationCount: relationCount,
		arity:         -1,
	}

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, errors.Errorf("%s:%d: want subject object relation and at least one temporal token, got %d fields", path, lineNo, len(fields))
		}

		sub, err := parseID(fields[0], entityCount)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: subject", path, lineNo)
		}
		obj, err := parseID(fields[1], entityCount)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: object", path, lineNo)
		}
		rel, err := parseID(fields[2], relationCount)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: relation", path, lineNo)
		}

		tokens := fields[3:]
		if ds.arity < 0 {
			ds.arity = len(tokens)
		} else if len(tokens) != ds.arity {
			return nil, errors.Errorf("%s:%d: %d temporal tokens, dataset uses %d", path, lineNo, len(tokens), ds.arity)
		}

		ds.triples = append(ds.triples, Triple{Subject: sub, Object: obj, Relation: rel})
		ds.rawTokens = append(ds.rawTokens, tokens)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read triple file %s", path)
	}

	slog.Info("loaded split",
		"path", path,
		"triples", humanize.Comma(int64(len(ds.triples))),
		"temporal_arity", ds.arity)

	return ds, nil
}

func parseID(field string, bound int) (int, error) {
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, errors.Errorf("id %q is not an integer", field)
	}
	if id < 0 || id >= bound {
		return 0, errors.Errorf("id %d out of range [0, %d)", id, bound)
	}
	return id, nil
}

// Transform rewrites the split's raw temporal tokens to ids through the
// shared index, which must have been built from the union of all splits.
//
// When known is non-nil this split's triples are added to it, so a later
// split transformed with the same set treats them as known facts. With
// filtered set, the accumulated set also becomes this split's own
// negative-sampling filter. Evaluation splits pass (idx, nil, false).
//
// Transform is called exactly once per split, before any sampling or
// sharing across goroutines.
func (d *Dataset) Transform(idx *TemporalIndex, known *TripleSet, filtered bool) error {
	if d.transformed {
		return errors.Errorf("split %s already transformed", d.path)
	}
	if filtered && known == nil {
		return errors.Errorf("split %s: filtered sampling needs a known-triples set", d.path)
	}

	for i, tokens := range d.rawTokens {
		ids := make([]int, len(tokens))
		for j, tok := range tokens {
			id, ok := idx.Lookup(tok)
			if !ok {
				return errors.Errorf("split %s: temporal token %q missing from index; the index must be built from every split", d.path, tok)
			}
			ids[j] = id
		}
		d.triples[i].Temporal = ids
	}
	d.rawTokens = nil

	if known != nil {
		for _, t := range d.triples {
			known.Add(t)
		}
	}

	d.Sampler = &Sampler{Entities: d.entityCount, MaxAttempts: DefaultMaxAttempts}
	if filtered {
		d.Sampler.Filter = known
	}
	d.transformed = true
	return nil
}

// TrainingPair returns the positive triple at index i and Negatives
// corrupted variants sharing its relation and temporal tokens. Only
// training and validation splits consume pairs; evaluation ranks against
// the whole vocabulary instead (see EvalTriple).
func (d *Dataset) TrainingPair(i int, rng *rand.Rand) (Triple, []Triple) {
	d.mustTransformed()
	pos := d.triples[i]
	return pos, d.Sampler.Negatives(pos, d.Negatives, rng)
}

// EvalTriple returns the transformed triple at index i, unmodified: no
// negatives are drawn at evaluation time.
func (d *Dataset) EvalTriple(i int) Triple {
	d.mustTransformed()
	return d.triples[i]
}

// Len returns the number of triples in the split.
func (d *Dataset) Len() int {
	return len(d.triples)
}

// Arity returns the fixed temporal token count per triple.
func (d *Dataset) Arity() int {
	return d.arity
}

// EntityCount returns the entity vocabulary size the split was loaded with.
func (d *Dataset) EntityCount() int {
	return d.entityCount
}

// RelationCount returns the relation vocabulary size.
func (d *Dataset) RelationCount() int {
	return d.relationCount
}

// Path returns the file the split was loaded from.
func (d *Dataset) Path() string {
	return d.path
}

func (d *Dataset) mustTransformed() {
	if !d.transformed {
		panic("dataset: split used before Transform")
	}
}
