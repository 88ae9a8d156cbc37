package model

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Embeddings holds the three lookup tables a temporal scorer reads from.
// Tables are row-per-id with a shared dimension.
type Embeddings struct {
	Dim      int
	Entity   [][]float64
	Relation [][]float64
	Temporal [][]float64
}

// NewEmbeddings allocates seeded random tables: uniform in (-0.5, 0.5)/dim,
// with entity rows L2-normalized. This is the usual cold-start state a
// trainer refines; evaluation runs normally load a checkpoint instead.
func NewEmbeddings(entities, relations, temporals, dim int, seed int64) *Embeddings {
	rng := rand.New(rand.NewSource(seed))
	e := &Embeddings{
		Dim:      dim,
		Entity:   randomTable(entities, dim, rng),
		Relation: randomTable(relations, dim, rng),
		Temporal: randomTable(temporals, dim, rng),
	}
	for i := range e.Entity {
		normalizeRow(e.Entity[i])
	}
	return e
}

func randomTable(rows, dim int, rng *rand.Rand) [][]float64 {
	table := make([][]float64, rows)
	for i := range table {
		row := make([]float64, dim)
		for d := range row {
			row[d] = (rng.Float64() - 0.5) / float64(dim)
		}
		table[i] = row
	}
	return table
}

func normalizeRow(row []float64) {
	var norm float64
	for _, v := range row {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 1e-10 {
		for d := range row {
			row[d] /= norm
		}
	}
}

// Table file names used by SaveText/LoadText.
const (
	entityVecFile   = "entity.vec"
	relationVecFile = "relation.vec"
	temporalVecFile = "temporal.vec"
)

// SaveText writes the three tables into dir as plain-text vector files:
// "count dim" on the first line, then one "id v1 ... vd" row per line. The
// format round-trips with LoadText and stays greppable for inspection.
func (e *Embeddings) SaveText(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create embedding dir %s", dir)
	}
	tables := []struct {
		name string
		rows [][]float64
	}{
		{entityVecFile, e.Entity},
		{relationVecFile, e.Relation},
		{temporalVecFile, e.Temporal},
	}
	for _, t := range tables {
		if err := writeVecFile(filepath.Join(dir, t.name), t.rows, e.Dim); err != nil {
			return err
		}
	}
	return nil
}

func writeVecFile(path string, rows [][]float64, dim int) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create vector file %s", path)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "%d %d\n", len(rows), dim)
	for i, row := range rows {
		fmt.Fprintf(w, "%d", i)
		for _, v := range row {
			fmt.Fprintf(w, " %.6f", v)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "write vector file %s", path)
	}
	return nil
}

// LoadText reads tables written by SaveText. The three files must agree on
// the dimension.
func LoadText(dir string) (*Embeddings, error) {
	entity, dim, err := readVecFile(filepath.Join(dir, entityVecFile), -1)
	if err != nil {
		return nil, err
	}
	relation, dim, err := readVecFile(filepath.Join(dir, relationVecFile), dim)
	if err != nil {
		return nil, err
	}
	temporal, dim, err := readVecFile(filepath.Join(dir, temporalVecFile), dim)
	if err != nil {
		return nil, err
	}
	return &Embeddings{Dim: dim, Entity: entity, Relation: relation, Temporal: temporal}, nil
}

func readVecFile(path string, wantDim int) ([][]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "open vector file %s", path)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	if !scanner.Scan() {
		return nil, 0, errors.Errorf("vector file %s is empty", path)
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, 0, errors.Errorf("vector file %s: bad header %q", path, scanner.Text())
	}
	count, err1 := strconv.Atoi(header[0])
	dim, err2 := strconv.Atoi(header[1])
	if err1 != nil || err2 != nil || count < 0 || dim <= 0 {
		return nil, 0, errors.Errorf("vector file %s: bad header %q", path, scanner.Text())
	}
	if wantDim >= 0 && dim != wantDim {
		return nil, 0, errors.Errorf("vector file %s: dimension %d, other tables use %d", path, dim, wantDim)
	}

	rows := make([][]float64, count)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != dim+1 {
			return nil, 0, errors.Errorf("vector file %s: row %q has %d values, want %d", path, fields[0], len(fields)-1, dim)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil || id < 0 || id >= count {
			return nil, 0, errors.Errorf("vector file %s: bad row id %q", path, fields[0])
		}
		if rows[id] != nil {
			return nil, 0, errors.Errorf("vector file %s: row %d appears twice", path, id)
		}
		row := make([]float64, dim)
		for d := 0; d < dim; d++ {
			v, err := strconv.ParseFloat(fields[d+1], 64)
			if err != nil {
				return nil, 0, errors.Errorf("vector file %s: row %d has bad value %q", path, id, fields[d+1])
			}
			row[d] = v
		}
		rows[id] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, errors.Wrapf(err, "read vector file %s", path)
	}
	for id, row := range rows {
		if row == nil {
			return nil, 0, errors.Errorf("vector file %s: missing row %d", path, id)
		}
	}
	return rows, dim, nil
}
