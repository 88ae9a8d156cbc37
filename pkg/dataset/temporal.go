package dataset

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TemporalIndex maps raw temporal tokens to dense ids in [0, Len).
//
// Ids are assigned in lexicographic token order, so two runs over identical
// input files always produce identical ids regardless of the order tokens
// were encountered in. The index is immutable once built and is shared
// read-only by every split.
type TemporalIndex struct {
	ids    map[string]int
	tokens []string
}

// BuildTemporalIndex collects the distinct temporal tokens across every
// triple of the given splits and assigns each one an id. It must be called
// with all splits of a run (train, validation, test) before any of them is
// transformed, so tokens seen only at evaluation time still receive ids.
func BuildTemporalIndex(splits ...*Dataset) *TemporalIndex {
	seen := make(map[string]struct{})
	for _, ds := range splits {
		for _, tokens := range ds.rawTokens {
			for _, tok := range tokens {
				seen[tok] = struct{}{}
			}
		}
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	ids := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		ids[tok] = i
	}

	return &TemporalIndex{ids: ids, tokens: tokens}
}

// Lookup returns the id assigned to a token.
func (ti *TemporalIndex) Lookup(token string) (int, bool) {
	id, ok := ti.ids[token]
	return id, ok
}

// Len returns the number of distinct tokens.
func (ti *TemporalIndex) Len() int {
	return len(ti.tokens)
}

// Tokens returns the tokens in id order.
func (ti *TemporalIndex) Tokens() []string {
	out := make([]string, len(ti.tokens))
	copy(out, ti.tokens)
	return out
}

// WriteFile materializes the index in the vocabulary-file layout: the token
// count on the first line, then one "token id" pair per line.
func (ti *TemporalIndex) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create temporal index file %s", path)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "%d\n", len(ti.tokens))
	for i, tok := range ti.tokens {
		fmt.Fprintf(w, "%s %d\n", tok, i)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "write temporal index file %s", path)
	}
	return nil
}

// ReadTemporalIndex loads an index written by WriteFile.
func ReadTemporalIndex(path string) (*TemporalIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open temporal index file %s", path)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil, errors.Errorf("temporal index file %s is empty", path)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || count < 0 {
		return nil, errors.Errorf("temporal index file %s: bad count line %q", path, scanner.Text())
	}

	tokens := make([]string, count)
	ids := make(map[string]int, count)
	seen := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, errors.Errorf("temporal index file %s: bad line %q", path, line)
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil || id < 0 || id >= count {
			return nil, errors.Errorf("temporal index file %s: bad id in line %q", path, line)
		}
		if tokens[id] != "" {
			return nil, errors.Errorf("temporal index file %s: id %d assigned twice", path, id)
		}
		tokens[id] = parts[0]
		ids[parts[0]] = id
		seen++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read temporal index file %s", path)
	}
	if seen != count || len(ids) != count {
		return nil, errors.Errorf("temporal index file %s: header says %d tokens, found %d", path, count, seen)
	}

	return &TemporalIndex{ids: ids, tokens: tokens}, nil
}
