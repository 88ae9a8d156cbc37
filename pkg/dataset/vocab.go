package dataset

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadCount reads a vocabulary size from the first line of an id file
// (entity2id.txt, relation2id.txt). The first line must be a non-negative
// decimal integer; the remainder of the file is ignored here, since triples
// arrive pre-mapped to dense ids.
func ReadCount(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open vocabulary file %s", path)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, errors.Wrapf(err, "read vocabulary file %s", path)
		}
		return 0, errors.Errorf("vocabulary file %s is empty", path)
	}

	first := strings.TrimSpace(scanner.Text())
	count, err := strconv.Atoi(first)
	if err != nil {
		return 0, errors.Errorf("vocabulary file %s: first line %q is not an integer", path, first)
	}
	if count < 0 {
		return 0, errors.Errorf("vocabulary file %s: negative count %d", path, count)
	}

	return count, nil
}
