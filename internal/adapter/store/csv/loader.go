// Package csv provides CSV-based loading of scattered (x, y, value)
// samples.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.ngs.io/regrid-api/internal/domain"
)

// TripleStore loads scattered samples from CSV files in a data directory.
// Files are named <name>_triples.csv and carry an x,y,value header. An
// empty value column marks a missing sample and is loaded as NaN.
type TripleStore struct {
	dataDir string
}

// NewTripleStore creates a new CSV-based triple store.
func NewTripleStore(dataDir string) *TripleStore {
	return &TripleStore{
		dataDir: dataDir,
	}
}

// LoadTriples loads the named sample set.
func (s *TripleStore) LoadTriples(name string) (domain.TripleSet, error) {
	filename := filepath.Join(s.dataDir, fmt.Sprintf("%s_triples.csv", strings.ToLower(name)))

	//nolint:gosec // G304: File path constructed from dataDir (config) and name (validated).
	file, err := os.Open(filename)
	if err != nil {
		return domain.TripleSet{}, fmt.Errorf("failed to open CSV file for %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	return readTriples(file)
}

func readTriples(r io.Reader) (domain.TripleSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return domain.TripleSet{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	expectedHeaders := []string{"x", "y", "value"}
	if len(header) != len(expectedHeaders) {
		return domain.TripleSet{}, fmt.Errorf("invalid CSV header: expected %v, got %v", expectedHeaders, header)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return domain.TripleSet{}, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s",
				i, expectedHeaders[i], h)
		}
	}

	var triples domain.TripleSet
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.TripleSet{}, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		if len(record) != 3 {
			return domain.TripleSet{}, fmt.Errorf("invalid CSV record on line %d: expected 3 columns, got %d",
				line, len(record))
		}

		x, err := parseFloat(record[0])
		if err != nil {
			return domain.TripleSet{}, fmt.Errorf("invalid x on line %d: %w", line, err)
		}
		y, err := parseFloat(record[1])
		if err != nil {
			return domain.TripleSet{}, fmt.Errorf("invalid y on line %d: %w", line, err)
		}

		v := math.NaN()
		if strings.TrimSpace(record[2]) != "" {
			v, err = parseFloat(record[2])
			if err != nil {
				return domain.TripleSet{}, fmt.Errorf("invalid value on line %d: %w", line, err)
			}
		}

		triples.X = append(triples.X, x)
		triples.Y = append(triples.Y, y)
		triples.Values = append(triples.Values, v)
	}

	if err := triples.Validate(); err != nil {
		return domain.TripleSet{}, err
	}
	return triples, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
