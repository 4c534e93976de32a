package spec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"gopkg.in/yaml.v3"
)

// ErrDatabaseReference means the reference table has to come from storage.
var ErrDatabaseReference = errors.New("reference is stored in the database")

// DefaultReference returns the known optimal tour costs of the benchmark
// instances, keyed by city count.
func DefaultReference() evaluate.ReferenceTable {
	return evaluate.ReferenceTable{
		17: 39,
		34: 1286,
		39: 1530,
		45: 1613,
		48: 14422,
		53: 6905,
		65: 1839,
		71: 1950,
	}
}

// ResolveReference builds the reference table from a file, inline values or
// the built-in table.
func ResolveReference(r *Reference) (evaluate.ReferenceTable, error) {
	var (
		ref evaluate.ReferenceTable
		err error
	)
	switch {
	case r.Database:
		return nil, ErrDatabaseReference
	case r.File != "":
		ref, err = LoadReferenceFile(r.File)
	case len(r.Values) > 0:
		ref = make(evaluate.ReferenceTable, len(r.Values))
		for k, v := range r.Values {
			ref[k] = v
		}
	case r.Default:
		ref = DefaultReference()
	default:
		return nil, fmt.Errorf("reference has no source")
	}
	if err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

// LoadReferenceFile reads a YAML mapping (size: cost) or a CSV file with
// size,cost rows. A CSV header row is skipped.
func LoadReferenceFile(path string) (evaluate.ReferenceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseReferenceCSV(f)
	default:
		return parseReferenceYAML(f)
	}
}

func parseReferenceYAML(r io.Reader) (evaluate.ReferenceTable, error) {
	var ref evaluate.ReferenceTable
	if err := yaml.NewDecoder(r).Decode(&ref); err != nil {
		return nil, fmt.Errorf("parse reference YAML: %w", err)
	}
	if len(ref) == 0 {
		return nil, fmt.Errorf("reference file is empty")
	}
	return ref, nil
}

func parseReferenceCSV(r io.Reader) (evaluate.ReferenceTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse reference CSV: %w", err)
	}

	ref := make(evaluate.ReferenceTable, len(rows))
	for i, row := range rows {
		size, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("reference row %d: invalid size %q", i+1, row[0])
		}
		cost, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("reference row %d: invalid cost %q", i+1, row[1])
		}
		ref[size] = cost
	}
	if len(ref) == 0 {
		return nil, fmt.Errorf("reference file is empty")
	}
	return ref, nil
}
