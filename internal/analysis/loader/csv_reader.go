package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
)

var ErrEmptyFile = errors.New("file has no rows")

// CSVReader parses headerless, positional result rows.
type CSVReader struct {
	reader io.Reader
	schema *schema.Schema
	source string
}

func NewCSVReader(reader io.Reader, s *schema.Schema, source string) *CSVReader {
	return &CSVReader{
		reader: reader,
		schema: s,
		source: source,
	}
}

// Read parses every row. The first malformed row aborts the read so that a
// file either contributes all of its rows or none.
func (cr *CSVReader) Read() ([]schema.Record, error) {
	csvReader := csv.NewReader(cr.reader)
	// field count is checked against the schema, not the first row
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	var records []schema.Record
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := csvReader.FieldPos(0)
		values, err := schema.ParseRow(cr.schema, line, row)
		if err != nil {
			return nil, err
		}
		records = append(records, schema.Record{
			Source: cr.source,
			Line:   line,
			Values: values,
		})
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return records, nil
}
