package table

import (
	"fmt"
	"math"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/loader"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
)

// Table is the unified record set of one run. Every record carries exactly the
// schema's columns.
type Table struct {
	Schema  *schema.Schema
	Records []schema.Record
}

// Unify concatenates all parsed files in discovery order and coerces int
// columns to whole numbers by rounding, so 47.9999 and 48 land in one group.
func Unify(res *loader.Result) *Table {
	t := &Table{
		Schema:  res.Schema,
		Records: make([]schema.Record, 0, res.RowCount()),
	}
	for _, f := range res.Files {
		for _, r := range f.Records {
			t.Records = append(t.Records, normalize(res.Schema, r))
		}
	}
	return t
}

func FromRecords(s *schema.Schema, records []schema.Record) *Table {
	t := &Table{Schema: s, Records: make([]schema.Record, 0, len(records))}
	for _, r := range records {
		t.Records = append(t.Records, normalize(s, r))
	}
	return t
}

func normalize(s *schema.Schema, r schema.Record) schema.Record {
	values := make([]schema.Value, len(r.Values))
	copy(values, r.Values)
	for i, col := range s.Columns {
		if col.Type == schema.Int {
			values[i].Num = math.Round(values[i].Num)
		}
	}
	return schema.Record{Source: r.Source, Line: r.Line, Values: values}
}

func (t *Table) Len() int { return len(t.Records) }

// Floats returns a numeric column in record order.
func (t *Table) Floats(column string) ([]float64, error) {
	i, err := t.numericIndex(column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.Records))
	for j, r := range t.Records {
		out[j] = r.Values[i].Num
	}
	return out, nil
}

func (t *Table) numericIndex(column string) (int, error) {
	col, ok := t.Schema.Column(column)
	if !ok {
		return 0, fmt.Errorf("unknown column %q in schema %s", column, t.Schema.Name)
	}
	if !col.Type.Numeric() {
		return 0, fmt.Errorf("column %q is not numeric", column)
	}
	i, _ := t.Schema.Index(column)
	return i, nil
}
