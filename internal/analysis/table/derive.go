package table

import (
	"fmt"
	"sort"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
)

// Derivation adds a computed float column. Derived columns are always
// requested explicitly and show up in the table schema.
type Derivation struct {
	Column  string
	Inputs  []string
	Compute func(inputs []float64) float64
}

// OffspringRate is the share of a GA generation produced by crossover, in
// percent: 100 - mutationRate - randomRate.
var OffspringRate = Derivation{
	Column: "offspringRate",
	Inputs: []string{"mutationRate", "randomRate"},
	Compute: func(in []float64) float64 {
		return 100 - in[0] - in[1]
	},
}

var derivations = map[string]Derivation{
	OffspringRate.Column: OffspringRate,
}

func LookupDerivation(name string) (Derivation, error) {
	d, ok := derivations[name]
	if !ok {
		return Derivation{}, fmt.Errorf("unknown derived column %q, expected one of %v", name, DerivationNames())
	}
	return d, nil
}

func DerivationNames() []string {
	names := make([]string, 0, len(derivations))
	for n := range derivations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Derive returns a new table whose schema is extended by the derived columns.
func (t *Table) Derive(ds ...Derivation) (*Table, error) {
	if len(ds) == 0 {
		return t, nil
	}

	cols := make([]schema.Column, len(ds))
	inputIdx := make([][]int, len(ds))
	for i, d := range ds {
		cols[i] = schema.Column{Name: d.Column, Type: schema.Float}
		for _, in := range d.Inputs {
			idx, err := t.numericIndex(in)
			if err != nil {
				return nil, fmt.Errorf("derive %q: %w", d.Column, err)
			}
			inputIdx[i] = append(inputIdx[i], idx)
		}
	}

	extended, err := t.Schema.Extend(cols...)
	if err != nil {
		return nil, fmt.Errorf("derive columns: %w", err)
	}

	out := &Table{Schema: extended, Records: make([]schema.Record, len(t.Records))}
	for j, r := range t.Records {
		values := make([]schema.Value, len(r.Values), len(r.Values)+len(ds))
		copy(values, r.Values)
		for i, d := range ds {
			in := make([]float64, len(inputIdx[i]))
			for k, idx := range inputIdx[i] {
				in[k] = r.Values[idx].Num
			}
			values = append(values, schema.FloatValue(d.Compute(in)))
		}
		out.Records[j] = schema.Record{Source: r.Source, Line: r.Line, Values: values}
	}
	return out, nil
}
