package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/table"
)

// ratePercentScale is the full scale of rate columns, which are percentages.
const ratePercentScale = 100.0

type ParameterScore struct {
	Column     string  `json:"column"`
	Value      float64 `json:"value"`
	Range      float64 `json:"range"`
	Normalized float64 `json:"normalized"`
}

type BestTrial struct {
	Source  string           `json:"source"`
	Line    int              `json:"line"`
	Metric  float64          `json:"metric"`
	Profile []ParameterScore `json:"profile"`
}

var ErrEmptyTable = errors.New("table has no records")

// Best picks the trial with the lowest metric (first one wins ties) and scores
// its parameters on a 0-100 scale: rate columns against 100, the rest against
// the column maximum over the whole table.
func Best(t *table.Table, metric string, params []string) (*BestTrial, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}
	values, err := t.Floats(metric)
	if err != nil {
		return nil, fmt.Errorf("metric: %w", err)
	}

	best := 0
	for i, v := range values {
		if v < values[best] {
			best = i
		}
	}
	rec := t.Records[best]

	bt := &BestTrial{
		Source: rec.Source,
		Line:   rec.Line,
		Metric: values[best],
	}

	for _, p := range params {
		col, err := t.Floats(p)
		if err != nil {
			return nil, fmt.Errorf("parameter: %w", err)
		}
		v, _ := rec.Value(t.Schema, p)

		scale := ratePercentScale
		if !isRate(p) {
			scale = maxOf(col)
		}
		score := ParameterScore{Column: p, Value: v.Num, Range: scale}
		if scale != 0 {
			score.Normalized = v.Num / scale * 100
		}
		bt.Profile = append(bt.Profile, score)
	}
	return bt, nil
}

func isRate(column string) bool {
	return strings.Contains(column, "Rate")
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// NumericParameters lists the numeric columns other than the excluded ones, in
// schema order.
func NumericParameters(s *schema.Schema, exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var out []string
	for _, c := range s.Columns {
		if c.Type.Numeric() && !skip[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}
