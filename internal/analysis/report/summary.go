package report

import (
	"sort"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/aggregate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/DjordjeVuckovic/tsp-results/pkg/utils"
)

// extraDecimals is the precision of aggregated extra columns such as the mean
// elapsed time.
const extraDecimals = 2

type Layout struct {
	KeyColumns []string
	Metric     string
	Extras     []Extra
	Quantiles  bool
}

// FromGroups builds a summary table without error columns.
func FromGroups(l Layout, groups []aggregate.GroupSummary) *SummaryTable {
	t := l.table(false)
	for _, g := range groups {
		t.Rows = append(t.Rows, l.row(g))
	}
	t.sort()
	return t
}

// FromErrorRows builds a summary table from evaluated groups.
func FromErrorRows(l Layout, rows []evaluate.ErrorRow) *SummaryTable {
	t := l.table(true)
	for _, er := range rows {
		r := l.row(er.Summary)
		ref, abs := er.Reference, er.AbsoluteError
		r.Reference = &ref
		r.AbsoluteError = &abs
		if er.RelativeErrorPercent != nil {
			rel := *er.RelativeErrorPercent
			r.RelativeErrorPercent = &rel
		}
		t.Rows = append(t.Rows, r)
	}
	t.sort()
	return t
}

func (l Layout) table(hasReference bool) *SummaryTable {
	return &SummaryTable{
		KeyColumns:   l.KeyColumns,
		Metric:       l.Metric,
		Extras:       l.Extras,
		HasReference: hasReference,
		Quantiles:    l.Quantiles,
		Rows:         make([]Row, 0),
	}
}

func (l Layout) row(g aggregate.GroupSummary) Row {
	r := Row{
		Key:       g.Key,
		KeyValues: g.Key.Strings(),
		Count:     g.Metric.Count,
		Rows:      g.Rows,
		Mean:      g.Metric.Mean,
		Std:       g.Metric.Std,
	}
	if l.Quantiles {
		r.Distribution = &Distribution{
			Min:    g.Metric.Min,
			Q1:     g.Metric.Q1,
			Median: g.Metric.Median,
			Q3:     g.Metric.Q3,
			Max:    g.Metric.Max,
		}
	}
	for _, e := range l.Extras {
		s := g.Extras[e.Column]
		r.Extras = append(r.Extras, ExtraValue{
			Label: e.Name(),
			Mean:  utils.RoundDecimal(s.Mean, extraDecimals),
			Std:   s.Std,
		})
	}
	return r
}

func (t *SummaryTable) sort() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Key.Compare(t.Rows[j].Key) < 0
	})
}

// Plottable drops rows with an undefined relative error unless they are
// explicitly requested.
func (t *SummaryTable) Plottable(includeUndefined bool) *SummaryTable {
	if includeUndefined || !t.HasReference {
		return t
	}
	out := *t
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !r.Undefined() {
			out.Rows = append(out.Rows, r)
		}
	}
	return &out
}

func (t *SummaryTable) Len() int { return len(t.Rows) }
