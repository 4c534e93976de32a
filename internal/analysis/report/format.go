package report

import (
	"strconv"
)

const (
	ColCount           = "count"
	ColReference       = "correct_answer"
	ColMean            = "mean_value"
	ColStd             = "std_value"
	ColAbsoluteErr     = "mean_absolute_error"
	ColRelativeErr     = "mean_relative_error_percent"
	distributionSuffix = "_value"
)

var distributionColumns = []string{"min", "q1", "median", "q3", "max"}

// Header lists the output columns: key columns, count, reference and error
// columns when present, distribution columns when enabled, then extras.
func (t *SummaryTable) Header() []string {
	h := append([]string{}, t.KeyColumns...)
	h = append(h, ColCount)
	if t.HasReference {
		h = append(h, ColReference)
	}
	h = append(h, ColMean, ColStd)
	if t.HasReference {
		h = append(h, ColAbsoluteErr, ColRelativeErr)
	}
	if t.Quantiles {
		for _, c := range distributionColumns {
			h = append(h, c+distributionSuffix)
		}
	}
	for _, e := range t.Extras {
		h = append(h, "mean_"+e.Name(), "std_"+e.Name())
	}
	return h
}

// Records formats every row in header order. Absent values are empty strings.
func (t *SummaryTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, t.record(r))
	}
	return out
}

func (t *SummaryTable) record(r Row) []string {
	rec := append([]string{}, r.KeyValues...)
	rec = append(rec, strconv.Itoa(r.Count))
	if t.HasReference {
		rec = append(rec, formatOptional(r.Reference))
	}
	rec = append(rec, formatFloat(r.Mean), formatOptional(r.Std))
	if t.HasReference {
		rec = append(rec, formatError(r.AbsoluteError), formatError(r.RelativeErrorPercent))
	}
	if t.Quantiles {
		d := r.Distribution
		if d == nil {
			d = &Distribution{}
		}
		for _, v := range []float64{d.Min, d.Q1, d.Median, d.Q3, d.Max} {
			rec = append(rec, formatFloat(v))
		}
	}
	for _, e := range r.Extras {
		rec = append(rec, formatFloat(e.Mean), formatOptional(e.Std))
	}
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// Errors are always printed with two decimals, so 28 reads 28.00.
func formatError(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
