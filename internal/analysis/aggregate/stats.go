package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarises one numeric column of a group. Std is nil for a single
// sample: one trial says nothing about spread.
type Stats struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Std    *float64 `json:"std"`
	Min    float64  `json:"min"`
	Q1     float64  `json:"q1"`
	Median float64  `json:"median"`
	Q3     float64  `json:"q3"`
	Max    float64  `json:"max"`
}

func ComputeStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Stats{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantile(0.25, sorted),
		Median: quantile(0.5, sorted),
		Q3:     quantile(0.75, sorted),
	}

	if len(sorted) == 1 {
		s.Mean = sorted[0]
		return s
	}

	// sample standard deviation, N-1 denominator
	mean, std := stat.MeanStdDev(values, nil)
	s.Mean = mean
	s.Std = &std
	return s
}

// quantile interpolates linearly between the order statistics around
// p*(n-1), the estimator box plots of the result tables are drawn with.
// gonum's LinInterp interpolates at p*n instead.
func quantile(p float64, sorted []float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
