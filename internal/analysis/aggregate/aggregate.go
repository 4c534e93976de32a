package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/table"
)

type Options struct {
	Keys   []string
	Metric string
	Extras []string
	// Limit caps every group to its first Limit rows in table order before
	// statistics are computed. Zero disables truncation.
	Limit int
}

type GroupSummary struct {
	Key GroupKey
	// Rows is the group size before truncation; Metric.Count is what was used.
	Rows   int
	Metric Stats
	Extras map[string]Stats
}

func (g GroupSummary) Truncated() bool {
	return g.Metric.Count < g.Rows
}

var ErrNoKeys = errors.New("at least one group key is required")

type group struct {
	key    GroupKey
	rows   int
	metric []float64
	extras [][]float64
}

// Aggregate partitions the table by the key columns and summarises the metric
// and extra columns of every group. The result is sorted by key.
func Aggregate(t *table.Table, opts Options) ([]GroupSummary, error) {
	if len(opts.Keys) == 0 {
		return nil, ErrNoKeys
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", opts.Limit)
	}

	keyIdx := make([]int, len(opts.Keys))
	for i, k := range opts.Keys {
		idx, ok := t.Schema.Index(k)
		if !ok {
			return nil, fmt.Errorf("unknown key column %q in schema %s", k, t.Schema.Name)
		}
		keyIdx[i] = idx
	}

	metric, err := t.Floats(opts.Metric)
	if err != nil {
		return nil, fmt.Errorf("metric: %w", err)
	}
	extras := make([][]float64, len(opts.Extras))
	for i, e := range opts.Extras {
		extras[i], err = t.Floats(e)
		if err != nil {
			return nil, fmt.Errorf("extra column: %w", err)
		}
	}

	groups := make(map[string]*group)
	var order []*group

	for j, r := range t.Records {
		key := make(GroupKey, len(keyIdx))
		for i, idx := range keyIdx {
			key[i] = r.Values[idx]
		}
		h := key.Hash()

		g, ok := groups[h]
		if !ok {
			g = &group{key: key, extras: make([][]float64, len(opts.Extras))}
			groups[h] = g
			order = append(order, g)
		}

		g.rows++
		if opts.Limit > 0 && len(g.metric) >= opts.Limit {
			continue
		}
		g.metric = append(g.metric, metric[j])
		for i := range extras {
			g.extras[i] = append(g.extras[i], extras[i][j])
		}
	}

	summaries := make([]GroupSummary, 0, len(order))
	for _, g := range order {
		gs := GroupSummary{
			Key:    g.key,
			Rows:   g.rows,
			Metric: ComputeStats(g.metric),
			Extras: make(map[string]Stats, len(opts.Extras)),
		}
		for i, name := range opts.Extras {
			gs.Extras[name] = ComputeStats(g.extras[i])
		}
		summaries = append(summaries, gs)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Key.Compare(summaries[j].Key) < 0
	})

	return summaries, nil
}
