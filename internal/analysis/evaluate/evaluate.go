package evaluate

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/aggregate"
	"github.com/DjordjeVuckovic/tsp-results/pkg/utils"
)

var ErrUnmatchedGroups = errors.New("groups without reference value")

// UnmatchedError is returned in strict mode when some groups have no
// reference value.
type UnmatchedError struct {
	Keys []aggregate.GroupKey
}

func (e *UnmatchedError) Error() string {
	keys := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		keys[i] = k.String()
	}
	return fmt.Sprintf("%d %s: %s", len(e.Keys), ErrUnmatchedGroups, strings.Join(keys, ", "))
}

func (e *UnmatchedError) Unwrap() error { return ErrUnmatchedGroups }

type Options struct {
	// Keys are the group key columns, in the order used by the aggregator.
	Keys []string
	// ReferenceKey is the key column joined against the reference table.
	// It may be omitted when there is a single key column.
	ReferenceKey string
	Strict       bool
}

// ErrorRow is a group joined with its reference value. RelativeErrorPercent
// is nil when the reference value is zero.
type ErrorRow struct {
	Summary              aggregate.GroupSummary
	Reference            float64
	AbsoluteError        float64
	RelativeErrorPercent *float64
}

func (r ErrorRow) Undefined() bool {
	return r.RelativeErrorPercent == nil
}

type Diagnostics struct {
	Unmatched []aggregate.GroupKey
	Undefined []aggregate.GroupKey
}

// Evaluate computes ceiling-rounded absolute and relative errors for every
// group that has a reference value. Groups without one are left out of the
// result and listed in the diagnostics.
func Evaluate(groups []aggregate.GroupSummary, ref ReferenceTable, opts Options) ([]ErrorRow, Diagnostics, error) {
	var diag Diagnostics

	pos, err := opts.referencePosition()
	if err != nil {
		return nil, diag, err
	}

	rows := make([]ErrorRow, 0, len(groups))
	for _, g := range groups {
		if pos >= len(g.Key) {
			return nil, diag, fmt.Errorf("group key %s has no %q component", g.Key, opts.ReferenceKey)
		}
		refValue, ok := ref.Lookup(g.Key[pos])
		if !ok {
			diag.Unmatched = append(diag.Unmatched, g.Key)
			continue
		}

		row := ErrorRow{
			Summary:       g,
			Reference:     refValue,
			AbsoluteError: AbsoluteError(g.Metric.Mean, refValue),
		}
		if rel, ok := RelativeErrorPercent(row.AbsoluteError, refValue); ok {
			row.RelativeErrorPercent = &rel
		} else {
			diag.Undefined = append(diag.Undefined, g.Key)
		}
		rows = append(rows, row)
	}

	if opts.Strict && len(diag.Unmatched) > 0 {
		return nil, diag, &UnmatchedError{Keys: diag.Unmatched}
	}
	return rows, diag, nil
}

func (o Options) referencePosition() (int, error) {
	switch {
	case len(o.Keys) == 0:
		return 0, aggregate.ErrNoKeys
	case o.ReferenceKey == "" && len(o.Keys) == 1:
		return 0, nil
	case o.ReferenceKey == "":
		return 0, fmt.Errorf("reference key is required with composite group keys %v", o.Keys)
	}
	pos := slices.Index(o.Keys, o.ReferenceKey)
	if pos < 0 {
		return 0, fmt.Errorf("reference key %q is not a group key %v", o.ReferenceKey, o.Keys)
	}
	return pos, nil
}

// AbsoluteError is |mean - reference| rounded up to hundredths.
func AbsoluteError(mean, reference float64) float64 {
	return utils.CeilHundredths(math.Abs(mean - reference))
}

// RelativeErrorPercent is the absolute error as a percentage of the reference,
// rounded up to hundredths. It is undefined for a zero reference.
func RelativeErrorPercent(absErr, reference float64) (float64, bool) {
	if reference == 0 {
		return 0, false
	}
	return utils.CeilHundredths(absErr / reference * 100), true
}
