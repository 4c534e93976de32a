package evaluate

import (
	"math"
	"testing"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/aggregate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(size int64, values ...float64) aggregate.GroupSummary {
	return aggregate.GroupSummary{
		Key:    aggregate.GroupKey{schema.IntValue(size)},
		Rows:   len(values),
		Metric: aggregate.ComputeStats(values),
	}
}

func TestEvaluate_KnownScenario(t *testing.T) {
	groups := []aggregate.GroupSummary{summary(48, 14400, 14450, 14500)}

	rows, diag, err := Evaluate(groups, ReferenceTable{48: 14422}, Options{Keys: []string{"problemSize"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, 14422.0, r.Reference)
	assert.InDelta(t, 28.00, r.AbsoluteError, 1e-9)
	require.NotNil(t, r.RelativeErrorPercent)
	assert.InDelta(t, 0.20, *r.RelativeErrorPercent, 1e-9)
	assert.Empty(t, diag.Unmatched)
	assert.Empty(t, diag.Undefined)
}

func TestEvaluate_Unmatched(t *testing.T) {
	groups := []aggregate.GroupSummary{summary(48, 14422), summary(99, 10)}

	rows, diag, err := Evaluate(groups, ReferenceTable{48: 14422}, Options{Keys: []string{"problemSize"}})
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "48", rows[0].Summary.Key.String())
	require.Len(t, diag.Unmatched, 1)
	assert.Equal(t, "99", diag.Unmatched[0].String())
}

func TestEvaluate_Strict(t *testing.T) {
	groups := []aggregate.GroupSummary{summary(48, 14422), summary(99, 10)}

	rows, diag, err := Evaluate(groups, ReferenceTable{48: 14422}, Options{Keys: []string{"problemSize"}, Strict: true})
	assert.ErrorIs(t, err, ErrUnmatchedGroups)
	assert.Nil(t, rows)
	assert.Len(t, diag.Unmatched, 1)

	var ue *UnmatchedError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Error(), "99")
}

func TestEvaluate_ZeroReference(t *testing.T) {
	groups := []aggregate.GroupSummary{summary(5, 3.333)}

	rows, diag, err := Evaluate(groups, ReferenceTable{5: 0}, Options{Keys: []string{"problemSize"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.InDelta(t, 3.34, rows[0].AbsoluteError, 1e-9)
	assert.Nil(t, rows[0].RelativeErrorPercent)
	assert.True(t, rows[0].Undefined())
	require.Len(t, diag.Undefined, 1)
}

func TestEvaluate_CompositeKey(t *testing.T) {
	groups := []aggregate.GroupSummary{
		{Key: aggregate.GroupKey{schema.IntValue(17), schema.StringValue("i")}, Metric: aggregate.ComputeStats([]float64{40})},
		{Key: aggregate.GroupKey{schema.IntValue(17), schema.StringValue("s")}, Metric: aggregate.ComputeStats([]float64{39})},
	}
	opts := Options{Keys: []string{"problemSize", "mutationType"}, ReferenceKey: "problemSize"}

	rows, _, err := Evaluate(groups, ReferenceTable{17: 39}, opts)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 1.0, rows[0].AbsoluteError, 1e-9)
	assert.InDelta(t, 2.57, *rows[0].RelativeErrorPercent, 1e-9)
	assert.Zero(t, rows[1].AbsoluteError)
}

func TestEvaluate_KeyErrors(t *testing.T) {
	groups := []aggregate.GroupSummary{summary(17, 39)}

	tests := []struct {
		name string
		opts Options
	}{
		{name: "no keys", opts: Options{}},
		{name: "composite without reference key", opts: Options{Keys: []string{"a", "b"}}},
		{name: "reference key not grouped", opts: Options{Keys: []string{"a"}, ReferenceKey: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Evaluate(groups, ReferenceTable{17: 39}, tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestRelativeErrorNeverUnderstates(t *testing.T) {
	ref := 1286.0
	for i := 0; i < 5000; i++ {
		mean := ref + float64(i)*0.731
		abs := AbsoluteError(mean, ref)
		rel, ok := RelativeErrorPercent(abs, ref)
		require.True(t, ok)
		assert.GreaterOrEqual(t, rel, (mean/ref-1)*100-1e-6)
	}
}

func TestReferenceTable_Lookup(t *testing.T) {
	ref := ReferenceTable{48: 14422}

	v, ok := ref.Lookup(schema.FloatValue(48))
	assert.True(t, ok)
	assert.Equal(t, 14422.0, v)

	_, ok = ref.Lookup(schema.FloatValue(48.5))
	assert.False(t, ok)
	_, ok = ref.Lookup(schema.StringValue("48"))
	assert.False(t, ok)

	assert.Equal(t, []int64{17, 48}, ReferenceTable{48: 1, 17: 2}.Keys())
	assert.Error(t, ReferenceTable{1: -1}.Validate())
}

func TestEvaluate_ExactOptimumHasUnsignedZeroErrors(t *testing.T) {
	rows, _, err := Evaluate([]aggregate.GroupSummary{summary(17, 39)}, ReferenceTable{17: 39}, Options{Keys: []string{"problemSize"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NotNil(t, rows[0].AbsoluteError)
	require.NotNil(t, rows[0].RelativeErrorPercent)
	assert.False(t, math.Signbit(rows[0].AbsoluteError))
	assert.False(t, math.Signbit(*rows[0].RelativeErrorPercent))
}

func TestReferenceTable_ValidateRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Error(t, ReferenceTable{48: v}.Validate(), "value %v", v)
	}
	assert.NoError(t, ReferenceTable{5: 0, 48: 14422}.Validate())
}
