package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/loader"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/spec"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func tabuConfig(t *testing.T, dir, extra string) *spec.Config {
	t.Helper()
	cfg, err := spec.Parse([]byte(`
input:
  pattern: ` + filepath.Join(dir, "resultsTabu_*.csv") + `
  schema: tabu
aggregation:
  keys: [city_size]
  metric: best_path
  extras:
    - {column: time, label: elapsed_time}
` + extra))
	require.NoError(t, err)
	return cfg
}

func TestRun_KnownScenario(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,48,1.5,14400\n",
		"resultsTabu_2.csv": "tabu,48,2.5,14450\n",
		"resultsTabu_3.csv": "tabu,48,3.5,14500\n",
	})
	cfg := tabuConfig(t, dir, "reference: {values: {48: 14422}}\n")

	res, err := New().Run(t.Context(), cfg)
	require.NoError(t, err)

	require.Equal(t, 1, res.Summary.Len())
	row := res.Summary.Rows[0]
	assert.Equal(t, []string{"48"}, row.KeyValues)
	assert.Equal(t, 3, row.Count)
	assert.InDelta(t, 14450, row.Mean, 1e-9)
	assert.InDelta(t, 28.00, *row.AbsoluteError, 1e-9)
	assert.InDelta(t, 0.20, *row.RelativeErrorPercent, 1e-9)
	assert.InDelta(t, 2.5, row.Extras[0].Mean, 1e-9)

	assert.Equal(t, 3, res.Diagnostics.MatchedFiles)
	assert.Equal(t, 3, res.Diagnostics.LoadedRows)
	assert.True(t, res.Diagnostics.Empty())
	assert.NotEmpty(t, res.RunID.String())
}

func TestRun_NoInputFound(t *testing.T) {
	dir := t.TempDir()
	cfg := tabuConfig(t, dir, "reference: {default: true}\n")

	before := testutil.ToFloat64(runsTotal.WithLabelValues("no_input"))
	res, err := New().Run(t.Context(), cfg)

	assert.ErrorIs(t, err, loader.ErrNoInputFound)
	assert.Nil(t, res, "no partial summary is emitted")
	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues("no_input")))
}

func TestRun_Diagnostics(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,17,0.1,39\ntabu,17,0.2,40\ntabu,17,0.3,90\n",
		"resultsTabu_2.csv": "tabu,99,1.0,500\n",
		"resultsTabu_3.csv": "tabu,5,1.0,3\n",
		"resultsTabu_4.csv": "tabu,48,x,14400\n",
	})
	cfg := tabuConfig(t, dir, `  limit: 2
reference:
  values: {17: 39, 5: 0}
`)

	res, err := New().Run(t.Context(), cfg)
	require.NoError(t, err)

	d := res.Diagnostics
	require.Len(t, d.FailedFiles, 1)
	assert.Equal(t, filepath.Join(dir, "resultsTabu_4.csv"), d.FailedFiles[0].Path)
	assert.Equal(t, 5, d.LoadedRows)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, []string{"17"}, d.TruncatedGroups)
	assert.Equal(t, []string{"99"}, d.UnmatchedGroups)
	assert.Equal(t, []string{"5"}, d.UndefinedGroups)

	assert.Equal(t, 2, res.Summary.Len(), "unmatched group is excluded")
	assert.Equal(t, 1, res.Output().Len(), "undefined relative error is not plotted")
	assert.InDelta(t, 39.5, res.Output().Rows[0].Mean, 1e-9)

	cfg.Reference.IncludeUndefined = true
	assert.Equal(t, 2, res.Output().Len())
}

func TestRun_Strict(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,99,1.0,500\n",
	})
	cfg := tabuConfig(t, dir, "reference: {default: true, strict: true}\n")

	_, err := New().Run(t.Context(), cfg)
	assert.ErrorIs(t, err, evaluate.ErrUnmatchedGroups)
}

func TestRun_WithoutReference(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,48,1,10\ntabu,17,1,20\n",
	})
	cfg := tabuConfig(t, dir, "")

	res, err := New().Run(t.Context(), cfg)
	require.NoError(t, err)
	assert.False(t, res.Summary.HasReference)
	assert.Equal(t, []string{"17"}, res.Output().Rows[0].KeyValues)
}

type fakeReferences struct {
	ref evaluate.ReferenceTable
	err error
}

func (f fakeReferences) LoadReference(context.Context) (evaluate.ReferenceTable, error) {
	return f.ref, f.err
}

func TestRun_DatabaseReference(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,17,1,40\n",
	})
	cfg := tabuConfig(t, dir, "reference: {database: true}\n")

	_, err := New().Run(t.Context(), cfg)
	assert.ErrorIs(t, err, ErrNoReferenceSource)

	boom := errors.New("boom")
	_, err = New(WithReferenceSource(fakeReferences{err: boom})).Run(t.Context(), cfg)
	assert.ErrorIs(t, err, boom)

	res, err := New(WithReferenceSource(fakeReferences{ref: evaluate.ReferenceTable{17: 39}})).Run(t.Context(), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 2.57, *res.Summary.Rows[0].RelativeErrorPercent, 1e-9)
}

func TestRun_GAWithDerivedColumnAndBest(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ga_1.csv": "GA,17,1.0,40,100,10,20,80,i,500,30,30,10\n" +
			"GA,17,2.0,39,200,20,10,80,s,500,30,30,10\n",
		"ga_2.csv": "GA,17,3.0,41,400,10,10,80,s,1000,30,30,10\n",
	})
	cfg, err := spec.Parse([]byte(`
input:
  pattern: ` + filepath.Join(dir, "ga_*.csv") + `
  schema: ga
derived: [offspringRate]
aggregation:
  keys: [problemSize, mutationType]
  metric: bestCost
  extras: [{column: offspringRate}]
  best: true
reference:
  key: problemSize
  default: true
output:
  format: table
`))
	require.NoError(t, err)

	res, err := New().Run(t.Context(), cfg)
	require.NoError(t, err)

	require.Equal(t, 2, res.Summary.Len())
	assert.Equal(t, []string{"17", "i"}, res.Summary.Rows[0].KeyValues)
	assert.Equal(t, []string{"17", "s"}, res.Summary.Rows[1].KeyValues)
	assert.InDelta(t, 75, res.Summary.Rows[1].Extras[0].Mean, 1e-9)

	require.NotNil(t, res.Best)
	assert.Equal(t, 39.0, res.Best.Metric)
	for _, p := range res.Best.Profile {
		assert.NotEqual(t, "offspringRate", p.Column)
		assert.NotEqual(t, "problemSize", p.Column)
	}

	var buf bytes.Buffer
	require.NoError(t, report.Write(res.Document(), cfg.Output.Format, &buf))
	assert.Contains(t, buf.String(), "Best trial")
}

func TestRun_Idempotent(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,48,1.5,14400\ntabu,17,0.1,39\n",
		"resultsTabu_2.csv": "tabu,48,2.5,14450\ntabu,34,0.4,1300\n",
		"resultsTabu_3.csv": "tabu,48,3.5,14500\n",
	})
	cfg := tabuConfig(t, dir, "  limit: 2\nreference: {default: true}\n")

	render := func() string {
		res, err := New().Run(t.Context(), cfg)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, report.WriteCSV(res.Output(), &buf))
		return buf.String()
	}
	assert.Equal(t, render(), render())
}

func TestRun_ExactOptimumCSV(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,17,0.1,39\n",
	})
	cfg := tabuConfig(t, dir, "reference: {default: true}\n")

	res, err := New().Run(t.Context(), cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(res.Output(), &buf))
	assert.Contains(t, buf.String(), "\n17,1,39,39,,0.00,0.00,0.1,")
	assert.NotContains(t, buf.String(), "-0")
}

func TestRun_NonFiniteReferenceFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"resultsTabu_1.csv": "tabu,48,0.1,14450\n",
		"reference.csv":     "48,NaN\n",
	})
	cfg := tabuConfig(t, dir, "reference: {file: "+filepath.Join(dir, "reference.csv")+"}\n")

	res, err := New().Run(t.Context(), cfg)
	assert.Error(t, err)
	assert.Nil(t, res)
}
