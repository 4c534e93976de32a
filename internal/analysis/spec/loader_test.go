package spec

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
	"github.com/DjordjeVuckovic/tsp-results/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		yaml := `
input:
  pattern: results/resultsTabu_*.csv
  schema: tabu
  workers: 2
aggregation:
  keys: [city_size]
  metric: best_path
  extras:
    - column: time
      label: elapsed_time
  limit: 10
reference:
  values:
    17: 39
    48: 14422
output:
  path: results/tabuResultsTable.csv
`
		c, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.Equal(t, "results/resultsTabu_*.csv", c.Input.Pattern)
		assert.Equal(t, 10, c.Aggregation.Limit)
		assert.Equal(t, "elapsed_time", c.Aggregation.Extras[0].Name())
		assert.Equal(t, 14422.0, c.Reference.Values[48])
		assert.Equal(t, report.FormatCSV, c.Output.Format)

		s, err := c.Schema()
		require.NoError(t, err)
		assert.Same(t, schema.Tabu, s)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := Parse([]byte(`
input:
  paths: [a.csv]
aggregation:
  keys: [problemSize]
  metric: bestCost
output:
  path: out/table.xlsx
`))
		require.NoError(t, err)
		assert.Equal(t, schema.NameGA, c.Input.Schema)
		assert.Equal(t, report.FormatXLSX, c.Output.Format)
		assert.Nil(t, c.Reference)
	})

	t.Run("custom columns", func(t *testing.T) {
		c, err := Parse([]byte(`
input:
  pattern: "*.csv"
  schema: custom
  columns:
    - {name: size, type: int}
    - {name: cost, type: float}
aggregation:
  keys: [size]
  metric: cost
`))
		require.NoError(t, err)
		s, err := c.Schema()
		require.NoError(t, err)
		assert.Equal(t, []string{"size", "cost"}, s.Names())
	})

	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "no input",
			yaml:    "aggregation: {keys: [a], metric: b}",
			message: "Pattern",
		},
		{
			name:    "no keys",
			yaml:    "input: {pattern: x}\naggregation: {metric: b}",
			message: "Keys",
		},
		{
			name:    "negative limit",
			yaml:    "input: {pattern: x}\naggregation: {keys: [a], metric: b, limit: -1}",
			message: "Limit",
		},
		{
			name:    "bad format",
			yaml:    "input: {pattern: x}\naggregation: {keys: [a], metric: b}\noutput: {format: pdf}",
			message: "Format",
		},
		{
			name:    "unknown derived column",
			yaml:    "input: {pattern: x}\nderived: [nope]\naggregation: {keys: [a], metric: b}",
			message: "derived",
		},
		{
			name:    "two reference sources",
			yaml:    "input: {pattern: x}\naggregation: {keys: [a], metric: b}\nreference: {default: true, file: r.yaml}",
			message: "exactly one",
		},
		{
			name:    "composite keys without reference key",
			yaml:    "input: {pattern: x}\naggregation: {keys: [a, b], metric: c}\nreference: {default: true}",
			message: "reference key",
		},
		{
			name:    "columns with predefined schema",
			yaml:    "input: {pattern: x, schema: ga, columns: [{name: a, type: int}]}\naggregation: {keys: [a], metric: a}",
			message: "predefined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			var verr *apperr.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseJSON(t *testing.T) {
	c, err := ParseJSON([]byte(`{
		"input": {"paths": ["a.csv"], "schema": "exact"},
		"aggregation": {"keys": ["city_size"], "metric": "time"},
		"reference": {"values": {"17": 39}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 39.0, c.Reference.Values[17])

	_, err = ParseJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestResolveReference(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("17: 39\n48: 14422\n"), 0644))
	csvPath := filepath.Join(dir, "reference.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("city_size,correct_answer\n17,39\n48, 14422\n"), 0644))
	badPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(badPath, []byte("17,39\nx,1\n"), 0644))

	ref, err := ResolveReference(&Reference{File: yamlPath})
	require.NoError(t, err)
	assert.Equal(t, 14422.0, ref[48])

	ref, err = ResolveReference(&Reference{File: csvPath})
	require.NoError(t, err)
	assert.Len(t, ref, 2)
	assert.Equal(t, 14422.0, ref[48])

	_, err = ResolveReference(&Reference{File: badPath})
	assert.Error(t, err)

	ref, err = ResolveReference(&Reference{Default: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultReference(), ref)
	assert.Len(t, ref, 8)

	values := map[int64]float64{5: 0}
	ref, err = ResolveReference(&Reference{Values: values})
	require.NoError(t, err)
	ref[6] = 1
	assert.Len(t, values, 1, "inline values are copied")

	_, err = ResolveReference(&Reference{Values: map[int64]float64{5: -1}})
	assert.Error(t, err)

	_, err = ResolveReference(&Reference{Database: true})
	assert.ErrorIs(t, err, ErrDatabaseReference)

	_, err = ResolveReference(&Reference{File: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestResolveReference_NonFiniteValues(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"nan.csv":  "city_size,correct_answer\n48,NaN\n",
		"inf.csv":  "48,+Inf\n",
		"nan.yaml": "48: .nan\n",
		"inf.yaml": "48: -.inf\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := ResolveReference(&Reference{File: path})
		assert.Error(t, err, name)
	}

	_, err := ResolveReference(&Reference{Values: map[int64]float64{48: math.NaN()}})
	assert.Error(t, err)
	_, err = ResolveReference(&Reference{Values: map[int64]float64{48: math.Inf(1)}})
	assert.Error(t, err)
}

func TestParse_RejectsNonFiniteInlineReference(t *testing.T) {
	_, err := Parse([]byte(`
input: {pattern: "r_*.csv", schema: tabu}
aggregation: {keys: [city_size], metric: best_path}
reference: {values: {48: .nan}}
`))
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}
