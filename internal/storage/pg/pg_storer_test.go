//go:build integration

package pg

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/spec"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	testutil "github.com/DjordjeVuckovic/tsp-results/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func newPool(t *testing.T) *ConnectionPool {
	t.Helper()
	c := testutil.NewPGContainerWithCleanup(t.Context(), t)
	pool, err := NewConnectionPool(t.Context(), PoolConfig{ConnStr: c.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestStorer_Save(t *testing.T) {
	pool := newPool(t)
	ctx := t.Context()

	s, err := NewStorer(pool)
	require.NoError(t, err)

	run := &storage.RunRecord{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Config:    &spec.Config{Aggregation: spec.Aggregation{Keys: []string{"problemSize"}, Metric: "bestCost"}},
		Summary: &report.SummaryTable{
			KeyColumns:   []string{"problemSize"},
			Metric:       "bestCost",
			HasReference: true,
			Rows: []report.Row{
				{KeyValues: []string{"17"}, Count: 1, Rows: 1, Reference: f64(39), Mean: 39, AbsoluteError: f64(0), RelativeErrorPercent: f64(0)},
				{KeyValues: []string{"48"}, Count: 3, Rows: 3, Reference: f64(14422), Mean: 14450, Std: f64(50), AbsoluteError: f64(28), RelativeErrorPercent: f64(0.2),
					Extras: []report.ExtraValue{{Label: "elapsed_time", Mean: 2.5}}},
			},
		},
		Diagnostics: report.Diagnostics{MatchedFiles: 3, LoadedRows: 4},
	}
	require.NoError(t, s.Save(ctx, run))

	var rows int
	require.NoError(t, pool.GetConn().QueryRow(ctx, `SELECT count(*) FROM summary_rows WHERE run_id = $1`, run.ID).Scan(&rows))
	assert.Equal(t, 2, rows)

	var (
		key string
		std *float64
		rel float64
	)
	require.NoError(t, pool.GetConn().QueryRow(ctx,
		`SELECT group_key, std_value, mean_relative_error_percent FROM summary_rows WHERE run_id = $1 AND position = 1`,
		run.ID).Scan(&key, &std, &rel))
	assert.Equal(t, "48", key)
	require.NotNil(t, std)
	assert.Equal(t, 50.0, *std)
	assert.Equal(t, 0.2, rel)

	assert.Error(t, s.Save(ctx, run), "run ids are unique")
}

func TestReferenceReader(t *testing.T) {
	pool := newPool(t)
	ctx := t.Context()
	r := NewReferenceReader(pool)

	ref, err := r.LoadReference(ctx)
	require.NoError(t, err)
	assert.Equal(t, spec.DefaultReference(), ref)

	require.NoError(t, r.SaveReference(ctx, evaluate.ReferenceTable{17: 40, 99: 1234}))
	ref, err = r.LoadReference(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, ref[17])
	assert.Equal(t, 1234.0, ref[99])

	assert.True(t, NewHealthChecker(pool).Healthy(ctx))
}
