package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/pipeline"
	"github.com/DjordjeVuckovic/tsp-results/internal/apperr"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/in_mem"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{ saved int }

func (s *failingSink) Save(context.Context, *storage.RunRecord) error {
	s.saved++
	return errors.New("sink down")
}

func (s *failingSink) Close() error { return nil }

func newTestServer(t *testing.T, opts ...RunsRouterOption) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewRunsRouter(e, pipeline.New(), in_mem.NewInMemStorer(), opts...).Bind()
	return e
}

func resultsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"resultsTabu_1.csv": "tabu,48,1.5,14400\ntabu,5,0.1,4\n",
		"resultsTabu_2.csv": "tabu,48,2.5,14450\n",
		"resultsTabu_3.csv": "tabu,48,3.5,14500\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func runConfig(dir string) string {
	pattern, _ := json.Marshal(filepath.Join(dir, "resultsTabu_*.csv"))
	return fmt.Sprintf(`{
		"input": {"pattern": %s, "schema": "tabu"},
		"aggregation": {"keys": ["city_size"], "metric": "best_path",
			"extras": [{"column": "time", "label": "elapsed_time"}]},
		"reference": {"values": {"48": 14422, "5": 0}}
	}`, pattern)
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createRun(t *testing.T, e *echo.Echo) RunResponse {
	t.Helper()
	rec := do(e, http.MethodPost, "/runs", runConfig(resultsDir(t)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateRun(t *testing.T) {
	e := newTestServer(t)
	resp := createRun(t, e)

	_, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1, "the undefined row for city size 5 is not emitted")
	assert.Equal(t, []string{"48"}, resp.Rows[0].KeyValues)
	require.NotNil(t, resp.Rows[0].AbsoluteError)
	assert.InDelta(t, 28.0, *resp.Rows[0].AbsoluteError, 1e-9)
	assert.Equal(t, []string{"5"}, resp.Diagnostics.UndefinedGroups)
	assert.Empty(t, resp.SinkError)
}

func TestCreateRun_Errors(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"input":`, http.StatusBadRequest},
		{"missing keys", `{"input": {"pattern": "x.csv"}, "aggregation": {"metric": "best_path"}}`, http.StatusBadRequest},
		{"no input", runConfig(t.TempDir()), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/runs", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateRun_SinkFailureIsReported(t *testing.T) {
	sink := &failingSink{}
	e := newTestServer(t, WithSink(sink))

	resp := createRun(t, e)
	assert.Equal(t, 1, sink.saved)
	assert.Equal(t, "sink down", resp.SinkError)

	rec := do(e, http.MethodGet, "/runs/"+resp.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code, "the run is still stored locally")
}

func TestGetRun(t *testing.T) {
	e := newTestServer(t)
	resp := createRun(t, e)

	t.Run("json", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/runs/"+resp.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var doc struct {
			RunID   string `json:"run_id"`
			Summary struct {
				Rows []json.RawMessage `json:"rows"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, resp.ID, doc.RunID)
		assert.Len(t, doc.Summary.Rows, 1)
	})

	t.Run("csv", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/runs/"+resp.ID+"?format=csv", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "city_size,count,correct_answer,mean_value"))
		assert.True(t, strings.HasPrefix(lines[1], "48,3,14422,14450,50,28.00,0.20"))
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/runs/"+resp.ID+"?format=pdf", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("diagnostics", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/runs/"+resp.ID+"/diagnostics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"undefined_groups":["5"]`)
	})

	t.Run("list", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/runs", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var items []RunListItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, resp.ID, items[0].ID)
		assert.Equal(t, 1, items[0].Rows)
	})
}

func TestGetRun_NotFound(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/runs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/runs/not-a-uuid/diagnostics", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
