package router

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/loader"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/pipeline"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/spec"
	"github.com/DjordjeVuckovic/tsp-results/internal/apperr"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxConfigBytes = 1 << 20

type Runner interface {
	Run(ctx context.Context, cfg *spec.Config) (*pipeline.Result, error)
}

// RunStore keeps finished runs for lookup by id.
type RunStore interface {
	Save(ctx context.Context, run *storage.RunRecord) error
	storage.RunReader
}

type RunsRouter struct {
	e      *echo.Echo
	runner Runner
	runs   RunStore
	sink   storage.SummaryStorer
}

type RunsRouterOption func(*RunsRouter)

// WithSink forwards every stored run to an external summary sink.
func WithSink(sink storage.SummaryStorer) RunsRouterOption {
	return func(r *RunsRouter) {
		r.sink = sink
	}
}

func NewRunsRouter(e *echo.Echo, runner Runner, runs RunStore, opts ...RunsRouterOption) *RunsRouter {
	r := &RunsRouter{
		e:      e,
		runner: runner,
		runs:   runs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RunsRouter) Bind() {
	r.e.POST("/runs", r.createRun)
	r.e.GET("/runs", r.listRuns)
	r.e.GET("/runs/:id", r.getRun)
	r.e.GET("/runs/:id/diagnostics", r.getDiagnostics)
}

// RunResponse is returned after a pipeline run.
type RunResponse struct {
	ID          string             `json:"id"`
	Rows        []report.Row       `json:"rows"`
	Diagnostics report.Diagnostics `json:"diagnostics"`
	SinkError   string             `json:"sink_error,omitempty"`
}

// RunListItem is one entry of GET /runs.
type RunListItem struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Rows      int    `json:"rows"`
}

// createRun godoc
// @Summary Run the results pipeline
// @Description Loads result files, aggregates them and evaluates errors against the reference table
// @Tags runs
// @Accept json
// @Produce json
// @Param config body spec.Config true "Pipeline configuration"
// @Success 201 {object} RunResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /runs [post]
func (r *RunsRouter) createRun(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxConfigBytes))
	if err != nil {
		return apperr.NewValidationWrap("read request body", err)
	}
	cfg, err := spec.ParseJSON(body)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := r.runner.Run(ctx, cfg)
	if err != nil {
		return mapRunError(err)
	}

	run := storage.NewRunRecord(res)
	if err := r.runs.Save(ctx, run); err != nil {
		return err
	}

	resp := RunResponse{
		ID:          run.ID.String(),
		Rows:        run.Summary.Rows,
		Diagnostics: run.Diagnostics,
	}
	if r.sink != nil {
		if err := r.sink.Save(ctx, run); err != nil {
			slog.Error("Failed to save run to sink", "run", run.ID, "error", err)
			resp.SinkError = err.Error()
		}
	}
	return c.JSON(http.StatusCreated, resp)
}

// listRuns godoc
// @Summary List runs
// @Tags runs
// @Produce json
// @Success 200 {array} RunListItem
// @Router /runs [get]
func (r *RunsRouter) listRuns(c echo.Context) error {
	runs, err := r.runs.List(c.Request().Context())
	if err != nil {
		return err
	}
	items := make([]RunListItem, len(runs))
	for i, run := range runs {
		items[i] = RunListItem{
			ID:        run.ID.String(),
			CreatedAt: run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Rows:      run.Summary.Len(),
		}
	}
	return c.JSON(http.StatusOK, items)
}

// getRun godoc
// @Summary Get a run summary
// @Description Returns the run document as JSON, or the summary table as csv, xlsx or a text table
// @Tags runs
// @Produce json,text/csv,text/plain
// @Param id path string true "Run id"
// @Param format query string false "Output format" Enums(json, csv, xlsx, table)
// @Success 200 {object} report.Document
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /runs/{id} [get]
func (r *RunsRouter) getRun(c echo.Context) error {
	run, err := r.lookup(c)
	if err != nil {
		return err
	}

	format := report.Format(c.QueryParam("format"))
	if format == "" || format == report.FormatJSON {
		return c.JSON(http.StatusOK, run.Document())
	}
	if !format.Valid() {
		return apperr.NewValidation("format must be one of: json, csv, xlsx, table")
	}

	var buf bytes.Buffer
	if err := report.Write(run.Document(), format, &buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType(format), buf.Bytes())
}

// getDiagnostics godoc
// @Summary Get run diagnostics
// @Tags runs
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} report.Diagnostics
// @Failure 404 {object} map[string]string
// @Router /runs/{id}/diagnostics [get]
func (r *RunsRouter) getDiagnostics(c echo.Context) error {
	run, err := r.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, run.Diagnostics)
}

func (r *RunsRouter) lookup(c echo.Context) (*storage.RunRecord, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, apperr.NewValidationWrap("invalid run id", err)
	}
	run, err := r.runs.Get(c.Request().Context(), id)
	if errors.Is(err, storage.ErrRunNotFound) {
		return nil, apperr.NewNotFoundWrap("run "+id.String(), err)
	}
	return run, err
}

func mapRunError(err error) error {
	switch {
	case errors.Is(err, loader.ErrNoInputFound):
		return apperr.NewUnprocessableWrap("no input", err)
	case errors.Is(err, evaluate.ErrUnmatchedGroups):
		return apperr.NewUnprocessableWrap("strict reference check failed", err)
	case errors.Is(err, pipeline.ErrNoReferenceSource):
		return apperr.NewUnprocessableWrap("database reference unavailable", err)
	}
	return err
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatCSV:
		return "text/csv; charset=utf-8"
	case report.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return echo.MIMETextPlainCharsetUTF8
	}
}
