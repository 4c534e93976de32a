package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/aggregate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/pipeline"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/spec"
	"github.com/google/uuid"
)

// RunRecord is a persisted pipeline run. Summary is the emitted table, so
// undefined rows are present only when the run asked for them.
type RunRecord struct {
	ID          uuid.UUID            `json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	Config      *spec.Config         `json:"config"`
	Summary     *report.SummaryTable `json:"summary"`
	Best        *aggregate.BestTrial `json:"best,omitempty"`
	Diagnostics report.Diagnostics   `json:"diagnostics"`
}

func NewRunRecord(res *pipeline.Result) *RunRecord {
	return &RunRecord{
		ID:          res.RunID,
		CreatedAt:   res.CreatedAt,
		Config:      res.Config,
		Summary:     res.Output(),
		Best:        res.Best,
		Diagnostics: res.Diagnostics,
	}
}

func (r *RunRecord) Document() *report.Document {
	return &report.Document{
		RunID:       r.ID.String(),
		CreatedAt:   r.CreatedAt,
		Summary:     r.Summary,
		Best:        r.Best,
		Diagnostics: r.Diagnostics,
	}
}

// SummaryStorer persists summary tables of finished runs.
type SummaryStorer interface {
	Save(ctx context.Context, run *RunRecord) error
	Close() error
}

// RunReader looks runs up by id.
type RunReader interface {
	Get(ctx context.Context, id uuid.UUID) (*RunRecord, error)
	List(ctx context.Context) ([]*RunRecord, error)
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

func (t Type) Valid() bool {
	return t == ES || t == PG || t == InMem
}

var ErrRunNotFound = errors.New("run not found")

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// RowKey identifies a summary row within its run, e.g. "48/i".
func RowKey(r report.Row) string {
	return strings.Join(r.KeyValues, "/")
}
