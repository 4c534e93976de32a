package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var summaryRowColumns = []string{
	"run_id", "position", "group_key", "key_values", "count", "rows",
	"correct_answer", "mean_value", "std_value",
	"mean_absolute_error", "mean_relative_error_percent", "extras",
}

// Storer writes runs to summary_runs and their rows to summary_rows.
type Storer struct {
	db   *pgxpool.Pool
	pool *ConnectionPool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn, pool: pool}, nil
}

// Save inserts the run and copies its rows in one transaction.
func (s *Storer) Save(ctx context.Context, run *storage.RunRecord) error {
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	diagJSON, err := json.Marshal(run.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}
	var bestJSON []byte
	if run.Best != nil {
		if bestJSON, err = json.Marshal(run.Best); err != nil {
			return fmt.Errorf("failed to marshal best trial: %w", err)
		}
	}

	rows := make([][]any, len(run.Summary.Rows))
	for i, r := range run.Summary.Rows {
		var extrasJSON []byte
		if len(r.Extras) > 0 {
			if extrasJSON, err = json.Marshal(r.Extras); err != nil {
				return fmt.Errorf("failed to marshal extras of row %d: %w", i, err)
			}
		}
		rows[i] = []any{
			run.ID,
			i,
			storage.RowKey(r),
			r.KeyValues,
			r.Count,
			r.Rows,
			r.Reference,
			r.Mean,
			r.Std,
			r.AbsoluteError,
			r.RelativeErrorPercent,
			extrasJSON,
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd := `
        INSERT INTO summary_runs (id, created_at, metric, key_columns, has_reference, config, best, diagnostics)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	if _, err := tx.Exec(ctx, cmd,
		run.ID,
		run.CreatedAt,
		run.Summary.Metric,
		run.Summary.KeyColumns,
		run.Summary.HasReference,
		configJSON,
		bestJSON,
		diagJSON,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"summary_rows"}, summaryRowColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to bulk insert summary rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	slog.Info("Saved run to PostgreSQL", "id", run.ID, "rows", n)
	return nil
}

func (s *Storer) Close() error {
	s.pool.Close()
	return nil
}
