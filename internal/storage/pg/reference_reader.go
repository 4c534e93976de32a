package pg

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceReader reads known optimal costs from reference_costs.
type ReferenceReader struct {
	db *pgxpool.Pool
}

func NewReferenceReader(pool *ConnectionPool) *ReferenceReader {
	return &ReferenceReader{db: pool.conn}
}

func (r *ReferenceReader) LoadReference(ctx context.Context) (evaluate.ReferenceTable, error) {
	rows, err := r.db.Query(ctx, `SELECT problem_size, cost FROM reference_costs ORDER BY problem_size`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference costs: %w", err)
	}
	defer rows.Close()

	ref := make(evaluate.ReferenceTable)
	for rows.Next() {
		var (
			size int64
			cost float64
		)
		if err := rows.Scan(&size, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan reference cost: %w", err)
		}
		ref[size] = cost
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference costs: %w", err)
	}
	if len(ref) == 0 {
		return nil, fmt.Errorf("reference_costs is empty")
	}
	return ref, nil
}

// SaveReference upserts reference costs in a single batch.
func (r *ReferenceReader) SaveReference(ctx context.Context, ref evaluate.ReferenceTable) error {
	batch := &pgx.Batch{}
	for _, size := range ref.Keys() {
		batch.Queue(`
            INSERT INTO reference_costs (problem_size, cost) VALUES ($1, $2)
            ON CONFLICT (problem_size) DO UPDATE SET cost = EXCLUDED.cost`,
			size, ref[size])
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert reference costs: %w", err)
	}
	return nil
}
