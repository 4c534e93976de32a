package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/es"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/pg"
)

// NewStorer creates the summary sink selected by cfg. It returns nil when no
// sink is configured.
func NewStorer(ctx context.Context, cfg *StorageConfig) (storage.SummaryStorer, error) {
	switch cfg.Type {
	case "":
		return nil, nil

	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStorer(pool)

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		return es.NewStorer(ctx, *cfg.Es)

	case storage.InMem:
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

// NewReferenceReader connects to Postgres for the reference_costs table.
func NewReferenceReader(ctx context.Context, cfg pg.PoolConfig) (*pg.ReferenceReader, func(), error) {
	pool, err := pg.NewConnectionPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}
	return pg.NewReferenceReader(pool), pool.Close, nil
}
