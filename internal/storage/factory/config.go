package factory

import (
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/es"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/pg"
	"github.com/kelseyhightower/envconfig"
)

// StorageConfig selects the summary sink. An empty Type disables it.
type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
}

type envSpec struct {
	SinkType    storage.Type `envconfig:"SINK_TYPE"`
	PgConnStr   string       `envconfig:"PG_CONNECTION_STRING"`
	PgMaxConns  int32        `envconfig:"PG_MAX_CONNS" default:"4"`
	EsAddresses []string     `envconfig:"ES_ADDRESSES"`
	EsIndexName string       `envconfig:"ES_INDEX_NAME" default:"tsp-results"`
	EsUsername  string       `envconfig:"ES_USERNAME"`
	EsPassword  string       `envconfig:"ES_PASSWORD"`
}

func LoadEnv() (*StorageConfig, error) {
	var env envSpec
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("process storage environment: %w", err)
	}
	return env.config()
}

// LoadPgEnv reads only the Postgres settings, for the reference reader.
func LoadPgEnv() (*pg.PoolConfig, error) {
	var env envSpec
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("process storage environment: %w", err)
	}
	if env.PgConnStr == "" {
		return nil, fmt.Errorf("PostgreSQL connection string is not set")
	}
	return &pg.PoolConfig{ConnStr: env.PgConnStr, MaxConns: env.PgMaxConns}, nil
}

func (env envSpec) config() (*StorageConfig, error) {
	cfg := &StorageConfig{Type: env.SinkType}
	if cfg.Type == "" {
		return cfg, nil
	}
	if !cfg.Type.Valid() {
		slog.Error("Invalid SINK_TYPE environment variable value", "value", cfg.Type)
		return nil, fmt.Errorf(
			"invalid SINK_TYPE environment variable value: %s, expected one of %v",
			cfg.Type,
			[]storage.Type{storage.ES, storage.PG, storage.InMem})
	}

	switch cfg.Type {
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses: env.EsAddresses,
			IndexName: env.EsIndexName,
			Username:  env.EsUsername,
			Password:  env.EsPassword,
		}
		if len(cfg.Es.Addresses) == 0 || cfg.Es.IndexName == "" {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses, "indexName", cfg.Es.IndexName)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
		}
	case storage.PG:
		if env.PgConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		cfg.Pg = &pg.PoolConfig{ConnStr: env.PgConnStr, MaxConns: env.PgMaxConns}
	}
	return cfg, nil
}
