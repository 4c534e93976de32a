package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
	config    ClientConfig
}

// Document is one summary row, flattened for search and dashboards.
type Document struct {
	RunID                string               `json:"run_id"`
	CreatedAt            time.Time            `json:"created_at"`
	Metric               string               `json:"metric"`
	KeyColumns           []string             `json:"key_columns"`
	Key                  string               `json:"key"`
	KeyValues            []string             `json:"key_values"`
	Count                int                  `json:"count"`
	Rows                 int                  `json:"rows"`
	CorrectAnswer        *float64             `json:"correct_answer,omitempty"`
	MeanValue            float64              `json:"mean_value"`
	StdValue             *float64             `json:"std_value,omitempty"`
	AbsoluteError        *float64             `json:"mean_absolute_error,omitempty"`
	RelativeErrorPercent *float64             `json:"mean_relative_error_percent,omitempty"`
	Distribution         *report.Distribution `json:"distribution,omitempty"`
	Extras               []report.ExtraValue  `json:"extras,omitempty"`
	IndexedAt            time.Time            `json:"indexed_at"`
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
		config:    config,
	}

	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return storer, nil
}

// DocumentID is stable per run and group, so saving a run twice overwrites.
func DocumentID(run *storage.RunRecord, r report.Row) string {
	return run.ID.String() + "-" + storage.RowKey(r)
}

// Save bulk indexes one document per summary row.
func (e *Storer) Save(ctx context.Context, run *storage.RunRecord) error {
	if run.Summary.Len() == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    2,
		FlushBytes:    1e+6,
		FlushInterval: 5 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := time.Now()

	for _, r := range run.Summary.Rows {
		doc := toDocument(run, r, now)
		id := DocumentID(run, r)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", id)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", id)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"run_id", run.ID,
		"successful", successful.Load(),
		"failed", failed.Load(),
		"index", e.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d summary rows", n, run.Summary.Len())
	}
	return nil
}

func toDocument(run *storage.RunRecord, r report.Row, indexedAt time.Time) Document {
	return Document{
		RunID:                run.ID.String(),
		CreatedAt:            run.CreatedAt,
		Metric:               run.Summary.Metric,
		KeyColumns:           run.Summary.KeyColumns,
		Key:                  storage.RowKey(r),
		KeyValues:            r.KeyValues,
		Count:                r.Count,
		Rows:                 r.Rows,
		CorrectAnswer:        r.Reference,
		MeanValue:            r.Mean,
		StdValue:             r.Std,
		AbsoluteError:        r.AbsoluteError,
		RelativeErrorPercent: r.RelativeErrorPercent,
		Distribution:         r.Distribution,
		Extras:               r.Extras,
		IndexedAt:            indexedAt,
	}
}

func (e *Storer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"run_id":                      types.NewKeywordProperty(),
			"created_at":                  types.NewDateProperty(),
			"metric":                      types.NewKeywordProperty(),
			"key_columns":                 types.NewKeywordProperty(),
			"key":                         types.NewKeywordProperty(),
			"key_values":                  types.NewKeywordProperty(),
			"count":                       types.NewIntegerNumberProperty(),
			"rows":                        types.NewIntegerNumberProperty(),
			"correct_answer":              types.NewDoubleNumberProperty(),
			"mean_value":                  types.NewDoubleNumberProperty(),
			"std_value":                   types.NewDoubleNumberProperty(),
			"mean_absolute_error":         types.NewDoubleNumberProperty(),
			"mean_relative_error_percent": types.NewDoubleNumberProperty(),
			"distribution":                types.NewObjectProperty(),
			"extras":                      types.NewNestedProperty(),
			"indexed_at":                  types.NewDateProperty(),
		},
	}

	createRes, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created", "index", e.indexName)
	return nil
}

func (e *Storer) Close() error { return nil }

// CountRun returns the number of indexed rows of a run.
func (e *Storer) CountRun(ctx context.Context, runID string) (int64, error) {
	res, err := e.client.Count().
		Index(e.indexName).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"run_id": {Value: runID},
			},
		}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count run documents: %w", err)
	}
	return res.Count, nil
}
