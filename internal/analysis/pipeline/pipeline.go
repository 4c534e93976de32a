package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/aggregate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/loader"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/spec"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/table"
	"github.com/google/uuid"
)

// ReferenceSource provides reference values kept outside the config, such as
// a database table.
type ReferenceSource interface {
	LoadReference(ctx context.Context) (evaluate.ReferenceTable, error)
}

var ErrNoReferenceSource = errors.New("no reference source configured")

type Pipeline struct {
	refs ReferenceSource
}

type Option func(*Pipeline)

func WithReferenceSource(r ReferenceSource) Option {
	return func(p *Pipeline) {
		p.refs = r
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Result is one completed run. Summary holds every evaluated group, including
// rows whose relative error is undefined.
type Result struct {
	RunID       uuid.UUID
	CreatedAt   time.Time
	Config      *spec.Config
	Summary     *report.SummaryTable
	Best        *aggregate.BestTrial
	Diagnostics report.Diagnostics
}

// Output is the summary handed to writers and sinks. Rows with an undefined
// relative error are left out unless the reference config asks for them.
func (r *Result) Output() *report.SummaryTable {
	include := r.Config.Reference != nil && r.Config.Reference.IncludeUndefined
	return r.Summary.Plottable(include)
}

func (r *Result) Document() *report.Document {
	return &report.Document{
		RunID:       r.RunID.String(),
		CreatedAt:   r.CreatedAt,
		Summary:     r.Output(),
		Best:        r.Best,
		Diagnostics: r.Diagnostics,
	}
}

// Run executes Loader, Unifier, Aggregator, Error Evaluator and Summary
// Emitter in order. Non-fatal conditions end up in the result diagnostics and
// are logged once when the run completes.
func (p *Pipeline) Run(ctx context.Context, cfg *spec.Config) (*Result, error) {
	start := time.Now()
	res, err := p.run(ctx, cfg)

	runDuration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		runsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, loader.ErrNoInputFound):
		runsTotal.WithLabelValues("no_input").Inc()
	default:
		runsTotal.WithLabelValues("error").Inc()
	}
	if err != nil {
		return nil, err
	}

	res.Diagnostics.Duration = time.Since(start)
	logDiagnostics(res)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, cfg *spec.Config) (*Result, error) {
	res := &Result{
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
	}
	diag := &res.Diagnostics

	s, err := cfg.Schema()
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	derivations, err := cfg.Derivations()
	if err != nil {
		return nil, err
	}

	loaded, err := loader.New(s, cfg.Input.Workers).Load(ctx, loader.Source{
		Pattern: cfg.Input.Pattern,
		Paths:   cfg.Input.Paths,
	})
	if err != nil {
		var nie *loader.NoInputError
		if errors.As(err, &nie) {
			filesTotal.WithLabelValues("failed").Add(float64(nie.Failed))
		}
		return nil, err
	}

	diag.MatchedFiles = len(loaded.Matched)
	diag.LoadedRows = loaded.RowCount()
	for _, f := range loaded.Failures {
		diag.FailedFiles = append(diag.FailedFiles, report.FailedFile{Path: f.Path, Error: f.Err.Error()})
	}
	filesTotal.WithLabelValues("parsed").Add(float64(len(loaded.Files)))
	filesTotal.WithLabelValues("failed").Add(float64(len(loaded.Failures)))
	rowsLoaded.Add(float64(diag.LoadedRows))

	tbl, err := table.Unify(loaded).Derive(derivations...)
	if err != nil {
		return nil, err
	}

	agg := cfg.Aggregation
	diag.Limit = agg.Limit
	if agg.Limit > 0 {
		slog.Info("Truncating groups before aggregation", "limit", agg.Limit, "run_id", res.RunID)
	} else {
		slog.Info("Group truncation disabled", "run_id", res.RunID)
	}

	groups, err := aggregate.Aggregate(tbl, aggregate.Options{
		Keys:   agg.Keys,
		Metric: agg.Metric,
		Extras: cfg.ExtraColumns(),
		Limit:  agg.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	for _, g := range groups {
		if g.Truncated() {
			diag.TruncatedGroups = append(diag.TruncatedGroups, g.Key.String())
		}
	}

	if cfg.Reference == nil {
		res.Summary = report.FromGroups(cfg.Layout(), groups)
	} else {
		ref, err := p.reference(ctx, cfg.Reference)
		if err != nil {
			return nil, fmt.Errorf("load reference: %w", err)
		}
		rows, ediag, err := evaluate.Evaluate(groups, ref, evaluate.Options{
			Keys:         agg.Keys,
			ReferenceKey: cfg.Reference.Key,
			Strict:       cfg.Reference.Strict,
		})
		diag.UnmatchedGroups = keyStrings(ediag.Unmatched)
		diag.UndefinedGroups = keyStrings(ediag.Undefined)
		if err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
		res.Summary = report.FromErrorRows(cfg.Layout(), rows)
	}

	if agg.Best {
		exclude := append(append([]string{agg.Metric}, agg.Keys...), cfg.ExtraColumns()...)
		res.Best, err = aggregate.Best(tbl, agg.Metric, aggregate.NumericParameters(tbl.Schema, exclude...))
		if err != nil {
			return nil, fmt.Errorf("best trial: %w", err)
		}
	}

	groupsTotal.WithLabelValues("emitted").Add(float64(res.Summary.Len()))
	groupsTotal.WithLabelValues("unmatched").Add(float64(len(diag.UnmatchedGroups)))
	groupsTotal.WithLabelValues("undefined").Add(float64(len(diag.UndefinedGroups)))

	return res, nil
}

func (p *Pipeline) reference(ctx context.Context, r *spec.Reference) (evaluate.ReferenceTable, error) {
	ref, err := spec.ResolveReference(r)
	if !errors.Is(err, spec.ErrDatabaseReference) {
		return ref, err
	}
	if p.refs == nil {
		return nil, ErrNoReferenceSource
	}
	ref, err = p.refs.LoadReference(ctx)
	if err != nil {
		return nil, err
	}
	return ref, ref.Validate()
}

func keyStrings(keys []aggregate.GroupKey) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func logDiagnostics(res *Result) {
	d := res.Diagnostics
	attrs := []any{
		"run_id", res.RunID,
		"files", d.MatchedFiles,
		"failed_files", len(d.FailedFiles),
		"rows", d.LoadedRows,
		"limit", d.Limit,
		"truncated_groups", len(d.TruncatedGroups),
		"unmatched_groups", len(d.UnmatchedGroups),
		"undefined_relative_error", len(d.UndefinedGroups),
		"summary_rows", res.Summary.Len(),
		"duration", d.Duration,
	}
	if d.Empty() {
		slog.Info("Pipeline run completed", attrs...)
		return
	}

	if len(d.FailedFiles) > 0 {
		f := d.FailedFiles[0]
		attrs = append(attrs, slog.Group("failed_example", "path", f.Path, "error", f.Error))
	}
	if len(d.UnmatchedGroups) > 0 {
		attrs = append(attrs, "unmatched_example", d.UnmatchedGroups[0])
	}
	if len(d.UndefinedGroups) > 0 {
		attrs = append(attrs, "undefined_example", d.UndefinedGroups[0])
	}
	slog.Warn("Pipeline run completed with diagnostics", attrs...)
}
