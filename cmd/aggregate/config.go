package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/loader"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/spec"
)

type cliConfig struct {
	ConfigPath       string
	EnvPath          string
	Pattern          string
	Schema           string
	Keys             string
	Metric           string
	Limit            int
	Workers          int
	Quantiles        bool
	Best             bool
	ReferenceFile    string
	ReferenceDefault bool
	ReferenceDB      bool
	SeedReferenceDB  bool
	Strict           bool
	IncludeUndefined bool
	Output           string
	Format           string
	Debug            bool
}

func parseFlags(args []string) (cliConfig, error) {
	cfg := cliConfig{}
	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newFlagSet(cfg *cliConfig) *flag.FlagSet {
	fs := flag.NewFlagSet("aggregate", flag.ContinueOnError)

	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to pipeline config YAML")
	fs.StringVar(&cfg.EnvPath, "env", "cmd/aggregate/.env", "Path to .env file (ENV_PATH overrides)")
	fs.StringVar(&cfg.Pattern, "pattern", "", "Glob pattern for result files, e.g. results/resultsTabu_*.csv")
	fs.StringVar(&cfg.Schema, "schema", "", "Input schema: exact, tabu or ga")
	fs.StringVar(&cfg.Keys, "keys", "", "Group key columns, comma-separated")
	fs.StringVar(&cfg.Metric, "metric", "", "Metric column to aggregate")
	fs.IntVar(&cfg.Limit, "limit", -1, "Keep the first K rows per group, 0 disables truncation")
	fs.IntVar(&cfg.Workers, "workers", 0, fmt.Sprintf("Parallel file parsers, 0 uses %d", loader.DefaultWorkers))
	fs.BoolVar(&cfg.Quantiles, "quantiles", false, "Add min, quartiles and max per group")
	fs.BoolVar(&cfg.Best, "best", false, "Report the best trial with its parameter profile")
	fs.StringVar(&cfg.ReferenceFile, "reference", "", "Reference table file (YAML or CSV)")
	fs.BoolVar(&cfg.ReferenceDefault, "reference-default", false, "Use the built-in table of known optima")
	fs.BoolVar(&cfg.ReferenceDB, "reference-db", false, "Read the reference table from Postgres")
	fs.BoolVar(&cfg.SeedReferenceDB, "seed-reference-db", false, "Upsert the resolved reference table into Postgres before the run")
	fs.BoolVar(&cfg.Strict, "strict", false, "Fail when a group has no reference value")
	fs.BoolVar(&cfg.IncludeUndefined, "include-undefined", false, "Emit rows whose relative error is undefined")
	fs.StringVar(&cfg.Output, "output", "", "Output path, stdout when empty")
	fs.StringVar(&cfg.Format, "format", "", "Output format: csv, json, xlsx or table")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")

	return fs
}

// pipelineConfig loads the config file, if any, and applies flag overrides on
// top of it before validating.
func (c cliConfig) pipelineConfig() (*spec.Config, error) {
	pc := &spec.Config{}
	if c.ConfigPath != "" {
		loaded, err := spec.LoadFromFile(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		pc = loaded
	}

	if c.Pattern != "" {
		pc.Input.Pattern = c.Pattern
		pc.Input.Paths = nil
	}
	if c.Schema != "" {
		pc.Input.Schema = c.Schema
		pc.Input.Columns = nil
	}
	if c.Workers > 0 {
		pc.Input.Workers = c.Workers
	}
	if keys := splitList(c.Keys); len(keys) > 0 {
		pc.Aggregation.Keys = keys
	}
	if c.Metric != "" {
		pc.Aggregation.Metric = c.Metric
	}
	if c.Limit >= 0 {
		pc.Aggregation.Limit = c.Limit
	}
	pc.Aggregation.Quantiles = pc.Aggregation.Quantiles || c.Quantiles
	pc.Aggregation.Best = pc.Aggregation.Best || c.Best

	if c.ReferenceFile != "" || c.ReferenceDefault || c.ReferenceDB {
		ref := &spec.Reference{}
		if pc.Reference != nil {
			ref.Key = pc.Reference.Key
			ref.Strict = pc.Reference.Strict
			ref.IncludeUndefined = pc.Reference.IncludeUndefined
		}
		ref.File = c.ReferenceFile
		ref.Default = c.ReferenceDefault
		ref.Database = c.ReferenceDB
		pc.Reference = ref
	}
	if pc.Reference != nil {
		pc.Reference.Strict = pc.Reference.Strict || c.Strict
		pc.Reference.IncludeUndefined = pc.Reference.IncludeUndefined || c.IncludeUndefined
	}

	if c.Output != "" {
		pc.Output.Path = c.Output
		pc.Output.Format = ""
	}
	if c.Format != "" {
		pc.Output.Format = report.Format(c.Format)
	}

	if c.SeedReferenceDB && (pc.Reference == nil || pc.Reference.Database) {
		return nil, errors.New("-seed-reference-db needs a file, inline or default reference")
	}

	if err := spec.Validate(pc); err != nil {
		return nil, err
	}
	return pc, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
