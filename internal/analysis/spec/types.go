package spec

import (
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
)

// Config describes one pipeline run: which files to read, how to group them,
// what to compare against and where the summary goes.
type Config struct {
	Input       Input       `yaml:"input" json:"input"`
	Derived     []string    `yaml:"derived" json:"derived,omitempty"`
	Aggregation Aggregation `yaml:"aggregation" json:"aggregation"`
	Reference   *Reference  `yaml:"reference" json:"reference,omitempty"`
	Output      Output      `yaml:"output" json:"output"`
}

type Input struct {
	Pattern string          `yaml:"pattern" json:"pattern,omitempty" validate:"required_without=Paths"`
	Paths   []string        `yaml:"paths" json:"paths,omitempty" validate:"required_without=Pattern,dive,required"`
	Schema  string          `yaml:"schema" json:"schema,omitempty" validate:"omitempty,oneof=exact tabu ga custom"`
	Columns []schema.Column `yaml:"columns" json:"columns,omitempty" validate:"dive"`
	Workers int             `yaml:"workers" json:"workers,omitempty" validate:"gte=0,lte=64"`
}

type Aggregation struct {
	Keys      []string       `yaml:"keys" json:"keys" validate:"required,min=1,dive,required"`
	Metric    string         `yaml:"metric" json:"metric" validate:"required"`
	Extras    []report.Extra `yaml:"extras" json:"extras,omitempty" validate:"dive"`
	Limit     int            `yaml:"limit" json:"limit,omitempty" validate:"gte=0"`
	Quantiles bool           `yaml:"quantiles" json:"quantiles,omitempty"`
	Best      bool           `yaml:"best" json:"best,omitempty"`
}

// Reference selects the known optimal values. Exactly one source is used:
// a file, inline values, the built-in table or the database.
type Reference struct {
	Key              string            `yaml:"key" json:"key,omitempty"`
	File             string            `yaml:"file" json:"file,omitempty"`
	Values           map[int64]float64 `yaml:"values" json:"values,omitempty"`
	Default          bool              `yaml:"default" json:"default,omitempty"`
	Database         bool              `yaml:"database" json:"database,omitempty"`
	Strict           bool              `yaml:"strict" json:"strict,omitempty"`
	IncludeUndefined bool              `yaml:"include_undefined" json:"include_undefined,omitempty"`
}

type Output struct {
	Path   string        `yaml:"path" json:"path,omitempty"`
	Format report.Format `yaml:"format" json:"format,omitempty" validate:"omitempty,oneof=csv json xlsx table"`
}

// Layout is the summary table layout implied by the aggregation settings.
func (c *Config) Layout() report.Layout {
	return report.Layout{
		KeyColumns: c.Aggregation.Keys,
		Metric:     c.Aggregation.Metric,
		Extras:     c.Aggregation.Extras,
		Quantiles:  c.Aggregation.Quantiles,
	}
}

func (c *Config) ExtraColumns() []string {
	cols := make([]string, len(c.Aggregation.Extras))
	for i, e := range c.Aggregation.Extras {
		cols[i] = e.Column
	}
	return cols
}
