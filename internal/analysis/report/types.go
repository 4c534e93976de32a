package report

import (
	"time"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/aggregate"
)

// Extra is an additional aggregated column and the label used in headers.
type Extra struct {
	Column string `json:"column" yaml:"column" validate:"required"`
	Label  string `json:"label,omitempty" yaml:"label"`
}

func (e Extra) Name() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Column
}

type Distribution struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

type ExtraValue struct {
	Label string   `json:"label"`
	Mean  float64  `json:"mean"`
	Std   *float64 `json:"std"`
}

// Row is one group of the summary table. Error fields are nil when the table
// has no reference or the relative error is undefined.
type Row struct {
	Key                  aggregate.GroupKey `json:"-"`
	KeyValues            []string           `json:"key"`
	Count                int                `json:"count"`
	Rows                 int                `json:"rows"`
	Reference            *float64           `json:"correct_answer,omitempty"`
	Mean                 float64            `json:"mean_value"`
	Std                  *float64           `json:"std_value"`
	AbsoluteError        *float64           `json:"mean_absolute_error,omitempty"`
	RelativeErrorPercent *float64           `json:"mean_relative_error_percent,omitempty"`
	Distribution         *Distribution      `json:"distribution,omitempty"`
	Extras               []ExtraValue       `json:"extras,omitempty"`
}

// Undefined reports a referenced row whose relative error could not be computed.
func (r Row) Undefined() bool {
	return r.Reference != nil && r.RelativeErrorPercent == nil
}

type SummaryTable struct {
	KeyColumns   []string `json:"key_columns"`
	Metric       string   `json:"metric"`
	Extras       []Extra  `json:"extras,omitempty"`
	HasReference bool     `json:"has_reference"`
	Quantiles    bool     `json:"quantiles"`
	Rows         []Row    `json:"rows"`
}

// Diagnostics collects the non-fatal conditions of one run.
type Diagnostics struct {
	MatchedFiles    int           `json:"matched_files"`
	LoadedRows      int           `json:"loaded_rows"`
	FailedFiles     []FailedFile  `json:"failed_files"`
	Limit           int           `json:"limit"`
	TruncatedGroups []string      `json:"truncated_groups"`
	UnmatchedGroups []string      `json:"unmatched_groups"`
	UndefinedGroups []string      `json:"undefined_groups"`
	Duration        time.Duration `json:"duration"`
}

type FailedFile struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func (d Diagnostics) Empty() bool {
	return len(d.FailedFiles) == 0 && len(d.TruncatedGroups) == 0 &&
		len(d.UnmatchedGroups) == 0 && len(d.UndefinedGroups) == 0
}

// Document is the JSON form of a run.
type Document struct {
	RunID       string               `json:"run_id"`
	CreatedAt   time.Time            `json:"created_at"`
	Summary     *SummaryTable        `json:"summary"`
	Best        *aggregate.BestTrial `json:"best,omitempty"`
	Diagnostics Diagnostics          `json:"diagnostics"`
}
