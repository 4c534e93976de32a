package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet     = "Summary"
	DiagnosticsSheet = "Diagnostics"
)

// WriteXLSX writes the summary as a workbook. Numeric cells are stored as
// numbers, absent values as empty cells.
func WriteXLSX(doc *Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	t := doc.Summary
	if err := setRow(f, SummarySheet, 1, toCells(t.Header())); err != nil {
		return err
	}
	for i, rec := range t.Records() {
		if err := setRow(f, SummarySheet, i+2, numericCells(rec, len(t.KeyColumns))); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(DiagnosticsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	d := doc.Diagnostics
	rows := [][]any{
		{"run_id", doc.RunID},
		{"matched_files", d.MatchedFiles},
		{"failed_files", len(d.FailedFiles)},
		{"loaded_rows", d.LoadedRows},
		{"limit", d.Limit},
		{"truncated_groups", len(d.TruncatedGroups)},
		{"unmatched_groups", len(d.UnmatchedGroups)},
		{"undefined_groups", len(d.UndefinedGroups)},
	}
	for _, ff := range d.FailedFiles {
		rows = append(rows, []any{"failed", ff.Path, ff.Error})
	}
	for i, r := range rows {
		if err := setRow(f, DiagnosticsSheet, i+1, r); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func toCells(rec []string) []any {
	out := make([]any, len(rec))
	for i, v := range rec {
		out[i] = v
	}
	return out
}

// numericCells keeps key columns as text and parses the rest as numbers.
func numericCells(rec []string, keys int) []any {
	out := make([]any, len(rec))
	for i, v := range rec {
		switch n, err := strconv.ParseFloat(v, 64); {
		case v == "":
			out[i] = nil
		case i >= keys && err == nil:
			out[i] = n
		default:
			out[i] = v
		}
	}
	return out
}
