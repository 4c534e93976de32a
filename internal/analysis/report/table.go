package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTable renders the summary and the run diagnostics for a terminal.
func WriteTable(doc *Document, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	t := doc.Summary
	fmt.Fprintf(tw, "\n=== Results: %s by %s ===\n\n", t.Metric, strings.Join(t.KeyColumns, ", "))

	header := t.Header()
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join(separator(len(header)), "\t"))
	for _, rec := range t.Records() {
		for i, v := range rec {
			if v == "" {
				rec[i] = "-"
			}
		}
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	fmt.Fprintln(tw)

	if doc.Best != nil {
		writeBest(tw, doc)
	}
	writeDiagnostics(tw, doc.Diagnostics)

	return tw.Flush()
}

func writeBest(tw *tabwriter.Writer, doc *Document) {
	b := doc.Best
	fmt.Fprintf(tw, "Best trial: %s=%s (%s:%d)\n\n", doc.Summary.Metric, formatFloat(b.Metric), b.Source, b.Line)
	if len(b.Profile) == 0 {
		return
	}
	fmt.Fprintln(tw, "Parameter\tValue\tScale\tScore")
	fmt.Fprintln(tw, strings.Join(separator(4), "\t"))
	for _, p := range b.Profile {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", p.Column, formatFloat(p.Value), formatFloat(p.Range), p.Normalized)
	}
	fmt.Fprintln(tw)
}

func writeDiagnostics(tw *tabwriter.Writer, d Diagnostics) {
	fmt.Fprintf(tw, "Diagnostics\n\n")
	fmt.Fprintf(tw, "files\t%d matched, %d failed\n", d.MatchedFiles, len(d.FailedFiles))
	fmt.Fprintf(tw, "rows\t%d\n", d.LoadedRows)
	if d.Limit > 0 {
		fmt.Fprintf(tw, "limit\tfirst %d rows per group, %d groups truncated\n", d.Limit, len(d.TruncatedGroups))
	} else {
		fmt.Fprintf(tw, "limit\tdisabled\n")
	}
	fmt.Fprintf(tw, "unmatched groups\t%d %s\n", len(d.UnmatchedGroups), strings.Join(d.UnmatchedGroups, " "))
	fmt.Fprintf(tw, "undefined relative error\t%d %s\n", len(d.UndefinedGroups), strings.Join(d.UndefinedGroups, " "))
	for _, f := range d.FailedFiles {
		fmt.Fprintf(tw, "failed\t%s: %s\n", f.Path, f.Error)
	}
	fmt.Fprintln(tw)
}

func separator(n int) []string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return sep
}
