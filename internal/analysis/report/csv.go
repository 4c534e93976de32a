package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

func WriteCSV(t *SummaryTable, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
