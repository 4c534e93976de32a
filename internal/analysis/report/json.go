package report

import (
	"encoding/json"
	"fmt"
	"io"
)

func WriteJSON(doc *Document, w io.Writer) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
