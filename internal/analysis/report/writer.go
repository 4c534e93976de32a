package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
	FormatTable Format = "table"
)

func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatTable:
		return true
	}
	return false
}

// FormatFromPath guesses the format from a file extension, defaulting to csv.
func FormatFromPath(path string) Format {
	f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if f.Valid() && f != FormatTable {
		return f
	}
	return FormatCSV
}

func Write(doc *Document, format Format, w io.Writer) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(doc.Summary, w)
	case FormatJSON:
		return WriteJSON(doc, w)
	case FormatXLSX:
		return WriteXLSX(doc, w)
	case FormatTable:
		return WriteTable(doc, w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func WriteFile(doc *Document, format Format, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Write(doc, format, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
