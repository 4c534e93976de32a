package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

var ErrNoInputFound = errors.New("no input found")

// NoInputError is returned when nothing matched or every matched file failed.
type NoInputError struct {
	Pattern string
	Matched int
	Failed  int
}

func (e *NoInputError) Error() string {
	if e.Matched == 0 {
		return fmt.Sprintf("no input found: pattern %q matched zero files", e.Pattern)
	}
	return fmt.Sprintf("no input found: all %d matched files failed to parse", e.Failed)
}

func (e *NoInputError) Unwrap() error {
	return ErrNoInputFound
}

// Source selects input files by glob pattern, explicit paths, or both.
type Source struct {
	Pattern string
	Paths   []string
}

type FileFailure struct {
	Path string
	Err  error
}

func (f FileFailure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

type FileRecords struct {
	Path    string
	Records []schema.Record
}

type Result struct {
	Schema   *schema.Schema
	Matched  []string
	Files    []FileRecords
	Failures []FileFailure
}

func (r *Result) RowCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Records)
	}
	return n
}

type Loader struct {
	schema  *schema.Schema
	workers int
}

func New(s *schema.Schema, workers int) *Loader {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Loader{schema: s, workers: workers}
}

// Discover resolves the source into a sorted, de-duplicated path list.
func Discover(src Source) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	if src.Pattern != "" {
		matches, err := filepath.Glob(src.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", src.Pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	for _, p := range src.Paths {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// Load parses every discovered file on its own worker. A file that fails is
// recorded in Failures and skipped; the load only fails when nothing is left.
func (l *Loader) Load(ctx context.Context, src Source) (*Result, error) {
	paths, err := Discover(src)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &NoInputError{Pattern: src.Pattern}
	}
	slog.Info("Discovered result files", "count", len(paths), "pattern", src.Pattern, "schema", l.schema.Name)

	slots := make([][]schema.Record, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i], errs[i] = ReadFile(path, l.schema)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}

	res := &Result{Schema: l.schema, Matched: paths}
	for i, path := range paths {
		if errs[i] != nil {
			slog.Warn("Skipping result file", "path", path, "error", errs[i])
			res.Failures = append(res.Failures, FileFailure{Path: path, Err: errs[i]})
			continue
		}
		res.Files = append(res.Files, FileRecords{Path: path, Records: slots[i]})
	}

	if len(res.Files) == 0 {
		return nil, &NoInputError{Pattern: src.Pattern, Matched: len(paths), Failed: len(res.Failures)}
	}

	slog.Info("Loaded result files",
		"parsed", len(res.Files),
		"failed", len(res.Failures),
		"rows", res.RowCount())

	return res, nil
}

func ReadFile(path string, s *schema.Schema) ([]schema.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return NewCSVReader(f, s, path).Read()
}
