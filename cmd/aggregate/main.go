package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/evaluate"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/pipeline"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/report"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/spec"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/factory"
	"github.com/DjordjeVuckovic/tsp-results/pkg/config/env"
)

func main() {
	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if cli.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := env.LoadDotEnv(cli.EnvPath); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := cli.pipelineConfig()
	if err != nil {
		slog.Error("Invalid pipeline config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cli.SeedReferenceDB {
		if err := seedReference(ctx, cfg); err != nil {
			slog.Error("Reference seeding failed", "error", err)
			stop()
			os.Exit(1)
		}
	}

	if err := run(ctx, cfg); err != nil {
		slog.Error("Aggregation failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *spec.Config) error {
	var opts []pipeline.Option
	if cfg.Reference != nil && cfg.Reference.Database {
		pgCfg, err := factory.LoadPgEnv()
		if err != nil {
			return err
		}
		refs, closeRefs, err := factory.NewReferenceReader(ctx, *pgCfg)
		if err != nil {
			return err
		}
		defer closeRefs()
		opts = append(opts, pipeline.WithReferenceSource(refs))
	}

	res, err := pipeline.New(opts...).Run(ctx, cfg)
	if err != nil {
		return err
	}

	doc := res.Document()
	if cfg.Output.Path == "" {
		if err := report.Write(doc, cfg.Output.Format, os.Stdout); err != nil {
			return err
		}
	} else {
		if err := report.WriteFile(doc, cfg.Output.Format, cfg.Output.Path); err != nil {
			return err
		}
		slog.Info("Summary written", "path", cfg.Output.Path, "format", cfg.Output.Format, "rows", doc.Summary.Len())
	}

	return saveToSink(ctx, res)
}

func saveToSink(ctx context.Context, res *pipeline.Result) error {
	sCfg, err := factory.LoadEnv()
	if err != nil {
		return err
	}
	sink, err := factory.NewStorer(ctx, sCfg)
	if err != nil {
		return err
	}
	if sink == nil {
		return nil
	}
	defer sink.Close()

	if err := sink.Save(ctx, storage.NewRunRecord(res)); err != nil {
		return err
	}
	slog.Info("Run saved to sink", "type", sCfg.Type, "run", res.RunID)
	return nil
}

type referenceSaver interface {
	SaveReference(ctx context.Context, ref evaluate.ReferenceTable) error
}

func seedReference(ctx context.Context, cfg *spec.Config) error {
	pgCfg, err := factory.LoadPgEnv()
	if err != nil {
		return err
	}
	refs, closeRefs, err := factory.NewReferenceReader(ctx, *pgCfg)
	if err != nil {
		return err
	}
	defer closeRefs()
	return saveReference(ctx, cfg.Reference, refs)
}

// saveReference stores the reference table the config resolves to.
func saveReference(ctx context.Context, r *spec.Reference, saver referenceSaver) error {
	ref, err := spec.ResolveReference(r)
	if err != nil {
		return err
	}
	if err := saver.SaveReference(ctx, ref); err != nil {
		return fmt.Errorf("save reference: %w", err)
	}
	slog.Info("Reference table seeded", "sizes", len(ref))
	return nil
}
