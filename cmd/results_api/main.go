// Package main TSP Results API
// @title TSP Results API
// @version 1.0
// @description Aggregates TSP solver result logs and reports error against known optima
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/DjordjeVuckovic/tsp-results/docs"
	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/pipeline"
	"github.com/DjordjeVuckovic/tsp-results/internal/router"
	"github.com/DjordjeVuckovic/tsp-results/internal/server"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/factory"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/tsp-results/internal/storage/pg"
	"github.com/DjordjeVuckovic/tsp-results/pkg/config/env"
	pkgserver "github.com/DjordjeVuckovic/tsp-results/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	if err := env.LoadDotEnv("cmd/results_api/.env"); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var (
		healthChecker pkgserver.HealthChecker = pkgserver.NewOkHealthChecker()
		pipelineOpts  []pipeline.Option
	)

	// The reference table and health check use Postgres only when it is configured.
	if pgCfg, err := factory.LoadPgEnv(); err == nil {
		pool, err := pg.NewConnectionPool(context.Background(), *pgCfg)
		if err != nil {
			slog.Error("Failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		healthChecker = pkgserver.WithTimeout(pg.NewHealthChecker(pool), 2*time.Second)
		pipelineOpts = append(pipelineOpts, pipeline.WithReferenceSource(pg.NewReferenceReader(pool)))
		slog.Info("Database reference enabled")
	} else {
		slog.Info("Database reference disabled", "reason", err)
	}

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "TSP Results API is running")
	})

	stCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage config", "error", err)
		os.Exit(1)
	}
	sink, err := factory.NewStorer(s.Context(), stCfg)
	if err != nil {
		slog.Error("Failed to create summary sink", "error", err)
		os.Exit(1)
	}

	var routerOpts []router.RunsRouterOption
	if sink != nil {
		defer sink.Close()
		routerOpts = append(routerOpts, router.WithSink(sink))
		slog.Info("Summary sink enabled", "type", stCfg.Type)
	}

	runsRouter := router.NewRunsRouter(s.Echo, pipeline.New(pipelineOpts...), in_mem.NewInMemStorer(), routerOpts...)
	runsRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
