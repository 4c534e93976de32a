package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts pipeline runs by outcome: "ok", "no_input" or "error"
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "results_pipeline_runs_total",
		Help: "Total pipeline runs by outcome",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "results_pipeline_run_duration_seconds",
		Help:    "Pipeline run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	filesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "results_pipeline_files_total",
		Help: "Result files seen by the loader, by status",
	}, []string{"status"})

	rowsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "results_pipeline_rows_loaded_total",
		Help: "Trial rows loaded from result files",
	})

	// groupsTotal counts emitted groups plus the ones dropped or flagged during evaluation
	groupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "results_pipeline_groups_total",
		Help: "Aggregated groups by status",
	}, []string{"status"})
)
