package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Total stage executions, including retries. Watch for: attempts much
	// higher than runs = unstable upstream or store.
	StageAttemptsTotal *prometheus.CounterVec

	// Retry attempts only (attempt > 1). Watch for: any sustained nonzero rate.
	StageRetriesTotal *prometheus.CounterVec

	// Total wall-clock per stage across all its attempts, retry delays included.
	StageDuration *prometheus.HistogramVec

	// Flow runs by outcome (success / error).
	FlowRunsTotal *prometheus.CounterVec

	// End-to-end flow latency. Watch for: p95 near the external API timeout.
	FlowDuration prometheus.Histogram
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	StageAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stageAttemptsTotal",
			Help: "Total number of stage attempts, including retries",
		},
		[]string{"stage"},
	)
	StageRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stageRetriesTotal",
			Help: "Total number of retry attempts per stage",
		},
		[]string{"stage"},
	)
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stageDurationSeconds",
			Help:    "Stage wall-clock time in seconds across all attempts",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)
	FlowRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowRunsTotal",
			Help: "Total number of flow runs by outcome",
		},
		[]string{"outcome"},
	)
	FlowDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowDurationSeconds",
			Help:    "End-to-end flow latency in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	registry.MustRegister(
		StageAttemptsTotal, StageRetriesTotal, StageDuration,
		FlowRunsTotal, FlowDuration,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
