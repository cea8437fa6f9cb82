package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// cleaning pipeline.
type Metrics struct {
	Runs            prometheus.Counter
	RunFailures     prometheus.Counter
	PipelineRunning prometheus.Gauge
	SampleSize      prometheus.Gauge
	RunDuration     prometheus.Histogram

	// Per-stage metrics, labeled by stage name.
	RowsOut       *prometheus.CounterVec   // rows surviving each stage
	RowsDropped   *prometheus.CounterVec   // rows removed by each stage
	StageDuration *prometheus.HistogramVec // seconds spent per stage
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "obs_pipeline",
			Name:      "runs_total",
			Help:      "Total completed pipeline runs.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "obs_pipeline",
			Name:      "run_failures_total",
			Help:      "Total pipeline runs aborted by a fatal error.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "obs_pipeline",
			Name:      "running",
			Help:      "1 while a pipeline run is in progress, 0 otherwise.",
		}),
		SampleSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "obs_pipeline",
			Name:      "sample_rows",
			Help:      "Number of rows in the most recent sampled set.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "obs_pipeline",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete pipeline run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RowsOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obs_pipeline",
			Name:      "stage_rows_out_total",
			Help:      "Rows surviving each cleaning stage.",
		}, []string{"stage"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "obs_pipeline",
			Name:      "stage_rows_dropped_total",
			Help:      "Rows removed by each cleaning stage.",
		}, []string{"stage"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "obs_pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each cleaning stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
	}

	prometheus.MustRegister(
		m.Runs,
		m.RunFailures,
		m.PipelineRunning,
		m.SampleSize,
		m.RunDuration,
		m.RowsOut,
		m.RowsDropped,
		m.StageDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Runs:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "obs_pipeline", Name: "runs_total"}),
		RunFailures:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "obs_pipeline", Name: "run_failures_total"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "obs_pipeline", Name: "running"}),
		SampleSize:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "obs_pipeline", Name: "sample_rows"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "obs_pipeline", Name: "run_duration_seconds"}),
		RowsOut:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "obs_pipeline", Name: "stage_rows_out_total"}, []string{"stage"}),
		RowsDropped:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "obs_pipeline", Name: "stage_rows_dropped_total"}, []string{"stage"}),
		StageDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "obs_pipeline", Name: "stage_duration_seconds"}, []string{"stage"}),
	}
}
