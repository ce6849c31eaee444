package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ETL pipelines.
type Metrics struct {
	RowsIngested  *prometheus.CounterVec // labels: source={database,csv}
	RowsCorrected prometheus.Counter

	MeasurementsExtracted *prometheus.CounterVec // labels: measurement, outcome={match,miss}
	AggregationSkips      prometheus.Counter
	StationFallbacks      prometheus.Counter

	PipelineRuns     *prometheus.CounterVec // labels: pipeline={field,weather}, outcome={success,error}
	PipelineDuration *prometheus.HistogramVec
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farm_etl",
			Name:      "rows_ingested_total",
			Help:      "Total rows ingested, by acquisition source.",
		}, []string{"source"}),
		RowsCorrected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farm_etl",
			Name:      "rows_corrected_total",
			Help:      "Total survey rows that passed through field corrections.",
		}),
		MeasurementsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farm_etl",
			Name:      "measurements_extracted_total",
			Help:      "Message extraction attempts by measurement and outcome.",
		}, []string{"measurement", "outcome"}),
		AggregationSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farm_etl",
			Name:      "aggregation_skips_total",
			Help:      "Times the weather pipeline continued without an aggregate.",
		}),
		StationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farm_etl",
			Name:      "station_fallbacks_total",
			Help:      "Times no station column alias matched and the first column was used.",
		}),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farm_etl",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline executions by pipeline and outcome.",
		}, []string{"pipeline", "outcome"}),
		PipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "farm_etl",
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end pipeline duration.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"pipeline"}),
	}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsIngested,
		m.RowsCorrected,
		m.MeasurementsExtracted,
		m.AggregationSkips,
		m.StationFallbacks,
		m.PipelineRuns,
		m.PipelineDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
