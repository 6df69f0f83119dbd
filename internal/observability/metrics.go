package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orbit_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	Runs            *prometheus.CounterVec // labels: outcome={success,error}
	RecordsParsed   prometheus.Counter
	PipelineRunning prometheus.Gauge
	CatalogSize     prometheus.Gauge

	// Enrichment metrics.
	RecordsByClass      *prometheus.GaugeVec   // labels: orbit_class
	AltitudeSources     *prometheus.CounterVec // labels: source={sgp4,mean_motion,none}
	PropagationFailures *prometheus.CounterVec // labels: status={error,eccentricity}

	// Stage timings.
	FetchDuration           prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Sink metrics.
	LoadErrors *prometheus.CounterVec // labels: sink

	// Position cache metrics.
	PositionCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Runs,
		m.RecordsParsed,
		m.PipelineRunning,
		m.CatalogSize,
		m.RecordsByClass,
		m.AltitudeSources,
		m.PropagationFailures,
		m.FetchDuration,
		m.BatchProcessingDuration,
		m.LoadErrors,
		m.PositionCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "ETL runs by outcome.",
		}, []string{"outcome"}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Total element sets split from fetched catalog text.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_size",
			Help:      "Number of records in the most recently loaded catalog.",
		}),
		RecordsByClass: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_by_orbit_class",
			Help:      "Records in the most recent catalog by orbit class.",
		}, []string{"orbit_class"}),
		AltitudeSources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "altitude_source_total",
			Help:      "Enriched records by the source of their approximate altitude.",
		}, []string{"source"}),
		PropagationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "propagation_failures_total",
			Help:      "SGP4 evaluations that did not produce a usable state vector, by status.",
		}, []string{"status"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of catalog fetches from the TLE source.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Failed batch loads by sink.",
		}, []string{"sink"}),
		PositionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "position_cache_total",
			Help:      "Geodetic fix cache lookups by result.",
		}, []string{"result"}),
	}
}
