package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query and validation Prometheus metrics.
var (
	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lodestone",
			Name:      "query_duration_seconds",
			Help:      "Hybrid query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"doc_type"},
	)

	queryResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lodestone",
			Name:      "query_results",
			Help:      "Number of results returned per query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"doc_type"},
	)

	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lodestone",
			Name:      "validations_total",
			Help:      "Total document validations by outcome",
		},
		[]string{"doc_type", "valid"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers query and validation metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(queryDuration)
	prometheus.MustRegister(queryResults)
	prometheus.MustRegister(validationsTotal)
	searchMetricsRegistered = true
}

// ObserveQuery records one completed hybrid query.
func ObserveQuery(docType string, d time.Duration, results int) {
	queryDuration.WithLabelValues(docType).Observe(d.Seconds())
	queryResults.WithLabelValues(docType).Observe(float64(results))
}

// ObserveValidation records one validation outcome.
func ObserveValidation(docType string, valid bool) {
	validationsTotal.WithLabelValues(docType, strconv.FormatBool(valid)).Inc()
}
