// Package observability provides Prometheus metrics for the prediction service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "cadrisk"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	PredictionsTotal   *prometheus.CounterVec
	PredictionErrors   *prometheus.CounterVec
	PredictionDuration prometheus.Histogram
	CacheHits          prometheus.Counter
	ModelLoaded        prometheus.Gauge
}

// NewMetrics creates a Metrics instance on its own registry, so several
// instances can coexist in tests.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "predict",
			Name:      "predictions_total",
			Help:      "Total number of successful predictions by risk tier",
		}, []string{"interpretation"}),
		PredictionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "predict",
			Name:      "errors_total",
			Help:      "Total number of rejected prediction requests by reason",
		}, []string{"reason"}),
		PredictionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "predict",
			Name:      "duration_seconds",
			Help:      "Time spent handling a prediction request",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "predict",
			Name:      "cache_hits_total",
			Help:      "Total number of predictions served from the result cache",
		}),
		ModelLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "loaded_timestamp_seconds",
			Help:      "Unix time the model artifact was loaded",
		}),
	}
}

// ObservePrediction records one successful prediction.
func (m *Metrics) ObservePrediction(interpretation string, cached bool, elapsed time.Duration) {
	m.PredictionsTotal.WithLabelValues(interpretation).Inc()
	m.PredictionDuration.Observe(elapsed.Seconds())
	if cached {
		m.CacheHits.Inc()
	}
}

// ObserveError records one rejected request.
func (m *Metrics) ObserveError(reason string, elapsed time.Duration) {
	m.PredictionErrors.WithLabelValues(reason).Inc()
	m.PredictionDuration.Observe(elapsed.Seconds())
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
