package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "resolution_estimator"

// Prediction outcome labels.
const (
	OutcomeSuccess          = "success"
	OutcomeEncodingError    = "encoding_error"
	OutcomeDateParsingError = "date_parsing_error"
	OutcomePredictionError  = "prediction_error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry           *prometheus.Registry
	httpRequests       *prometheus.CounterVec
	httpErrors         *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	predictions        *prometheus.CounterVec
	predictionDuration prometheus.Histogram
	unseenCategories   *prometheus.CounterVec
	artifactReloads    *prometheus.CounterVec
}

// NewMetrics creates collectors and registers them on a private registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, partitioned by method, route and status.",
		}, []string{"method", "path", "status"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP error responses, partitioned by route and error code.",
		}, []string{"method", "path", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_seconds",
			Help:      "HTTP request latency in seconds, partitioned by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Prediction pipeline executions, partitioned by outcome.",
		}, []string{"outcome"}),
		predictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_seconds",
			Help:      "Prediction pipeline latency in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		unseenCategories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unseen_category_total",
			Help:      "Categorical values encoded as unknown, partitioned by field.",
		}, []string{"field"}),
		artifactReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_reloads_total",
			Help:      "Artifact load attempts, partitioned by outcome.",
		}, []string{"outcome"}),
	}
	if err := m.Register(m.registry); err != nil {
		return nil, err
	}
	return m, nil
}

// Register attaches the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.httpRequests,
		m.httpErrors,
		m.httpDuration,
		m.predictions,
		m.predictionDuration,
		m.unseenCategories,
		m.artifactReloads,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// Gatherer exposes the registry for the /metrics handler.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// RecordRequest counts a request and observes its latency. Label values must
// be owned strings, not views into a fiber request buffer.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(method, path, code).Inc()
}

// ObservePrediction records a pipeline execution.
func (m *Metrics) ObservePrediction(duration time.Duration, outcome string, unseenFields []string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	m.predictionDuration.Observe(duration.Seconds())
	for _, f := range unseenFields {
		m.unseenCategories.WithLabelValues(f).Inc()
	}
}

// RecordReload counts an artifact load attempt.
func (m *Metrics) RecordReload(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = "error"
	}
	m.artifactReloads.WithLabelValues(outcome).Inc()
}
