package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "planet_weight"

// Metrics holds the Prometheus collectors for CGI responders.
type Metrics struct {
	Requests        *prometheus.CounterVec // labels: responder, status
	Conversions     *prometheus.CounterVec // labels: planet
	Failures        *prometheus.CounterVec // labels: reason
	RequestDuration prometheus.Histogram
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all responder metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Requests,
		m.Conversions,
		m.Failures,
		m.RequestDuration,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "CGI requests answered, by responder and status code.",
		}, []string{"responder", "status"}),
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Successful weight conversions by planet.",
		}, []string{"planet"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed requests by client-visible reason.",
		}, []string{"reason"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from reading parameters to writing the response.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Conversion events that could not be published.",
		}),
	}
}

// WriteTextfile dumps the default registry in the node_exporter textfile
// collector format. Short-lived CGI processes have no scrape endpoint.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(path, prometheus.DefaultGatherer)
}

// WriteTextfileFrom dumps an arbitrary gatherer.
func WriteTextfileFrom(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
