// Package metrics owns the Prometheus registry and the HTTP request
// instruments: a duration histogram, a request counter and an in-flight
// gauge. Every exported sample carries a fixed "app" label, and the
// registry also serves the standard Go runtime and process collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultDurationBuckets are the histogram upper bounds in seconds, tuned
// for an in-memory service that normally answers well under a second.
var DefaultDurationBuckets = []float64{0.1, 0.3, 0.5, 0.7, 1, 3, 5, 7, 10}

// Config controls metric naming and labeling.
type Config struct {
	Namespace       string
	AppLabel        string
	DurationBuckets []float64
}

// Collector owns the registry and the request instruments. Instrument
// updates are safe under concurrent requests; the client library serializes
// them internally.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewCollector creates the instruments and registers them, together with the
// Go and process collectors, on the given registry. A nil registry gets a
// fresh one. Duplicate metric names panic with the client library's
// AlreadyRegisteredError, so wiring mistakes surface at startup.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "roster"
	}
	if cfg.AppLabel == "" {
		cfg.AppLabel = "user-roster"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = DefaultDurationBuckets
	}

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"method", "route", "status"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
	}

	// The wrapped registerer stamps the app label onto every sample,
	// including the runtime collectors.
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"app": cfg.AppLabel}, registry)
	reg.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// observe records one completed request lifecycle. With fixed label names
// this cannot fail, keeping instrumentation self-contained.
func (c *Collector) observe(method, route string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	c.requestDuration.With(labels).Observe(duration.Seconds())
	c.requestsTotal.With(labels).Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the exposition endpoint for the registry, to be mounted
// at /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
