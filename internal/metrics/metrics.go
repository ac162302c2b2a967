// Package metrics exposes Prometheus collectors for the HTTP layer and the
// document store.
//
// Collectors live on a private registry owned by Metrics rather than the
// global default one, so every test can build its own instance.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/snippet-social/internal/store"
)

// Metrics holds every collector the server reports.
//
//	http_requests_total{route,method,status}
//	http_request_duration_seconds{route,method}
//	store_operations_total{op,code}
//	store_operation_duration_seconds{op}
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"route", "method"},
		),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "store_operations_total", Help: "Document store calls by operation and result code."},
			[]string{"op", "code"},
		),
		storeLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "store_operation_duration_seconds", Help: "Document store call latency in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"op"},
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpLatency,
		m.storeOps,
		m.storeLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one completed request. route is the chi route pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveStore records one store call. A nil err is reported as code "ok".
func (m *Metrics) ObserveStore(op string, err error, d time.Duration) {
	code := "ok"
	if err != nil {
		code = string(store.CodeOf(err))
	}
	m.storeOps.WithLabelValues(op, code).Inc()
	m.storeLatency.WithLabelValues(op).Observe(d.Seconds())
}
