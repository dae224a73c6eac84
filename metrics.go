package binder

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// DurationBuckets are the histogram buckets for dispatch latency, from
// 100µs to 1s.
var DurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// Metrics records dispatch outcomes in Prometheus collectors. A nil
// *Metrics records nothing.
type Metrics struct {
	requests   *prometheus.CounterVec
	bindErrors *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// Labels carry the route pattern, never the raw path.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Dispatched requests by method, route pattern and status.",
			},
			[]string{"method", "route", "status"},
		),
		bindErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bind_errors_total",
				Help:      "Parameter errors by route pattern, source and reason.",
			},
			[]string{"route", "source", "reason"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time spent matching, binding and running the handler.",
				Buckets:   DurationBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.requests, m.bindErrors, m.duration)
	return m
}

func (m *Metrics) observe(method, route string, resp *Response, start time.Time) {
	if m == nil {
		return
	}
	if route == "" {
		route = unmatchedRoute
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(resp.Status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func (m *Metrics) bindFailed(route string, be *BindError) {
	if m == nil {
		return
	}
	for _, fe := range be.Errors {
		m.bindErrors.WithLabelValues(route, string(fe.Source), string(fe.Reason)).Inc()
	}
}
