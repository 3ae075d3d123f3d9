// Package metrics provides Prometheus metrics for legisdash
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/legisdash/legisdash/internal/core/listquery"
)

// Metrics holds all Prometheus metrics for legisdash
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream API metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// List controller metrics
	ListDispatchesTotal  *prometheus.CounterVec
	ListDiscardedTotal   *prometheus.CounterVec
	ListSettlementsTotal *prometheus.CounterVec
	ListSettleDuration   *prometheus.HistogramVec

	SessionsActive prometheus.Gauge
}

// New creates and registers all metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{}

	m.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legisdash_http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legisdash_http_request_duration_seconds",
			Help:    "Duration of dashboard HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.UpstreamRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legisdash_upstream_requests_total",
			Help: "Total number of requests to the legislative API",
		},
		[]string{"resource", "status"},
	)

	m.UpstreamRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legisdash_upstream_request_duration_seconds",
			Help:    "Duration of legislative API requests in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"resource"},
	)

	m.ListDispatchesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legisdash_list_dispatches_total",
			Help: "Total number of list requests dispatched by controllers",
		},
		[]string{"entity"},
	)

	m.ListDiscardedTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legisdash_list_stale_responses_total",
			Help: "Total number of superseded list responses that were discarded",
		},
		[]string{"entity"},
	)

	m.ListSettlementsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legisdash_list_settlements_total",
			Help: "Total number of published list results by status",
		},
		[]string{"entity", "status"},
	)

	m.ListSettleDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legisdash_list_settle_duration_seconds",
			Help:    "Time from dispatch to publication of a list result",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity"},
	)

	m.SessionsActive = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "legisdash_view_sessions_active",
			Help: "Number of open view sessions",
		},
	)

	return m
}

// RecordHTTPRequest records a handled dashboard request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstreamRequest records one legislative API call
func (m *Metrics) RecordUpstreamRequest(resource, status string, duration time.Duration) {
	m.UpstreamRequestsTotal.WithLabelValues(resource, status).Inc()
	m.UpstreamRequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// ListObserver adapts the list metrics to listquery.Observer.
func (m *Metrics) ListObserver() listquery.Observer {
	return listObserver{m: m}
}

type listObserver struct {
	m *Metrics
}

func (o listObserver) Dispatched(entity string) {
	o.m.ListDispatchesTotal.WithLabelValues(entity).Inc()
}

func (o listObserver) Discarded(entity string) {
	o.m.ListDiscardedTotal.WithLabelValues(entity).Inc()
}

func (o listObserver) Settled(entity string, status listquery.Status, elapsed time.Duration) {
	o.m.ListSettlementsTotal.WithLabelValues(entity, string(status)).Inc()
	o.m.ListSettleDuration.WithLabelValues(entity).Observe(elapsed.Seconds())
}
