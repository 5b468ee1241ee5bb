// Package metrics exposes Prometheus collectors for the starfield and its
// API server. Every method is safe on a nil *Collector.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values used when the real value would make an unbounded series.
const (
	OtherCategory  = "other"
	UnmatchedRoute = "unmatched"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry
	known    map[string]struct{}

	TickDuration prometheus.Histogram
	Nodes        prometheus.Gauge
	Alpha        prometheus.Gauge

	StarsCreated     *prometheus.CounterVec
	AnalysisFailures prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a collector on its own registry. When categories are given,
// StarCreated counts any other category under OtherCategory.
func New(namespace string, categories ...string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_tick_duration_seconds",
			Help:      "Time spent in one layout step",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		}),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_nodes",
			Help:      "Stars in the simulation",
		}),
		Alpha: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_alpha",
			Help:      "Current simulation energy",
		}),
		StarsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stars_created_total",
			Help:      "Stars created, by category",
		}, []string{"category"}),
		AnalysisFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Analyses that fell back to the echo star",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if len(categories) > 0 {
		c.known = make(map[string]struct{}, len(categories))
		for _, name := range categories {
			c.known[name] = struct{}{}
		}
	}

	registry.MustRegister(
		c.TickDuration,
		c.Nodes,
		c.Alpha,
		c.StarsCreated,
		c.AnalysisFailures,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveTick records one engine step. Its signature matches
// layout.WithObserver.
func (c *Collector) ObserveTick(d time.Duration, nodes int, alpha float64) {
	if c == nil {
		return
	}
	c.TickDuration.Observe(d.Seconds())
	c.Nodes.Set(float64(nodes))
	c.Alpha.Set(alpha)
}

// StarCreated counts a finished submission.
func (c *Collector) StarCreated(category string) {
	if c == nil {
		return
	}
	if c.known != nil {
		if _, ok := c.known[category]; !ok {
			category = OtherCategory
		}
	}
	c.StarsCreated.WithLabelValues(category).Inc()
}

// AnalysisFailed counts an analysis that fell back to the echo star.
func (c *Collector) AnalysisFailed(error) {
	if c == nil {
		return
	}
	c.AnalysisFailures.Inc()
}

// ObserveRequest records one HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
