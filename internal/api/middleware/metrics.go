package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus instruments the API exposes. Handlers
// share one instance; registration happens once against the registry
// passed to NewMetrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SolvesTotal     *prometheus.CounterVec
	SolveDuration   prometheus.Histogram
	ActiveSolves    prometheus.Gauge
}

// NewMetrics builds and registers the instrument set.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tariff_http_requests_total",
			Help: "HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tariff_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SolvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tariff_solves_total",
			Help: "Optimization solves by terminal status.",
		}, []string{"status"}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tariff_solve_duration_seconds",
			Help:    "Optimization solve wall time.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		}),
		ActiveSolves: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tariff_active_solves",
			Help: "Solves currently running.",
		}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.SolvesTotal, m.SolveDuration, m.ActiveSolves)
	return m
}

// Collect records request count and latency per matched route.
func (m *Metrics) Collect() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
