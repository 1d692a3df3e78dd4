package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	runs            *prometheus.CounterVec
	placements      prometheus.Counter
	unscheduled     prometheus.Counter
	generation      prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timetable_runs_total",
			Help: "Timetable generations by outcome",
		}, []string{"outcome"}),
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_placements_total",
			Help: "Grid cells filled by generated timetables",
		}),
		unscheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_unscheduled_hours_total",
			Help: "Hours that could not be placed",
		}),
		generation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timetable_generation_seconds",
			Help:    "Time spent generating one timetable",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		}),
	}

	registry.MustRegister(m.requestDuration, m.requestTotal, m.runs, m.placements,
		m.unscheduled, m.generation, m.cacheHits, m.cacheMisses)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	m.requestDuration.With(labels).Observe(d.Seconds())
	m.requestTotal.With(labels).Inc()
}

func (m *Metrics) ObserveRun(outcome string, placements int, unscheduledHours float64, d time.Duration) {
	m.runs.WithLabelValues(outcome).Inc()
	m.placements.Add(float64(placements))
	m.unscheduled.Add(unscheduledHours)
	m.generation.Observe(d.Seconds())
}

func (m *Metrics) CacheHit()  { m.cacheHits.Inc() }
func (m *Metrics) CacheMiss() { m.cacheMisses.Inc() }

// Middleware records request metrics keyed by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
