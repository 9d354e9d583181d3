package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	PlansGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "study_plans_generated_total",
			Help: "Number of study plan regenerations",
		},
	)

	TasksGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_tasks_generated_total",
			Help: "Tasks created by plan generation",
		},
		[]string{"kind"}, // study | revision
	)

	PriorityUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priority_updates_total",
			Help: "Subject priority update outcomes",
		},
		[]string{"outcome"},
	)

	TasksMarkedMissed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_marked_missed_total",
			Help: "Pending tasks flipped to missed by the nightly sweep",
		},
	)

	AnalyticsCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_cache_requests_total",
			Help: "Analytics cache lookups",
		},
		[]string{"result"}, // hit | miss | error
	)

	EventConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_stream_connections",
			Help: "Open websocket event stream connections on this instance",
		},
	)

	EventsPushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_pushed_total",
			Help: "Events published to user event streams",
		},
		[]string{"type"},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			PlansGenerated,
			TasksGenerated,
			PriorityUpdates,
			TasksMarkedMissed,
			AnalyticsCache,
			EventConnections,
			EventsPushed,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
