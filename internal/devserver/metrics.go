package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the stub backend with Prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	eventSubs       prometheus.Gauge
	eventsPublished prometheus.Counter
}

// NewMetrics registers the stub server collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	eventSubs := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "event_subscribers",
		Help: "Open /events subscriptions",
	})

	eventsPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Change events broadcast to subscribers",
	})

	registry.MustRegister(requestTotal, requestDuration, eventSubs, eventsPublished)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		eventSubs:       eventSubs,
		eventsPublished: eventsPublished,
	}
}

// Handler exposes the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestTotal.WithLabelValues(labels...).Inc()
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
}

// SubscriberOpened / SubscriberClosed track the events gauge.
func (m *Metrics) SubscriberOpened() { m.eventSubs.Inc() }

func (m *Metrics) SubscriberClosed() { m.eventSubs.Dec() }

// EventPublished counts one broadcast change event.
func (m *Metrics) EventPublished() { m.eventsPublished.Inc() }

// Middleware captures request metrics for every route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
