package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_http_requests_total",
			Help: "Number of HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_events_total",
			Help: "Booking lifecycle outcomes (created, approved, rejected, cancelled, completed, conflict).",
		},
		[]string{"event"},
	)

	waitlistNotifiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_waitlist_notified_total",
			Help: "Number of waitlist entries notified after a slot freed up.",
		},
	)
)

// RecordBookingEvent counts a booking lifecycle outcome.
func RecordBookingEvent(event string) {
	bookingEventsTotal.WithLabelValues(event).Inc()
}

// RecordWaitlistNotified counts a waitlist hand-off.
func RecordWaitlistNotified() {
	waitlistNotifiedTotal.Inc()
}

// GinMiddleware instruments every request with a counter and a latency
// histogram, labelled by the registered route pattern rather than the raw
// path to keep cardinality bounded.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
