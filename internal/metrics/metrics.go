// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "school",
		Subsystem: "attendance_bus",
		Name:      "events_published_total",
		Help:      "Attendance events handed to the in-process bus.",
	})

	SubscriberPanics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "school",
		Subsystem: "attendance_bus",
		Name:      "subscriber_panics_total",
		Help:      "Subscriber callbacks that panicked during delivery.",
	})

	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "school",
		Subsystem: "attendance_bus",
		Name:      "subscribers",
		Help:      "Currently registered bus subscribers across all buses.",
	})

	StreamsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "school",
		Subsystem: "attendance_stream",
		Name:      "open_connections",
		Help:      "Open attendance event-stream connections.",
	})

	StreamDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "school",
		Subsystem: "attendance_stream",
		Name:      "dropped_events_total",
		Help:      "Events dropped because a stream buffer was full.",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "school",
		Subsystem: "summary_cache",
		Name:      "lookups_total",
		Help:      "Summary cache lookups by result.",
	}, []string{"result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "school",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "school",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "school",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the per-IP rate limiter.",
	})
)
