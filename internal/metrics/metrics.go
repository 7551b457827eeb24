package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agenda_http_requests_total",
		Help: "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agenda_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	OccurrencesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agenda_occurrences_generated_total",
		Help: "Occurrences produced by recurrence expansion.",
	})

	OccurrencesTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agenda_occurrences_truncated_total",
		Help: "Expansions cut short by the occurrence ceiling.",
	})

	MalformedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agenda_malformed_events_total",
		Help: "Stored events skipped during a query because they could not be expanded.",
	})

	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agenda_reminders_sent_total",
		Help: "Push reminders attempted, by result.",
	}, []string{"result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
