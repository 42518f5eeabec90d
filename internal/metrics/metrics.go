package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	ticketsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chamados",
			Name:      "tickets_created_total",
			Help:      "Count of tickets created by client type.",
		},
		[]string{"client_type"},
	)

	ticketTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chamados",
			Name:      "ticket_transitions_total",
			Help:      "Count of ticket status transitions.",
		},
		[]string{"status"},
	)

	slotsComputed = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chamados",
			Name:      "available_slots_returned",
			Help:      "Number of available slots returned per computation.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	calendarFetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chamados",
			Name:      "calendar_fetch_failures_total",
			Help:      "Count of Google Calendar fetch failures by operation.",
		},
		[]string{"operation"},
	)

	auditDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chamados",
			Name:      "audit_events_dropped_total",
			Help:      "Count of audit events dropped because the queue was full.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ticketsCreated,
			ticketTransitions,
			slotsComputed,
			calendarFetchFailures,
			auditDropped,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncTicketCreated(clientType string) {
	ticketsCreated.WithLabelValues(clientType).Inc()
}

func IncTicketTransition(status string) {
	ticketTransitions.WithLabelValues(status).Inc()
}

func ObserveSlots(n int) {
	slotsComputed.Observe(float64(n))
}

func IncCalendarFailure(operation string) {
	calendarFetchFailures.WithLabelValues(operation).Inc()
}

func IncAuditDropped() {
	auditDropped.Inc()
}
