package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsIssued counts tickets created, labeled by event and kind.
	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets issued",
		},
		[]string{"event_id", "kind"},
	)

	// CheckIns counts door scans, labeled by event and outcome
	// (ok or repeat).
	CheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkins_total",
			Help: "Total check-in attempts",
		},
		[]string{"event_id", "status"},
	)

	// PaymentRejections counts payment proofs rejected by the signature
	// check.
	PaymentRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_signature_rejections_total",
			Help: "Total payment proofs rejected for a bad signature",
		},
	)

	// NotificationFailures counts ticket emails that could not be sent.
	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Total ticket notification emails that failed to send",
		},
	)

	// HTTPRequests counts requests by method, route pattern and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)
