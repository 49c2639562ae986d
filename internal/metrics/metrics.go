package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "airline"

var (
	// BookingsCreated The total number of confirmed bookings (counter)
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of confirmed bookings",
		},
	)

	// SeatsSold The total number of seats taken by confirmed bookings (counter)
	SeatsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seats_sold_total",
			Help:      "The total number of seats taken by confirmed bookings",
		},
	)

	// BookingsCancelled The total number of cancellations by policy (counter)
	BookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of cancelled bookings",
		},
		[]string{"policy"},
	)

	// RefundedCents The total refunded amount in cents by policy (counter)
	RefundedCents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refunded_cents_total",
			Help:      "The total amount refunded, in cents",
		},
		[]string{"policy"},
	)

	// BookingFailures Rejected booking and cancellation attempts by operation and error kind (counter)
	BookingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_failures_total",
			Help:      "Rejected booking operations by error kind",
		},
		[]string{"operation", "kind"},
	)

	// HTTPRequestDuration Request latency by route and status (histogram)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
