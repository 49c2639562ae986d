package kafka

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEvent is published after a booking transaction commits.
// Money fields are in cents.
type BookingEvent struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Reference    string    `json:"booking_reference"`
	BookingID    int64     `json:"booking_id"`
	FlightID     int64     `json:"flight_id"`
	FlightNumber string    `json:"flight_number,omitempty"`
	UserID       int64     `json:"user_id"`
	Passengers   int       `json:"passengers"`
	Emails       []string  `json:"emails,omitempty"`
	Seats        []string  `json:"seats,omitempty"`
	TotalCents   int64     `json:"total_cents"`
	RefundCents  *int64    `json:"refund_cents,omitempty"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
