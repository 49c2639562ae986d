package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// CancellationPolicy decides who cancels a booking and therefore how much is refunded.
type CancellationPolicy string

const (
	PolicySelf  CancellationPolicy = "self"
	PolicyAdmin CancellationPolicy = "admin"
)

func (p CancellationPolicy) Valid() bool {
	return p == PolicySelf || p == PolicyAdmin
}

// AdminCancellationNote prefixes the reason appended to special requests.
const AdminCancellationNote = "Admin Cancellation: "

type Booking struct {
	ID                 int64         `json:"id"`
	Reference          string        `json:"bookingReference"`
	UserID             int64         `json:"userId"`
	FlightID           int64         `json:"flightId"`
	NumberOfPassengers int           `json:"numberOfPassengers"`
	TotalPrice         Money         `json:"totalPrice"`
	Status             BookingStatus `json:"bookingStatus"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
	TransactionID      string        `json:"transactionId"`
	BookingDate        time.Time     `json:"bookingDate"`
	CancellationDate   *time.Time    `json:"cancellationDate,omitempty"`
	RefundAmount       *Money        `json:"refundAmount,omitempty"`
	SpecialRequests    string        `json:"specialRequests"`
	Passengers         []Passenger   `json:"passengers,omitempty"`
	Flight             *Flight       `json:"flight,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// HoldsSeats reports whether the booking still counts against flight inventory.
func (b *Booking) HoldsSeats() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusPending
}

// AppendNote adds a line to special requests, keeping what was there.
func (b *Booking) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	b.SpecialRequests = strings.TrimSpace(b.SpecialRequests + "\n" + note)
}
