package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNoAvailableSeats   = errors.New("no available seats")
	ErrSeatOverflow       = errors.New("seat release exceeds flight capacity")
	ErrDuplicateReference = errors.New("booking reference already exists")
	ErrDuplicateFlight    = errors.New("flight number already exists")
)

type FlightFilter struct {
	DepartureCity string
	ArrivalCity   string
	DepartureDate string
	MinSeats      int
}

func (f FlightFilter) IsZero() bool {
	return f == FlightFilter{}
}

// CacheKey is stable for equal filters.
func (f FlightFilter) CacheKey() string {
	return fmt.Sprintf("from=%s:to=%s:date=%s:seats=%d",
		strings.ToLower(f.DepartureCity), strings.ToLower(f.ArrivalCity), f.DepartureDate, f.MinSeats)
}

type BookingFilter struct {
	UserID int64
	Status domain.BookingStatus
	Limit  int
	Offset int
}

type FlightRepository interface {
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	// Update writes schedule, price and status. Seat counters are never touched here.
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type BookingRepository interface {
	// WithinTx runs fn in one transaction; any error from fn rolls everything back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// List returns a page of bookings, newest first, and the total matching count.
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, int, error)
	CountByFlight(ctx context.Context, flightID int64) (int, error)
}

// Tx is the set of writes the booking workflow performs atomically.
type Tx interface {
	GetFlight(ctx context.Context, id int64) (*domain.Flight, error)
	// ReserveSeats decrements available seats only if at least n remain,
	// returning ErrNoAvailableSeats otherwise.
	ReserveSeats(ctx context.Context, flightID int64, n int) (*domain.Flight, error)
	// ReleaseSeats increments available seats without exceeding total seats,
	// returning ErrSeatOverflow otherwise.
	ReleaseSeats(ctx context.Context, flightID int64, n int) (*domain.Flight, error)
	TakenSeats(ctx context.Context, flightID int64) ([]string, error)
	CreateBooking(ctx context.Context, booking *domain.Booking) error
	CreatePassengers(ctx context.Context, bookingID int64, passengers []domain.Passenger) error
	// GetBookingForUpdate locks the booking row and loads its passengers.
	GetBookingForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateBookingStatus writes the status, payment, cancellation and
	// special request columns.
	UpdateBookingStatus(ctx context.Context, booking *domain.Booking) error
}
