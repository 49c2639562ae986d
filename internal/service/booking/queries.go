package booking

import (
	"context"
	"errors"
	"strings"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/repository"
	"github.com/samber/lo"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPage keeps the row offset far from integer overflow.
	MaxPage = 1_000_000
)

type ListBookingsInput struct {
	// Status empty or "all" lists every booking.
	Status string `form:"status"`
	Page   int    `form:"page" binding:"gte=0,max=1000000"`
	Limit  int    `form:"limit" binding:"gte=0"`
}

type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalBookings int `json:"totalBookings"`
	Limit         int `json:"limit"`
}

type BookingPage struct {
	Bookings   []domain.Booking `json:"bookings"`
	Pagination Pagination       `json:"pagination"`
}

// GetBooking loads a booking with passengers and flight. Under the self policy
// only the owner may read it.
func (s *BookingService) GetBooking(ctx context.Context, id, requesterID int64, policy domain.CancellationPolicy) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("booking %d not found", id)
		}
		return nil, domain.Internal(err, "load booking")
	}
	if policy != domain.PolicyAdmin && b.UserID != requesterID {
		return nil, domain.Forbidden("booking %s belongs to another user", b.Reference)
	}
	s.attachFlights(ctx, []*domain.Booking{b})
	return b, nil
}

// ListUserBookings returns the user's bookings, newest first.
func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	bookings, _, err := s.bookings.List(ctx, repository.BookingFilter{UserID: userID})
	if err != nil {
		return nil, domain.Internal(err, "list bookings")
	}
	s.attachFlights(ctx, lo.Map(bookings, func(_ domain.Booking, i int) *domain.Booking { return &bookings[i] }))
	return bookings, nil
}

func (s *BookingService) ListBookings(ctx context.Context, input ListBookingsInput) (*BookingPage, error) {
	filter := repository.BookingFilter{}
	if st := strings.ToLower(strings.TrimSpace(input.Status)); st != "" && st != "all" {
		status := domain.BookingStatus(st)
		if !status.Valid() {
			return nil, domain.InvalidRequest("unknown booking status %q", input.Status)
		}
		filter.Status = status
	}
	if input.Page > MaxPage {
		return nil, domain.InvalidRequest("page must be at most %d", MaxPage)
	}
	page := max(input.Page, 1)
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, domain.Internal(err, "list bookings")
	}
	s.attachFlights(ctx, lo.Map(bookings, func(_ domain.Booking, i int) *domain.Booking { return &bookings[i] }))

	return &BookingPage{
		Bookings: bookings,
		Pagination: Pagination{
			CurrentPage:   page,
			TotalPages:    (total + limit - 1) / limit,
			TotalBookings: total,
			Limit:         limit,
		},
	}, nil
}

// UpdateSpecialRequests replaces the owner's free-text requests. Cancelled
// bookings are frozen; the row lock keeps a concurrent cancellation and its
// admin note from being overwritten.
func (s *BookingService) UpdateSpecialRequests(ctx context.Context, id, requesterID int64, text string) (*domain.Booking, error) {
	text = strings.TrimSpace(text)
	var booking *domain.Booking
	err := s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NotFound("booking %d not found", id)
			}
			return err
		}
		if b.UserID != requesterID {
			return domain.Forbidden("booking %s belongs to another user", b.Reference)
		}
		if b.Status == domain.BookingStatusCancelled {
			return domain.AlreadyCancelled(b.Reference)
		}
		b.SpecialRequests = text
		if err := tx.UpdateBookingStatus(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "update special requests")
	}
	s.attachFlights(ctx, []*domain.Booking{booking})
	return booking, nil
}

// attachFlights fills Booking.Flight. A missing flight leaves the field nil.
func (s *BookingService) attachFlights(ctx context.Context, bookings []*domain.Booking) {
	ids := lo.Uniq(lo.Map(bookings, func(b *domain.Booking, _ int) int64 { return b.FlightID }))
	flights := make(map[int64]*domain.Flight, len(ids))
	for _, id := range ids {
		f, err := s.flights.GetByID(ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logger.FromContext(ctx).WithError(err).WithField("flight_id", id).Warn("load flight for booking")
			}
			continue
		}
		flights[id] = f
	}
	for _, b := range bookings {
		b.Flight = flights[b.FlightID]
	}
}
