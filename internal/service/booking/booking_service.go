package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/joshi-samarth/AirlineManagementSystem/config"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/kafka"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/metrics"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/reference"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/repository"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/seating"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	CancelBooking(ctx context.Context, input CancelBookingInput) (*CancellationResult, error)
	GetBooking(ctx context.Context, id, requesterID int64, policy domain.CancellationPolicy) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListBookings(ctx context.Context, input ListBookingsInput) (*BookingPage, error)
	UpdateSpecialRequests(ctx context.Context, id, requesterID int64, text string) (*domain.Booking, error)
}

// Cache is the part of the flights cache that booking changes invalidate.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	selfRefundPercent  int
	adminRefundPercent int
	referenceAttempts  int
	seats              *seating.Allocator
	nextReference      func() string
	now                func() time.Time
}

type CreateBookingInput struct {
	FlightID           int64              `json:"flightId" binding:"required"`
	UserID             int64              `json:"-"`
	NumberOfPassengers int                `json:"numberOfPassengers"`
	Passengers         []domain.Passenger `json:"passengers"`
	SpecialRequests    string             `json:"specialRequests"`
}

type BookingResult struct {
	BookingID          int64        `json:"bookingId"`
	Reference          string       `json:"bookingReference"`
	TotalPrice         domain.Money `json:"totalPrice"`
	NumberOfPassengers int          `json:"numberOfPassengers"`
	Seats              []string     `json:"seats"`
}

type CancelBookingInput struct {
	BookingID int64
	// RequesterID is ignored under the admin policy.
	RequesterID int64
	Policy      domain.CancellationPolicy
	Reason      string
}

type CancellationResult struct {
	BookingID    int64        `json:"bookingId"`
	Reference    string       `json:"bookingReference"`
	RefundAmount domain.Money `json:"refundAmount"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithRefundPolicy sets the refund percentage for self and admin cancellations.
func WithRefundPolicy(selfPercent, adminPercent int) BookingServiceOption {
	return func(s *BookingService) {
		s.selfRefundPercent = selfPercent
		s.adminRefundPercent = adminPercent
	}
}

func WithReferenceAttempts(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.referenceAttempts = n
		}
	}
}

func WithReferenceGenerator(next func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.nextReference = next
	}
}

func WithSeatAllocator(a *seating.Allocator) BookingServiceOption {
	return func(s *BookingService) {
		s.seats = a
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// FromConfig maps the booking section of the config onto service options.
func FromConfig(cfg config.BookingConfig, notificationsTopic string) ([]BookingServiceOption, error) {
	seats, err := seating.NewAllocator(cfg.SeatLetters)
	if err != nil {
		return nil, err
	}
	self, admin := config.DefaultSelfRefundPercent, config.DefaultAdminRefundPercent
	if cfg.SelfRefundPercent != nil {
		self = *cfg.SelfRefundPercent
	}
	if cfg.AdminRefundPercent != nil {
		admin = *cfg.AdminRefundPercent
	}
	return []BookingServiceOption{
		WithNotificationsTopic(notificationsTopic),
		WithRefundPolicy(self, admin),
		WithReferenceAttempts(cfg.ReferenceAttempts),
		WithSeatAllocator(seats),
	}, nil
}

// NewBookingService wires the engine. cache and producer may be nil.
func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	defaultSeats, _ := seating.NewAllocator(seating.DefaultLetters)
	service := &BookingService{
		bookings:           bookings,
		flights:            flights,
		cache:              cache,
		producer:           producer,
		bookingTopic:       bookingTopic,
		selfRefundPercent:  config.DefaultSelfRefundPercent,
		adminRefundPercent: config.DefaultAdminRefundPercent,
		referenceAttempts:  config.DefaultReferenceAttempts,
		seats:              defaultSeats,
		nextReference:      reference.NewGenerator().Next,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	res, err := s.createBooking(ctx, input)
	if err != nil {
		metrics.BookingFailures.WithLabelValues("create", string(domain.KindOf(err))).Inc()
		return nil, err
	}
	return res, nil
}

func (s *BookingService) createBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("flight %d not found", input.FlightID)
		}
		return nil, domain.Internal(err, "load flight")
	}
	if input.NumberOfPassengers <= 0 {
		return nil, domain.InvalidRequest("number of passengers must be positive")
	}
	if input.NumberOfPassengers != len(input.Passengers) {
		return nil, domain.InvalidRequest("number of passengers (%d) does not match passenger details (%d)",
			input.NumberOfPassengers, len(input.Passengers))
	}
	passengers := normalizePassengers(input.Passengers)
	if fields := validatePassengers(passengers); len(fields) > 0 {
		return nil, domain.ValidationFailed(fields)
	}
	if flight.Status == domain.FlightStatusCancelled {
		return nil, domain.InvalidRequest("flight %s is cancelled", flight.FlightNumber)
	}
	if flight.AvailableSeats < input.NumberOfPassengers {
		return nil, domain.InsufficientInventory(flight.AvailableSeats)
	}

	n := input.NumberOfPassengers
	var booking *domain.Booking
	err = s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		// The guarded decrement row-locks the flight until commit, so the
		// seat pool read below cannot race with another booking.
		live, err := tx.ReserveSeats(ctx, flight.ID, n)
		switch {
		case errors.Is(err, repository.ErrNoAvailableSeats):
			current, gerr := tx.GetFlight(ctx, flight.ID)
			if gerr != nil {
				return gerr
			}
			return domain.InsufficientInventory(current.AvailableSeats)
		case errors.Is(err, repository.ErrNotFound):
			return domain.NotFound("flight %d not found", flight.ID)
		case err != nil:
			return err
		}

		taken, err := tx.TakenSeats(ctx, live.ID)
		if err != nil {
			return err
		}
		seats, err := s.seats.Allocate(live.TotalSeats, taken, n)
		if err != nil {
			return domain.Internal(err, "allocate seats on flight %s", live.FlightNumber)
		}

		now := s.now().UTC()
		booking = &domain.Booking{
			UserID:             input.UserID,
			FlightID:           live.ID,
			NumberOfPassengers: n,
			TotalPrice:         live.Price.Mul(n),
			Status:             domain.BookingStatusConfirmed,
			PaymentStatus:      domain.PaymentStatusCompleted,
			TransactionID:      reference.TransactionID(now),
			BookingDate:        now,
			SpecialRequests:    input.SpecialRequests,
		}
		if err := s.insertWithUniqueReference(ctx, tx, booking); err != nil {
			return err
		}

		for i := range passengers {
			passengers[i].SeatAssignment = seats[i]
		}
		if err := tx.CreatePassengers(ctx, booking.ID, passengers); err != nil {
			return err
		}
		booking.Passengers = passengers
		booking.Flight = live
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "create booking")
	}

	metrics.BookingsCreated.Inc()
	metrics.SeatsSold.Add(float64(n))
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"booking_reference": booking.Reference,
		"flight_id":         booking.FlightID,
		"passengers":        n,
	}).Info("booking confirmed")

	s.afterCommit(ctx, kafka.EventBookingConfirmed, booking)

	return &BookingResult{
		BookingID:          booking.ID,
		Reference:          booking.Reference,
		TotalPrice:         booking.TotalPrice,
		NumberOfPassengers: n,
		Seats:              lo.Map(booking.Passengers, func(p domain.Passenger, _ int) string { return p.SeatAssignment }),
	}, nil
}

func (s *BookingService) insertWithUniqueReference(ctx context.Context, tx repository.Tx, booking *domain.Booking) error {
	var lastErr error
	for attempt := 0; attempt < s.referenceAttempts; attempt++ {
		booking.Reference = s.nextReference()
		err := tx.CreateBooking(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateReference) {
			return err
		}
		lastErr = err
		logger.FromContext(ctx).WithField("attempt", attempt+1).Warn("booking reference collision, regenerating")
	}
	return domain.Internal(lastErr, "could not generate a unique booking reference after %d attempts", s.referenceAttempts)
}

func (s *BookingService) CancelBooking(ctx context.Context, input CancelBookingInput) (*CancellationResult, error) {
	res, err := s.cancelBooking(ctx, input)
	if err != nil {
		metrics.BookingFailures.WithLabelValues("cancel", string(domain.KindOf(err))).Inc()
		return nil, err
	}
	return res, nil
}

func (s *BookingService) cancelBooking(ctx context.Context, input CancelBookingInput) (*CancellationResult, error) {
	if !input.Policy.Valid() {
		return nil, domain.InvalidRequest("unknown cancellation policy %q", input.Policy)
	}
	percent := s.selfRefundPercent
	if input.Policy == domain.PolicyAdmin {
		percent = s.adminRefundPercent
	}

	var booking *domain.Booking
	err := s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, input.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NotFound("booking %d not found", input.BookingID)
			}
			return err
		}
		if input.Policy == domain.PolicySelf && b.UserID != input.RequesterID {
			return domain.Forbidden("booking %s belongs to another user", b.Reference)
		}
		// Checked under the row lock: only the transaction that flips the
		// status credits seats back.
		if b.Status == domain.BookingStatusCancelled {
			return domain.AlreadyCancelled(b.Reference)
		}

		now := s.now().UTC()
		refund := b.TotalPrice.Percent(percent)
		b.Status = domain.BookingStatusCancelled
		b.CancellationDate = &now
		b.RefundAmount = &refund
		if input.Policy == domain.PolicyAdmin && input.Reason != "" {
			b.AppendNote(domain.AdminCancellationNote + input.Reason)
		}
		if err := tx.UpdateBookingStatus(ctx, b); err != nil {
			return err
		}
		flight, err := tx.ReleaseSeats(ctx, b.FlightID, b.NumberOfPassengers)
		if err != nil {
			if errors.Is(err, repository.ErrSeatOverflow) {
				return domain.Internal(err, "flight %d seat counter out of range", b.FlightID)
			}
			return err
		}
		b.Flight = flight
		booking = b
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "cancel booking")
	}

	metrics.BookingsCancelled.WithLabelValues(string(input.Policy)).Inc()
	metrics.RefundedCents.WithLabelValues(string(input.Policy)).Add(float64(booking.RefundAmount.Cents()))
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"booking_reference": booking.Reference,
		"policy":            input.Policy,
		"refund":            booking.RefundAmount.String(),
	}).Info("booking cancelled")

	s.afterCommit(ctx, kafka.EventBookingCancelled, booking)

	return &CancellationResult{
		BookingID:    booking.ID,
		Reference:    booking.Reference,
		RefundAmount: *booking.RefundAmount,
	}, nil
}

// afterCommit runs side effects that must not undo a committed booking; their
// failures are logged only.
func (s *BookingService) afterCommit(ctx context.Context, eventType string, booking *domain.Booking) {
	log := logger.FromContext(ctx).WithField("booking_reference", booking.Reference)
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.WithError(err).Warn("invalidate flights cache")
		}
	}
	if err := s.publish(ctx, eventType, booking); err != nil {
		log.WithError(err).WithField("type", eventType).Warn("publish booking event")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := newEvent(eventType, booking, s.now().UTC())
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event)
	}
	return nil
}

func newEvent(eventType string, b *domain.Booking, at time.Time) kafka.BookingEvent {
	event := kafka.BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Reference:  b.Reference,
		BookingID:  b.ID,
		FlightID:   b.FlightID,
		UserID:     b.UserID,
		Passengers: b.NumberOfPassengers,
		Emails: lo.Uniq(lo.FilterMap(b.Passengers, func(p domain.Passenger, _ int) (string, bool) {
			return p.Email, p.Email != ""
		})),
		Seats:      lo.Map(b.Passengers, func(p domain.Passenger, _ int) string { return p.SeatAssignment }),
		TotalCents: b.TotalPrice.Cents(),
		Status:     string(b.Status),
		OccurredAt: at,
	}
	if b.Flight != nil {
		event.FlightNumber = b.Flight.FlightNumber
	}
	if b.RefundAmount != nil {
		event.RefundCents = lo.ToPtr(b.RefundAmount.Cents())
	}
	return event
}

// asDomainError keeps typed errors and wraps everything else as internal.
func asDomainError(err error, op string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Internal(err, "%s", op)
}

var _ BookingUseCase = (*BookingService)(nil)
