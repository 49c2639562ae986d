// Package memory is an in-process implementation of the repository ports.
// Transactions are serialised by a single mutex and roll back by restoring a
// snapshot, which gives the same all-or-nothing behaviour as the PG store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/repository"
)

type state struct {
	flights         map[int64]domain.Flight
	bookings        map[int64]domain.Booking
	passengers      map[int64][]domain.Passenger
	references      map[string]int64
	nextFlightID    int64
	nextBookingID   int64
	nextPassengerID int64
}

func (s *state) clone() *state {
	c := &state{
		flights:         make(map[int64]domain.Flight, len(s.flights)),
		bookings:        make(map[int64]domain.Booking, len(s.bookings)),
		passengers:      make(map[int64][]domain.Passenger, len(s.passengers)),
		references:      make(map[string]int64, len(s.references)),
		nextFlightID:    s.nextFlightID,
		nextBookingID:   s.nextBookingID,
		nextPassengerID: s.nextPassengerID,
	}
	for k, v := range s.flights {
		c.flights[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.passengers {
		c.passengers[k] = append([]domain.Passenger(nil), v...)
	}
	for k, v := range s.references {
		c.references[k] = v
	}
	return c
}

type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		st: &state{
			flights:    make(map[int64]domain.Flight),
			bookings:   make(map[int64]domain.Booking),
			passengers: make(map[int64][]domain.Passenger),
			references: make(map[string]int64),
		},
		faults: make(map[string]error),
		now:    time.Now,
	}
}

// FailOn makes the named Tx operation return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Counts reports the number of stored booking and passenger rows.
func (s *Store) Counts() (bookings, passengers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ps := range s.st.passengers {
		passengers += len(ps)
	}
	return len(s.st.bookings), passengers
}

func (s *Store) Flights() repository.FlightRepository { return (*flightRepo)(s) }

func (s *Store) Bookings() repository.BookingRepository { return (*bookingRepo)(s) }

func (s *Store) fault(op string) error {
	return s.faults[op]
}

func (s *Store) withBookingData(b domain.Booking) *domain.Booking {
	b.Passengers = append([]domain.Passenger(nil), s.st.passengers[b.ID]...)
	return &b
}

type flightRepo Store

func (r *flightRepo) List(_ context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	flights := make([]domain.Flight, 0, len(s.st.flights))
	for _, f := range s.st.flights {
		if filter.DepartureCity != "" && !strings.EqualFold(f.DepartureCity, filter.DepartureCity) {
			continue
		}
		if filter.ArrivalCity != "" && !strings.EqualFold(f.ArrivalCity, filter.ArrivalCity) {
			continue
		}
		if filter.DepartureDate != "" && f.DepartureDate != filter.DepartureDate {
			continue
		}
		if f.AvailableSeats < filter.MinSeats {
			continue
		}
		flights = append(flights, f)
	}
	sort.Slice(flights, func(i, j int) bool {
		a, b := flights[i], flights[j]
		if a.DepartureDate != b.DepartureDate {
			return a.DepartureDate < b.DepartureDate
		}
		if a.DepartureTime != b.DepartureTime {
			return a.DepartureTime < b.DepartureTime
		}
		return a.ID < b.ID
	})
	return flights, nil
}

func (r *flightRepo) GetByID(_ context.Context, id int64) (*domain.Flight, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.st.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r *flightRepo) Create(_ context.Context, f *domain.Flight) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.st.flights {
		if existing.FlightNumber == f.FlightNumber {
			return repository.ErrDuplicateFlight
		}
	}
	s.st.nextFlightID++
	f.ID = s.st.nextFlightID
	f.CreatedAt = s.now()
	f.UpdatedAt = f.CreatedAt
	s.st.flights[f.ID] = *f
	return nil
}

func (r *flightRepo) Update(_ context.Context, f *domain.Flight) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.st.flights[f.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.DepartureTime = f.DepartureTime
	cur.ArrivalTime = f.ArrivalTime
	cur.Price = f.Price
	cur.Status = f.Status
	cur.UpdatedAt = s.now()
	s.st.flights[f.ID] = cur
	f.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *flightRepo) Delete(_ context.Context, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.flights[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.st.flights, id)
	return nil
}

type bookingRepo Store

func (r *bookingRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (r *bookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.withBookingData(b), nil
}

func (r *bookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, int, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Booking, 0)
	for _, b := range s.st.bookings {
		if filter.UserID != 0 && b.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		matched = append(matched, *s.withBookingData(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].BookingDate.Equal(matched[j].BookingDate) {
			return matched[i].BookingDate.After(matched[j].BookingDate)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

func (r *bookingRepo) CountByFlight(_ context.Context, flightID int64) (int, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.st.bookings {
		if b.FlightID == flightID {
			n++
		}
	}
	return n, nil
}

// memTx runs with Store.mu held by WithinTx.
type memTx struct {
	s *Store
}

func (t *memTx) GetFlight(_ context.Context, id int64) (*domain.Flight, error) {
	f, ok := t.s.st.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (t *memTx) ReserveSeats(_ context.Context, flightID int64, n int) (*domain.Flight, error) {
	if err := t.s.fault("ReserveSeats"); err != nil {
		return nil, err
	}
	f, ok := t.s.st.flights[flightID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if f.AvailableSeats < n {
		return nil, repository.ErrNoAvailableSeats
	}
	f.AvailableSeats -= n
	f.UpdatedAt = t.s.now()
	t.s.st.flights[flightID] = f
	return &f, nil
}

func (t *memTx) ReleaseSeats(_ context.Context, flightID int64, n int) (*domain.Flight, error) {
	if err := t.s.fault("ReleaseSeats"); err != nil {
		return nil, err
	}
	f, ok := t.s.st.flights[flightID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if f.AvailableSeats+n > f.TotalSeats {
		return nil, repository.ErrSeatOverflow
	}
	f.AvailableSeats += n
	f.UpdatedAt = t.s.now()
	t.s.st.flights[flightID] = f
	return &f, nil
}

func (t *memTx) TakenSeats(_ context.Context, flightID int64) ([]string, error) {
	seats := make([]string, 0)
	for id, b := range t.s.st.bookings {
		if b.FlightID != flightID || b.Status == domain.BookingStatusCancelled {
			continue
		}
		for _, p := range t.s.st.passengers[id] {
			seats = append(seats, p.SeatAssignment)
		}
	}
	return seats, nil
}

func (t *memTx) CreateBooking(_ context.Context, b *domain.Booking) error {
	if err := t.s.fault("CreateBooking"); err != nil {
		return err
	}
	if _, dup := t.s.st.references[b.Reference]; dup {
		return repository.ErrDuplicateReference
	}
	t.s.st.nextBookingID++
	b.ID = t.s.st.nextBookingID
	b.CreatedAt = t.s.now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	stored.Passengers = nil
	stored.Flight = nil
	t.s.st.bookings[b.ID] = stored
	t.s.st.references[b.Reference] = b.ID
	return nil
}

func (t *memTx) CreatePassengers(_ context.Context, bookingID int64, passengers []domain.Passenger) error {
	if err := t.s.fault("CreatePassengers"); err != nil {
		return err
	}
	if _, ok := t.s.st.bookings[bookingID]; !ok {
		return repository.ErrNotFound
	}
	for i := range passengers {
		t.s.st.nextPassengerID++
		passengers[i].ID = t.s.st.nextPassengerID
		passengers[i].BookingID = bookingID
	}
	t.s.st.passengers[bookingID] = append(t.s.st.passengers[bookingID], passengers...)
	return nil
}

func (t *memTx) GetBookingForUpdate(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := t.s.st.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t.s.withBookingData(b), nil
}

func (t *memTx) UpdateBookingStatus(_ context.Context, b *domain.Booking) error {
	if err := t.s.fault("UpdateBookingStatus"); err != nil {
		return err
	}
	cur, ok := t.s.st.bookings[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Status = b.Status
	cur.PaymentStatus = b.PaymentStatus
	cur.CancellationDate = b.CancellationDate
	cur.RefundAmount = b.RefundAmount
	cur.SpecialRequests = b.SpecialRequests
	cur.UpdatedAt = t.s.now()
	t.s.st.bookings[b.ID] = cur
	b.UpdatedAt = cur.UpdatedAt
	return nil
}

var (
	_ repository.FlightRepository  = (*flightRepo)(nil)
	_ repository.BookingRepository = (*bookingRepo)(nil)
	_ repository.Tx                = (*memTx)(nil)
)
