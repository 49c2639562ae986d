package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
)

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	return getFlight(ctx, t.tx, id, false)
}

func (t *pgTx) ReserveSeats(ctx context.Context, flightID int64, n int) (*domain.Flight, error) {
	f, err := scanFlight(t.tx.QueryRow(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now()
		WHERE id = $1 AND available_seats >= $2
		RETURNING `+flightColumns, flightID, n))
	if errors.Is(err, pgx.ErrNoRows) {
		// either the flight is gone or the guard failed
		if _, gerr := getFlight(ctx, t.tx, flightID, false); gerr != nil {
			return nil, gerr
		}
		return nil, ErrNoAvailableSeats
	}
	return f, err
}

func (t *pgTx) ReleaseSeats(ctx context.Context, flightID int64, n int) (*domain.Flight, error) {
	f, err := scanFlight(t.tx.QueryRow(ctx, `UPDATE flights SET available_seats = available_seats + $2, updated_at = now()
		WHERE id = $1 AND available_seats + $2 <= total_seats
		RETURNING `+flightColumns, flightID, n))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, gerr := getFlight(ctx, t.tx, flightID, false); gerr != nil {
			return nil, gerr
		}
		return nil, ErrSeatOverflow
	}
	return f, err
}

func (t *pgTx) TakenSeats(ctx context.Context, flightID int64) ([]string, error) {
	rows, err := t.tx.Query(ctx, `SELECT p.seat_assignment FROM passengers p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.flight_id = $1 AND b.booking_status <> $2`, flightID, string(domain.BookingStatusCancelled))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// CreateBooking inserts under a savepoint so that a reference collision
// leaves the surrounding transaction usable for a retry.
func (t *pgTx) CreateBooking(ctx context.Context, b *domain.Booking) error {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return err
	}
	err = sp.QueryRow(ctx, `INSERT INTO bookings (booking_reference, user_id, flight_id, number_of_passengers, total_price_cents,
		booking_status, payment_status, transaction_id, booking_date, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		b.Reference, b.UserID, b.FlightID, b.NumberOfPassengers, b.TotalPrice.Cents(), string(b.Status),
		string(b.PaymentStatus), b.TransactionID, b.BookingDate, b.SpecialRequests).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		_ = sp.Rollback(ctx)
		if isUniqueViolation(err, "bookings_booking_reference_key") {
			return ErrDuplicateReference
		}
		return err
	}
	return sp.Commit(ctx)
}

func (t *pgTx) CreatePassengers(ctx context.Context, bookingID int64, passengers []domain.Passenger) error {
	batch := &pgx.Batch{}
	for _, p := range passengers {
		batch.Queue(`INSERT INTO passengers (booking_id, full_name, age, gender, email, phone_number, passport, meal_preference,
			special_assistance, seat_assignment) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
			bookingID, p.FullName, p.Age, string(p.Gender), p.Email, p.PhoneNumber, p.Passport, string(p.MealPreference),
			p.SpecialAssistance, p.SeatAssignment)
	}
	br := t.tx.SendBatch(ctx, batch)
	for i := range passengers {
		if err := br.QueryRow().Scan(&passengers[i].ID); err != nil {
			_ = br.Close()
			return err
		}
		passengers[i].BookingID = bookingID
	}
	return br.Close()
}

func (t *pgTx) GetBookingForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := getBooking(ctx, t.tx, id, true)
	if err != nil {
		return nil, err
	}
	passengers, err := listPassengers(ctx, t.tx, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.Passengers = passengers[b.ID]
	return b, nil
}

func (t *pgTx) UpdateBookingStatus(ctx context.Context, b *domain.Booking) error {
	var refund *int64
	if b.RefundAmount != nil {
		c := b.RefundAmount.Cents()
		refund = &c
	}
	err := t.tx.QueryRow(ctx, `UPDATE bookings SET booking_status = $2, payment_status = $3, cancellation_date = $4,
		refund_amount_cents = $5, special_requests = $6, updated_at = now()
		WHERE id = $1 RETURNING updated_at`,
		b.ID, string(b.Status), string(b.PaymentStatus), b.CancellationDate, refund, b.SpecialRequests).Scan(&b.UpdatedAt)
	return notFound(err)
}

var _ Tx = (*pgTx)(nil)
