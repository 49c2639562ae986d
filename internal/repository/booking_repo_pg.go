package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
)

const bookingColumns = `id, booking_reference, user_id, flight_id, number_of_passengers, total_price_cents, booking_status,
	payment_status, transaction_id, booking_date, cancellation_date, refund_amount_cents, special_requests, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// WithinTx runs fn under READ COMMITTED. Inventory safety comes from the
// guarded UPDATE in ReserveSeats, which also row-locks the flight until commit.
func (r *PGBookingRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rollbackErr)
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("could not commit transaction: %w", commitErr)
		}
	}()

	return fn(ctx, &pgTx{tx: tx})
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := getBooking(ctx, r.db, id, false)
	if err != nil {
		return nil, err
	}
	passengers, err := listPassengers(ctx, r.db, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.Passengers = passengers[b.ID]
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE ($1::bigint = 0 OR user_id = $1) AND ($2::text = '' OR booking_status = $2)`,
		filter.UserID, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE ($1::bigint = 0 OR user_id = $1) AND ($2::text = '' OR booking_status = $2)
		ORDER BY booking_date DESC, id DESC
		LIMIT NULLIF($3::bigint, -1) OFFSET $4::bigint`,
		filter.UserID, string(filter.Status), limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	passengers, err := listPassengers(ctx, r.db, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range bookings {
		bookings[i].Passengers = passengers[bookings[i].ID]
	}
	return bookings, total, nil
}

func (r *PGBookingRepository) CountByFlight(ctx context.Context, flightID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE flight_id = $1`, flightID).Scan(&n)
	return n, err
}

func getBooking(ctx context.Context, q querier, id int64, forUpdate bool) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	b, err := scanBooking(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b      domain.Booking
		total  int64
		refund *int64
	)
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.FlightID, &b.NumberOfPassengers, &total, &b.Status,
		&b.PaymentStatus, &b.TransactionID, &b.BookingDate, &b.CancellationDate, &refund, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.TotalPrice = domain.Money(total)
	if refund != nil {
		m := domain.Money(*refund)
		b.RefundAmount = &m
	}
	return &b, nil
}

func listPassengers(ctx context.Context, q querier, bookingIDs []int64) (map[int64][]domain.Passenger, error) {
	out := make(map[int64][]domain.Passenger, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `SELECT id, booking_id, full_name, age, gender, email, phone_number, passport, meal_preference,
		special_assistance, seat_assignment FROM passengers WHERE booking_id = ANY($1) ORDER BY id`, bookingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FullName, &p.Age, &p.Gender, &p.Email, &p.PhoneNumber, &p.Passport,
			&p.MealPreference, &p.SpecialAssistance, &p.SeatAssignment); err != nil {
			return nil, err
		}
		out[p.BookingID] = append(out[p.BookingID], p)
	}
	return out, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
