package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
)

const flightColumns = `id, flight_number, airline, departure_city, arrival_city, departure_date::text, departure_time, arrival_time,
	duration, flight_type, status, total_seats, available_seats, price_cents, created_at, updated_at`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.DepartureCity != "" {
		add("lower(departure_city) = lower($%d)", filter.DepartureCity)
	}
	if filter.ArrivalCity != "" {
		add("lower(arrival_city) = lower($%d)", filter.ArrivalCity)
	}
	if filter.DepartureDate != "" {
		add("departure_date = $%d::date", filter.DepartureDate)
	}
	if filter.MinSeats > 0 {
		add("available_seats >= $%d", filter.MinSeats)
	}

	query := `SELECT ` + flightColumns + ` FROM flights`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY departure_date, departure_time, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return getFlight(ctx, r.db, id, false)
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	row := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline, departure_city, arrival_city, departure_date, departure_time,
		arrival_time, duration, flight_type, status, total_seats, available_seats, price_cents)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		f.FlightNumber, f.Airline, f.DepartureCity, f.ArrivalCity, f.DepartureDate, f.DepartureTime,
		f.ArrivalTime, f.Duration, string(f.FlightType), string(f.Status), f.TotalSeats, f.AvailableSeats, f.Price.Cents())
	if err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if isUniqueViolation(err, "flights_flight_number_key") {
			return ErrDuplicateFlight
		}
		return err
	}
	return nil
}

func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	row := r.db.QueryRow(ctx, `UPDATE flights SET departure_time = $2, arrival_time = $3, price_cents = $4, status = $5, updated_at = now()
		WHERE id = $1 RETURNING updated_at`,
		f.ID, f.DepartureTime, f.ArrivalTime, f.Price.Cents(), string(f.Status))
	return notFound(row.Scan(&f.UpdatedAt))
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func getFlight(ctx context.Context, q querier, id int64, forUpdate bool) (*domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	f, err := scanFlight(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		f     domain.Flight
		price int64
	)
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.DepartureDate, &f.DepartureTime,
		&f.ArrivalTime, &f.Duration, &f.FlightType, &f.Status, &f.TotalSeats, &f.AvailableSeats, &price, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Price = domain.Money(price)
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
