package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by the PG repositories. Users live in the
// auth service, so user_id carries no foreign key.
const Schema = `
CREATE TABLE IF NOT EXISTS flights (
	id BIGSERIAL PRIMARY KEY,
	flight_number TEXT NOT NULL UNIQUE,
	airline TEXT NOT NULL,
	departure_city TEXT NOT NULL,
	arrival_city TEXT NOT NULL,
	departure_date DATE NOT NULL,
	departure_time TEXT NOT NULL,
	arrival_time TEXT NOT NULL,
	duration TEXT NOT NULL,
	flight_type TEXT NOT NULL DEFAULT 'domestic',
	status TEXT NOT NULL DEFAULT 'ontime',
	total_seats INT NOT NULL,
	available_seats INT NOT NULL,
	price_cents BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT flights_seats_range CHECK (available_seats >= 0 AND available_seats <= total_seats)
);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	booking_reference TEXT NOT NULL UNIQUE,
	user_id BIGINT NOT NULL,
	flight_id BIGINT NOT NULL REFERENCES flights(id),
	number_of_passengers INT NOT NULL CHECK (number_of_passengers >= 1),
	total_price_cents BIGINT NOT NULL,
	booking_status TEXT NOT NULL,
	payment_status TEXT NOT NULL,
	transaction_id TEXT NOT NULL DEFAULT '',
	booking_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	cancellation_date TIMESTAMPTZ,
	refund_amount_cents BIGINT,
	special_requests TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id);
CREATE INDEX IF NOT EXISTS bookings_flight_id_idx ON bookings (flight_id);

CREATE TABLE IF NOT EXISTS passengers (
	id BIGSERIAL PRIMARY KEY,
	booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	full_name TEXT NOT NULL,
	age INT NOT NULL,
	gender TEXT NOT NULL,
	email TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	passport TEXT NOT NULL DEFAULT '',
	meal_preference TEXT NOT NULL DEFAULT 'none',
	special_assistance BOOLEAN NOT NULL DEFAULT false,
	seat_assignment TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS passengers_booking_id_idx ON passengers (booking_id);
`

func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
