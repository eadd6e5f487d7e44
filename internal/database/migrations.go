package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createTicketsTable,
		createBookingsTable,
		createTransactionsTable,
		createTicketIndexes,
		createBookingIndexes,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    email VARCHAR(255) UNIQUE NOT NULL,
    display_name VARCHAR(255) NOT NULL DEFAULT '',
    photo_url TEXT NOT NULL DEFAULT '',
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    is_fraud BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (role IN ('user', 'vendor', 'admin'))
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    title VARCHAR(500) NOT NULL,
    from_location VARCHAR(255) NOT NULL,
    to_location VARCHAR(255) NOT NULL,
    transport_type VARCHAR(20) NOT NULL,
    price_per_unit BIGINT NOT NULL,
    quantity BIGINT NOT NULL DEFAULT 0,
    perks TEXT[] NOT NULL DEFAULT '{}',
    image_url TEXT NOT NULL DEFAULT '',
    vendor_email VARCHAR(255) NOT NULL,
    verification_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    is_advertised BOOLEAN NOT NULL DEFAULT FALSE,
    departure_date VARCHAR(10) NOT NULL,
    departure_time VARCHAR(5) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (transport_type IN ('Bus', 'Train', 'Launch', 'Plane')),
    CHECK (verification_status IN ('pending', 'approved', 'rejected')),
    CHECK (price_per_unit > 0),
    CHECK (quantity >= 0),
    CHECK (NOT is_advertised OR verification_status = 'approved')
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    ticket_id UUID NOT NULL,
    ticket_title VARCHAR(500) NOT NULL,
    user_email VARCHAR(255) NOT NULL,
    vendor_email VARCHAR(255) NOT NULL,
    booking_quantity BIGINT NOT NULL,
    total_price BIGINT NOT NULL,
    from_location VARCHAR(255) NOT NULL,
    to_location VARCHAR(255) NOT NULL,
    departure_date VARCHAR(10) NOT NULL,
    departure_time VARCHAR(5) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    transaction_id VARCHAR(255),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('pending', 'accepted', 'rejected', 'paid')),
    CHECK (booking_quantity > 0),
    CHECK (total_price >= 0)
);`

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    transaction_id VARCHAR(255) UNIQUE NOT NULL,
    user_email VARCHAR(255) NOT NULL,
    booking_id UUID NOT NULL,
    ticket_title VARCHAR(500) NOT NULL,
    amount BIGINT NOT NULL,
    payment_date TIMESTAMPTZ NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'completed',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createTicketIndexes = `
CREATE INDEX IF NOT EXISTS idx_tickets_vendor_email ON tickets(vendor_email);
CREATE INDEX IF NOT EXISTS idx_tickets_verification_status ON tickets(verification_status);
CREATE INDEX IF NOT EXISTS idx_tickets_advertised ON tickets(is_advertised) WHERE is_advertised;`

const createBookingIndexes = `
CREATE INDEX IF NOT EXISTS idx_bookings_user_email ON bookings(user_email);
CREATE INDEX IF NOT EXISTS idx_bookings_vendor_email ON bookings(vendor_email);
CREATE INDEX IF NOT EXISTS idx_bookings_ticket_id ON bookings(ticket_id);
CREATE INDEX IF NOT EXISTS idx_transactions_user_email ON transactions(user_email);`
