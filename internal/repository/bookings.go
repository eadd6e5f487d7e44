package repository

import (
	"context"
	"database/sql"

	"nexticket/internal/database"
	"nexticket/internal/models"
)

const bookingColumns = `id, ticket_id, ticket_title, user_email, vendor_email, booking_quantity,
	       total_price, from_location, to_location, departure_date, departure_time,
	       status, transaction_id, created_at, updated_at`

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (ticket_id, ticket_title, user_email, vendor_email, booking_quantity,
		                      total_price, from_location, to_location, departure_date, departure_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		b.TicketID,
		b.TicketTitle,
		b.UserEmail,
		b.VendorEmail,
		b.BookingQuantity,
		b.TotalPrice,
		b.FromLocation,
		b.ToLocation,
		b.DepartureDate,
		b.DepartureTime,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, email string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_email = $1
		ORDER BY created_at DESC`

	return r.queryBookings(ctx, query, email)
}

func (r *BookingRepository) ListByVendor(ctx context.Context, email string) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE vendor_email = $1
		ORDER BY created_at DESC`

	return r.queryBookings(ctx, query, email)
}

// UpdateStatus transitions a booking conditionally on its expected prior
// state. A concurrent transition makes the write a no-op, reported as false.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}

// MarkPaid moves an accepted booking to paid, recording the processor's
// charge id on the booking row.
func (r *BookingRepository) MarkPaid(ctx context.Context, id, transactionID string) (bool, error) {
	query := `
		UPDATE bookings SET status = 'paid', transaction_id = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'accepted'`

	res, err := r.db.ExecContext(ctx, query, transactionID, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}

// CountActiveByTicket counts non-terminal bookings referencing a ticket.
func (r *BookingRepository) CountActiveByTicket(ctx context.Context, ticketID string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE ticket_id = $1 AND status IN ('pending', 'accepted')`

	var count int64
	err := r.db.QueryRowContext(ctx, query, ticketID).Scan(&count)
	return count, err
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID,
		&b.TicketID,
		&b.TicketTitle,
		&b.UserEmail,
		&b.VendorEmail,
		&b.BookingQuantity,
		&b.TotalPrice,
		&b.FromLocation,
		&b.ToLocation,
		&b.DepartureDate,
		&b.DepartureTime,
		&b.Status,
		&b.TransactionID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}
