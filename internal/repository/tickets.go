package repository

import (
	"context"
	"database/sql"

	"nexticket/internal/apperr"
	"nexticket/internal/database"
	"nexticket/internal/models"

	"github.com/lib/pq"
)

// MaxAdvertisedTickets is the system-wide cap on advertised tickets.
const MaxAdvertisedTickets = 6

const ticketColumns = `id, title, from_location, to_location, transport_type, price_per_unit,
	       quantity, perks, image_url, vendor_email, verification_status, is_advertised,
	       departure_date, departure_time, created_at, updated_at`

const ticketColumnsT = `t.id, t.title, t.from_location, t.to_location, t.transport_type, t.price_per_unit,
	       t.quantity, t.perks, t.image_url, t.vendor_email, t.verification_status, t.is_advertised,
	       t.departure_date, t.departure_time, t.created_at, t.updated_at`

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *models.Ticket) error {
	query := `
		INSERT INTO tickets (title, from_location, to_location, transport_type, price_per_unit,
		                     quantity, perks, image_url, vendor_email, verification_status,
		                     departure_date, departure_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		t.Title,
		t.FromLocation,
		t.ToLocation,
		t.TransportType,
		t.PricePerUnit,
		t.Quantity,
		pq.Array(t.Perks),
		t.ImageURL,
		t.VendorEmail,
		t.VerificationStatus,
		t.DepartureDate,
		t.DepartureTime,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// Update rewrites the vendor-editable fields. Rejected tickets are frozen,
// enforced here with a conditional write as well as in the service.
func (r *TicketRepository) Update(ctx context.Context, t *models.Ticket) (bool, error) {
	query := `
		UPDATE tickets
		SET title = $1, from_location = $2, to_location = $3, transport_type = $4,
		    price_per_unit = $5, quantity = $6, perks = $7, image_url = $8,
		    departure_date = $9, departure_time = $10, updated_at = NOW()
		WHERE id = $11 AND verification_status <> 'rejected'`

	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.FromLocation,
		t.ToLocation,
		t.TransportType,
		t.PricePerUnit,
		t.Quantity,
		pq.Array(t.Perks),
		t.ImageURL,
		t.DepartureDate,
		t.DepartureTime,
		t.ID,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}

// UpdateVerification moves a ticket out of pending. The WHERE clause is the
// state-machine guard: a decided ticket is never flipped again.
func (r *TicketRepository) UpdateVerification(ctx context.Context, id string, status models.VerificationStatus) (bool, error) {
	query := `
		UPDATE tickets SET verification_status = $1, updated_at = NOW()
		WHERE id = $2 AND verification_status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}

// advertiseLockKey is the advisory-lock key serializing slot allocation.
const advertiseLockKey = 7201

// SetAdvertised flips the advertised flag under a transaction. Enables are
// serialized with an advisory lock: row locks alone cannot hold the cap,
// because a row flipped by a concurrently committing transaction is not in
// this transaction's snapshot when the count runs.
func (r *TicketRepository) SetAdvertised(ctx context.Context, id string, desired bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if desired {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advertiseLockKey); err != nil {
			return err
		}

		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tickets WHERE is_advertised`).Scan(&count)
		if err != nil {
			return err
		}

		if count >= MaxAdvertisedTickets {
			return apperr.Newf(apperr.KindSlotLimitExceeded,
				"advertisement slots are full (%d of %d)", count, MaxAdvertisedTickets)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE tickets SET is_advertised = TRUE, updated_at = NOW()
			WHERE id = $1 AND verification_status = 'approved' AND NOT is_advertised`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return apperr.New(apperr.KindInvalidStateTransition, "ticket is not eligible for advertising")
		}
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE tickets SET is_advertised = FALSE, updated_at = NOW()
			WHERE id = $1 AND is_advertised`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return apperr.New(apperr.KindInvalidStateTransition, "ticket is not advertised")
		}
	}

	return tx.Commit()
}

// AdjustQuantity applies a signed inventory delta, refusing to go negative.
func (r *TicketRepository) AdjustQuantity(ctx context.Context, id string, delta int64) (bool, error) {
	query := `
		UPDATE tickets SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2 AND quantity + $1 >= 0`

	res, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *TicketRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM tickets WHERE id = $1 AND verification_status <> 'rejected'`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	return rows > 0, err
}

// ListAdvertised returns the curated set, excluding fraud-flagged vendors.
func (r *TicketRepository) ListAdvertised(ctx context.Context) ([]models.Ticket, error) {
	query := `
		SELECT ` + ticketColumnsT + `
		FROM tickets t
		JOIN users u ON u.email = t.vendor_email
		WHERE t.is_advertised AND NOT u.is_fraud
		ORDER BY t.updated_at DESC`

	return r.queryTickets(ctx, query)
}

func (r *TicketRepository) ListPending(ctx context.Context) ([]models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE verification_status = 'pending'
		ORDER BY created_at ASC`

	return r.queryTickets(ctx, query)
}

func (r *TicketRepository) ListByVendor(ctx context.Context, email string) ([]models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE vendor_email = $1
		ORDER BY created_at DESC`

	return r.queryTickets(ctx, query, email)
}

func (r *TicketRepository) ListLatest(ctx context.Context, limit int) ([]models.Ticket, error) {
	query := `
		SELECT ` + ticketColumnsT + `
		FROM tickets t
		JOIN users u ON u.email = t.vendor_email
		WHERE t.verification_status = 'approved' AND NOT u.is_fraud
		ORDER BY t.created_at DESC
		LIMIT $1`

	return r.queryTickets(ctx, query, limit)
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}

	return tickets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*models.Ticket, error) {
	t := &models.Ticket{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.FromLocation,
		&t.ToLocation,
		&t.TransportType,
		&t.PricePerUnit,
		&t.Quantity,
		pq.Array(&t.Perks),
		&t.ImageURL,
		&t.VendorEmail,
		&t.VerificationStatus,
		&t.IsAdvertised,
		&t.DepartureDate,
		&t.DepartureTime,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

