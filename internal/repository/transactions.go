package repository

import (
	"context"
	"database/sql"

	"nexticket/internal/database"
	"nexticket/internal/models"
)

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends the payment record. The insert is idempotent on the
// processor-assigned transaction id so a retried confirmation never writes
// a duplicate; false means the record already existed.
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) (bool, error) {
	query := `
		INSERT INTO transactions (transaction_id, user_email, booking_id, ticket_title, amount, payment_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (transaction_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.TransactionID,
		t.UserEmail,
		t.BookingID,
		t.TicketTitle,
		t.Amount,
		t.PaymentDate,
		t.Status,
	).Scan(&t.ID, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByTransactionID returns the record keyed by the processor-assigned
// transaction id, nil when the charge has not been recorded yet.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	query := `
		SELECT id, transaction_id, user_email, booking_id, ticket_title, amount, payment_date, status, created_at
		FROM transactions
		WHERE transaction_id = $1`

	var t models.Transaction
	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&t.ID,
		&t.TransactionID,
		&t.UserEmail,
		&t.BookingID,
		&t.TicketTitle,
		&t.Amount,
		&t.PaymentDate,
		&t.Status,
		&t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, email string) ([]models.Transaction, error) {
	query := `
		SELECT id, transaction_id, user_email, booking_id, ticket_title, amount, payment_date, status, created_at
		FROM transactions
		WHERE user_email = $1
		ORDER BY payment_date DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID,
			&t.TransactionID,
			&t.UserEmail,
			&t.BookingID,
			&t.TicketTitle,
			&t.Amount,
			&t.PaymentDate,
			&t.Status,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}
