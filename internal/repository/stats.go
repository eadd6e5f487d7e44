package repository

import (
	"context"

	"nexticket/internal/database"
	"nexticket/internal/models"
)

type StatsRepository struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) VendorStats(ctx context.Context, email string) (*models.VendorStats, error) {
	stats := &models.VendorStats{}

	query := `
		SELECT COALESCE(SUM(total_price) FILTER (WHERE status = 'paid'), 0),
		       COALESCE(SUM(booking_quantity) FILTER (WHERE status = 'paid'), 0),
		       COALESCE(COUNT(*) FILTER (WHERE status = 'pending'), 0)
		FROM bookings
		WHERE vendor_email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&stats.TotalRevenue,
		&stats.TotalTicketsSold,
		&stats.PendingBookings,
	)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE vendor_email = $1`, email,
	).Scan(&stats.TotalTicketsAdded)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *StatsRepository) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT COUNT(*),
		       COALESCE(COUNT(*) FILTER (WHERE verification_status = 'pending'), 0),
		       COALESCE(COUNT(*) FILTER (WHERE is_advertised), 0)
		FROM tickets`

	err = r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalTickets,
		&stats.PendingTickets,
		&stats.AdvertisedTickets,
	)
	if err != nil {
		return nil, err
	}

	query = `
		SELECT COUNT(*),
		       COALESCE(SUM(total_price) FILTER (WHERE status = 'paid'), 0)
		FROM bookings`

	err = r.db.QueryRowContext(ctx, query).Scan(&stats.TotalBookings, &stats.TotalRevenue)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
