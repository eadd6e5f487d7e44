package repository

import (
	"nexticket/internal/database"
)

type Repositories struct {
	Users        *UserRepository
	Tickets      *TicketRepository
	Bookings     *BookingRepository
	Transactions *TransactionRepository
	Stats        *StatsRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Tickets:      NewTicketRepository(db),
		Bookings:     NewBookingRepository(db),
		Transactions: NewTransactionRepository(db),
		Stats:        NewStatsRepository(db),
	}
}
