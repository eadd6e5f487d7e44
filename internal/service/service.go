// Package service holds the workflow core: role resolution, the ticket
// verification state machine, the advertisement slot allocator, the booking
// state machine and the payment confirmation sequence.
package service

import (
	"context"

	"nexticket/internal/external"
	"nexticket/internal/models"
)

// Storage contracts the services require. The repository package provides
// the Postgres implementations; tests provide in-memory ones.

type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, email string, role models.Role) (bool, error)
	MarkFraud(ctx context.Context, email string) (bool, error)
}

type TicketStore interface {
	Create(ctx context.Context, t *models.Ticket) error
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	Update(ctx context.Context, t *models.Ticket) (bool, error)
	UpdateVerification(ctx context.Context, id string, status models.VerificationStatus) (bool, error)
	SetAdvertised(ctx context.Context, id string, desired bool) error
	AdjustQuantity(ctx context.Context, id string, delta int64) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListAdvertised(ctx context.Context) ([]models.Ticket, error)
	ListPending(ctx context.Context) ([]models.Ticket, error)
	ListByVendor(ctx context.Context, email string) ([]models.Ticket, error)
	ListLatest(ctx context.Context, limit int) ([]models.Ticket, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, email string) ([]models.Booking, error)
	ListByVendor(ctx context.Context, email string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (bool, error)
	MarkPaid(ctx context.Context, id, transactionID string) (bool, error)
	CountActiveByTicket(ctx context.Context, ticketID string) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) (bool, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListByUser(ctx context.Context, email string) ([]models.Transaction, error)
}

type StatsStore interface {
	VendorStats(ctx context.Context, email string) (*models.VendorStats, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

// TicketIndex is the search read model. Index maintenance failures are
// logged, never surfaced: Postgres stays authoritative.
type TicketIndex interface {
	IndexTicket(ctx context.Context, t *models.Ticket, vendorFraud bool) error
	DeleteTicket(ctx context.Context, id string) error
	MarkVendorFraud(ctx context.Context, vendorEmail string) error
	SearchTickets(ctx context.Context, q models.TicketSearchQuery) (*models.TicketSearchResult, error)
}

// RoleCache caches role lookups and the advertised set. Optional; a nil
// cache disables caching.
type RoleCache interface {
	GetRole(ctx context.Context, email string) (*models.RoleInfo, error)
	SetRole(ctx context.Context, email string, info *models.RoleInfo) error
	InvalidateRole(ctx context.Context, email string) error
	GetAdvertised(ctx context.Context) ([]models.Ticket, error)
	SetAdvertised(ctx context.Context, tickets []models.Ticket) error
	InvalidateAdvertised(ctx context.Context) error
}

// PaymentProcessor is the external card processor boundary. The core never
// sees card data; it sizes intents and verifies confirmed charges.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount int64, idempotencyKey string) (*external.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*external.PaymentIntent, error)
}

// EventPublisher publishes lifecycle events. Optional; failures are logged
// and never fail the triggering operation.
type EventPublisher interface {
	Publish(subject string, data any) error
}

type Deps struct {
	Users        UserStore
	Tickets      TicketStore
	Bookings     BookingStore
	Transactions TransactionStore
	Stats        StatsStore
	Index        TicketIndex
	Cache        RoleCache
	Payments     PaymentProcessor
	Publisher    EventPublisher
}

type Services struct {
	Users    *UserService
	Tickets  *TicketService
	Bookings *BookingService
	Stats    *StatsService
}

func NewServices(deps Deps) *Services {
	users := NewUserService(deps.Users, deps.Cache, deps.Index)
	tickets := NewTicketService(deps.Tickets, deps.Bookings, users, deps.Index, deps.Cache, deps.Publisher)
	bookings := NewBookingService(deps.Bookings, deps.Tickets, deps.Transactions, users, deps.Payments, deps.Publisher)
	stats := NewStatsService(deps.Stats, users)

	return &Services{
		Users:    users,
		Tickets:  tickets,
		Bookings: bookings,
		Stats:    stats,
	}
}
