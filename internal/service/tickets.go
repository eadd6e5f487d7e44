package service

import (
	"context"
	"fmt"
	"time"

	"nexticket/internal/apperr"
	"nexticket/internal/logger"
	"nexticket/internal/metrics"
	"nexticket/internal/models"
)

// TicketService owns the ticket lifecycle: vendor submission, the admin
// verification state machine, the advertisement slot allocator and the
// public read surfaces.
type TicketService struct {
	tickets   TicketStore
	bookings  BookingStore
	users     *UserService
	index     TicketIndex
	cache     RoleCache
	publisher EventPublisher
}

func NewTicketService(tickets TicketStore, bookings BookingStore, users *UserService, index TicketIndex, cache RoleCache, publisher EventPublisher) *TicketService {
	return &TicketService{
		tickets:   tickets,
		bookings:  bookings,
		users:     users,
		index:     index,
		cache:     cache,
		publisher: publisher,
	}
}

// Create submits a vendor ticket; it enters the verification machine as
// pending. Fraud-flagged vendors are refused.
func (s *TicketService) Create(ctx context.Context, actor string, req *models.CreateTicketRequest) (*models.Ticket, error) {
	info, err := s.users.RequireRole(ctx, actor, models.RoleVendor)
	if err != nil {
		return nil, err
	}
	if info.IsFraud {
		return nil, apperr.New(apperr.KindRoleMismatch, "vendor account is suspended")
	}

	transport, err := models.ParseTransportType(req.TransportType)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidStateTransition, "invalid transport type", err)
	}
	if _, err := models.ParseDeparture(req.DepartureDate, req.DepartureTime); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidStateTransition, "invalid departure date/time", err)
	}

	perks := req.Perks
	if perks == nil {
		perks = []string{}
	}

	ticket := &models.Ticket{
		Title:              req.Title,
		FromLocation:       req.FromLocation,
		ToLocation:         req.ToLocation,
		TransportType:      transport,
		PricePerUnit:       req.PricePerUnit,
		Quantity:           req.Quantity,
		Perks:              perks,
		ImageURL:           req.ImageURL,
		VendorEmail:        actor,
		VerificationStatus: models.VerificationPending,
		DepartureDate:      req.DepartureDate,
		DepartureTime:      req.DepartureTime,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.reindex(ctx, ticket)
	s.publish(ctx, models.EventTicketCreated, models.TicketCreatedEvent{
		TicketID:    ticket.ID,
		VendorEmail: ticket.VendorEmail,
		Timestamp:   time.Now(),
	})

	return ticket, nil
}

// Get serves the public ticket-details surface; undecided and rejected
// tickets are not visible there.
func (s *TicketService) Get(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil || ticket.VerificationStatus != models.VerificationApproved {
		return nil, apperr.Newf(apperr.KindNotFound, "no ticket with id %s", id)
	}

	return ticket, nil
}

// Update lets the owning vendor edit an unrejected ticket.
func (s *TicketService) Update(ctx context.Context, actor, id string, req *models.UpdateTicketRequest) (*models.Ticket, error) {
	info, err := s.users.RequireRole(ctx, actor, models.RoleVendor)
	if err != nil {
		return nil, err
	}
	if info.IsFraud {
		return nil, apperr.New(apperr.KindRoleMismatch, "vendor account is suspended")
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no ticket with id %s", id)
	}
	if ticket.VendorEmail != actor {
		return nil, apperr.New(apperr.KindRoleMismatch, "ticket belongs to another vendor")
	}
	if ticket.VerificationStatus == models.VerificationRejected {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "rejected tickets are frozen")
	}

	if err := applyTicketUpdate(ticket, req); err != nil {
		return nil, err
	}

	if _, err := models.ParseDeparture(ticket.DepartureDate, ticket.DepartureTime); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidStateTransition, "invalid departure date/time", err)
	}
	if ticket.PricePerUnit <= 0 {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "price must be positive")
	}
	if ticket.Quantity < 0 {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "quantity must not be negative")
	}

	updated, err := s.tickets.Update(ctx, ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	if !updated {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "ticket was rejected concurrently")
	}

	s.reindex(ctx, ticket)
	return ticket, nil
}

// Verify moves a pending ticket to approved or rejected. Both outcomes are
// terminal; re-verifying a decided ticket fails instead of flipping it.
func (s *TicketService) Verify(ctx context.Context, actor, id string, decision string) (*models.Ticket, error) {
	if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	status := models.VerificationStatus(decision)
	if status != models.VerificationApproved && status != models.VerificationRejected {
		return nil, apperr.Newf(apperr.KindInvalidStateTransition, "invalid verification decision %q", decision)
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no ticket with id %s", id)
	}
	if ticket.VerificationStatus.Decided() {
		return nil, apperr.Newf(apperr.KindInvalidStateTransition,
			"ticket is already %s", ticket.VerificationStatus)
	}

	moved, err := s.tickets.UpdateVerification(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ticket: %w", err)
	}
	if !moved {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "ticket was decided concurrently")
	}

	ticket.VerificationStatus = status
	metrics.ObserveVerification(string(status))

	s.reindex(ctx, ticket)
	s.publish(ctx, models.EventTicketVerified, models.TicketVerifiedEvent{
		TicketID:  ticket.ID,
		Decision:  status,
		Timestamp: time.Now(),
	})

	return ticket, nil
}

// ToggleAdvertise flips the curated advertised flag. The repository holds
// the cap authoritatively; asking for the current state is a no-op.
func (s *TicketService) ToggleAdvertise(ctx context.Context, actor, id string, desired bool) (*models.Ticket, error) {
	if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no ticket with id %s", id)
	}
	if ticket.VerificationStatus != models.VerificationApproved {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "only approved tickets can be advertised")
	}
	if ticket.IsAdvertised == desired {
		return ticket, nil
	}

	if err := s.tickets.SetAdvertised(ctx, id, desired); err != nil {
		return nil, err
	}

	ticket.IsAdvertised = desired

	if s.cache != nil {
		if err := s.cache.InvalidateAdvertised(ctx); err != nil {
			logger.WithContext(ctx).Warn("Advertised cache invalidation failed", "error", err)
		}
	}

	s.reindex(ctx, ticket)
	s.publish(ctx, models.EventTicketAdvertised, models.TicketAdvertisedEvent{
		TicketID:     ticket.ID,
		IsAdvertised: desired,
		Timestamp:    time.Now(),
	})

	return ticket, nil
}

// Delete removes an unrejected ticket of the owning vendor, refused while
// unresolved bookings still reference it.
func (s *TicketService) Delete(ctx context.Context, actor, id string) error {
	info, err := s.users.RequireRole(ctx, actor, models.RoleVendor)
	if err != nil {
		return err
	}
	if info.IsFraud {
		return apperr.New(apperr.KindRoleMismatch, "vendor account is suspended")
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return apperr.Newf(apperr.KindNotFound, "no ticket with id %s", id)
	}
	if ticket.VendorEmail != actor {
		return apperr.New(apperr.KindRoleMismatch, "ticket belongs to another vendor")
	}
	if ticket.VerificationStatus == models.VerificationRejected {
		return apperr.New(apperr.KindInvalidStateTransition, "rejected tickets are frozen")
	}

	active, err := s.bookings.CountActiveByTicket(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if active > 0 {
		return apperr.Newf(apperr.KindInvalidStateTransition,
			"%d unresolved bookings reference this ticket", active)
	}

	deleted, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	if !deleted {
		return apperr.New(apperr.KindInvalidStateTransition, "ticket was rejected concurrently")
	}

	if s.index != nil {
		if err := s.index.DeleteTicket(ctx, id); err != nil {
			logger.WithContext(ctx).Error("Failed to remove ticket from search index",
				"error", err, "ticket_id", id)
		}
	}
	if ticket.IsAdvertised && s.cache != nil {
		if err := s.cache.InvalidateAdvertised(ctx); err != nil {
			logger.WithContext(ctx).Warn("Advertised cache invalidation failed", "error", err)
		}
	}

	return nil
}

// Search serves the public browse surface from the search index.
func (s *TicketService) Search(ctx context.Context, q models.TicketSearchQuery) (*models.TicketSearchResult, error) {
	result, err := s.index.SearchTickets(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, "ticket search unavailable", err)
	}
	return result, nil
}

// Advertised returns the curated landing-page set, cached briefly.
func (s *TicketService) Advertised(ctx context.Context) ([]models.Ticket, error) {
	if s.cache != nil {
		tickets, err := s.cache.GetAdvertised(ctx)
		if err != nil {
			logger.WithContext(ctx).Warn("Advertised cache lookup failed", "error", err)
		} else if tickets != nil {
			return tickets, nil
		}
	}

	tickets, err := s.tickets.ListAdvertised(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list advertised tickets: %w", err)
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}

	if s.cache != nil {
		if err := s.cache.SetAdvertised(ctx, tickets); err != nil {
			logger.WithContext(ctx).Warn("Advertised cache write failed", "error", err)
		}
	}

	return tickets, nil
}

// Pending lists the admin moderation queue.
func (s *TicketService) Pending(ctx context.Context, actor string) ([]models.Ticket, error) {
	if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	tickets, err := s.tickets.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tickets: %w", err)
	}

	return tickets, nil
}

// ByVendor lists a vendor's own tickets; admins may inspect any vendor.
func (s *TicketService) ByVendor(ctx context.Context, actor, email string) ([]models.Ticket, error) {
	if actor != email {
		if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
			return nil, err
		}
	} else if _, err := s.users.RequireRole(ctx, actor, models.RoleVendor); err != nil {
		return nil, err
	}

	tickets, err := s.tickets.ListByVendor(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendor tickets: %w", err)
	}

	return tickets, nil
}

// Latest serves the landing-page strip of newest approved tickets.
func (s *TicketService) Latest(ctx context.Context, limit int) ([]models.Ticket, error) {
	if limit < 1 || limit > 50 {
		limit = 8
	}

	tickets, err := s.tickets.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest tickets: %w", err)
	}

	return tickets, nil
}

// reindex rewrites the ticket's search document. The vendor's fraud flag
// is resolved fresh so an admin-side reindex never clears the suppression
// set by MarkVendorFraud.
func (s *TicketService) reindex(ctx context.Context, t *models.Ticket) {
	if s.index == nil {
		return
	}
	fraud := false
	if info, err := s.users.Resolve(ctx, t.VendorEmail); err == nil && info != nil {
		fraud = info.IsFraud
	}
	if err := s.index.IndexTicket(ctx, t, fraud); err != nil {
		logger.WithContext(ctx).Error("Failed to index ticket",
			"error", err, "ticket_id", t.ID)
	}
}

func (s *TicketService) publish(ctx context.Context, subject string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err, "event_type", subject)
	}
}

func applyTicketUpdate(t *models.Ticket, req *models.UpdateTicketRequest) error {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.FromLocation != nil {
		t.FromLocation = *req.FromLocation
	}
	if req.ToLocation != nil {
		t.ToLocation = *req.ToLocation
	}
	if req.TransportType != nil {
		transport, err := models.ParseTransportType(*req.TransportType)
		if err != nil {
			return apperr.Wrap(apperr.KindInvalidStateTransition, "invalid transport type", err)
		}
		t.TransportType = transport
	}
	if req.PricePerUnit != nil {
		t.PricePerUnit = *req.PricePerUnit
	}
	if req.Quantity != nil {
		t.Quantity = *req.Quantity
	}
	if req.Perks != nil {
		t.Perks = *req.Perks
	}
	if req.ImageURL != nil {
		t.ImageURL = *req.ImageURL
	}
	if req.DepartureDate != nil {
		t.DepartureDate = *req.DepartureDate
	}
	if req.DepartureTime != nil {
		t.DepartureTime = *req.DepartureTime
	}
	return nil
}
