package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nexticket/internal/apperr"
	"nexticket/internal/external"
	"nexticket/internal/logger"
	"nexticket/internal/metrics"
	"nexticket/internal/models"
)

// BookingService owns the booking state machine (pending -> accepted ->
// paid, pending -> rejected) and the two-phase payment confirmation
// sequence against the card processor.
type BookingService struct {
	bookings     BookingStore
	tickets      TicketStore
	transactions TransactionStore
	users        *UserService
	payments     PaymentProcessor
	publisher    EventPublisher
}

func NewBookingService(bookings BookingStore, tickets TicketStore, transactions TransactionStore, users *UserService, payments PaymentProcessor, publisher EventPublisher) *BookingService {
	return &BookingService{
		bookings:     bookings,
		tickets:      tickets,
		transactions: transactions,
		users:        users,
		payments:     payments,
		publisher:    publisher,
	}
}

// Create opens a booking request against an approved, undeparted ticket.
// No inventory is reserved here; the quantity is held back only when the
// vendor accepts, so the total price is a snapshot of the current price.
func (s *BookingService) Create(ctx context.Context, actor string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if _, err := s.users.RequireRole(ctx, actor, models.RoleUser); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, req.TicketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no ticket with id %s", req.TicketID)
	}
	if ticket.VerificationStatus != models.VerificationApproved {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "ticket is not open for booking")
	}
	if ticket.Departed(time.Now()) {
		return nil, apperr.New(apperr.KindBookingExpired, "ticket has already departed")
	}
	if req.BookingQuantity < 1 || req.BookingQuantity > ticket.Quantity {
		return nil, apperr.Newf(apperr.KindInsufficientQuantity,
			"requested %d of %d available", req.BookingQuantity, ticket.Quantity)
	}

	booking := &models.Booking{
		TicketID:        ticket.ID,
		TicketTitle:     ticket.Title,
		UserEmail:       actor,
		VendorEmail:     ticket.VendorEmail,
		BookingQuantity: req.BookingQuantity,
		TotalPrice:      ticket.PricePerUnit * req.BookingQuantity,
		FromLocation:    ticket.FromLocation,
		ToLocation:      ticket.ToLocation,
		DepartureDate:   ticket.DepartureDate,
		DepartureTime:   ticket.DepartureTime,
		Status:          models.BookingPending,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.ObserveBookingTransition(string(models.BookingPending))
	s.publishBooking(ctx, models.EventBookingCreated, booking)

	return booking, nil
}

// Accept moves a pending booking to accepted and holds back the booked
// quantity. The decrement is conditional, so two acceptances can never
// oversell the same inventory.
func (s *BookingService) Accept(ctx context.Context, actor, id string) (*models.Booking, error) {
	booking, err := s.vendorBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingPending {
		return nil, apperr.Newf(apperr.KindInvalidStateTransition,
			"cannot accept a booking in state %s", booking.Status)
	}

	held, err := s.tickets.AdjustQuantity(ctx, booking.TicketID, -booking.BookingQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve inventory: %w", err)
	}
	if !held {
		return nil, apperr.Newf(apperr.KindInsufficientQuantity,
			"not enough inventory left for %d units", booking.BookingQuantity)
	}

	moved, err := s.bookings.UpdateStatus(ctx, id, models.BookingPending, models.BookingAccepted)
	if err == nil && !moved {
		err = apperr.New(apperr.KindInvalidStateTransition, "booking left pending concurrently")
	}
	if err != nil {
		// Return the held inventory before surfacing the failure.
		if _, rbErr := s.tickets.AdjustQuantity(ctx, booking.TicketID, booking.BookingQuantity); rbErr != nil {
			logger.WithContext(ctx).Error("Failed to return held inventory",
				"error", rbErr, "ticket_id", booking.TicketID, "booking_id", id)
		}
		return nil, err
	}

	booking.Status = models.BookingAccepted
	metrics.ObserveBookingTransition(string(models.BookingAccepted))
	s.publishBooking(ctx, models.EventBookingAccepted, booking)

	return booking, nil
}

// Reject is the vendor's terminal refusal of a pending booking.
func (s *BookingService) Reject(ctx context.Context, actor, id string) (*models.Booking, error) {
	booking, err := s.vendorBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingPending {
		return nil, apperr.Newf(apperr.KindInvalidStateTransition,
			"cannot reject a booking in state %s", booking.Status)
	}

	moved, err := s.bookings.UpdateStatus(ctx, id, models.BookingPending, models.BookingRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to reject booking: %w", err)
	}
	if !moved {
		return nil, apperr.New(apperr.KindInvalidStateTransition, "booking left pending concurrently")
	}

	booking.Status = models.BookingRejected
	metrics.ObserveBookingTransition(string(models.BookingRejected))
	s.publishBooking(ctx, models.EventBookingRejected, booking)

	return booking, nil
}

// CreatePaymentIntent is the intent phase of the payment sequence: an
// intent sized to the booking's snapshot price, created with an
// idempotency key. Nothing changes locally; the browser takes the client
// secret to the processor for confirmation.
func (s *BookingService) CreatePaymentIntent(ctx context.Context, actor, bookingID string) (*models.CreatePaymentIntentResponse, error) {
	booking, err := s.userBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingAccepted {
		return nil, apperr.Newf(apperr.KindInvalidStateTransition,
			"cannot pay for a booking in state %s", booking.Status)
	}
	if booking.Departed(time.Now()) {
		return nil, apperr.New(apperr.KindBookingExpired, "departure has passed")
	}

	intent, err := s.payments.CreateIntent(ctx, booking.TotalPrice, uuid.New().String())
	if err != nil {
		metrics.ObservePayment("intent_failed")
		return nil, apperr.Wrap(apperr.KindIntentCreationFailed, "could not create payment intent", err)
	}

	return &models.CreatePaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// Pay completes the confirmation phase. The processor's verdict is checked
// server-side before any write: the intent must have succeeded and its
// amount must match the booking's snapshot price. The booking-paid write
// and the audit record are two idempotent writes; if the record cannot be
// appended after the booking is paid, the gap is surfaced as
// PartialPaymentRecord for reconciliation rather than silently dropped.
func (s *BookingService) Pay(ctx context.Context, actor, id, transactionID string) (*models.Booking, error) {
	booking, err := s.userBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	alreadyPaid := booking.Status == models.BookingPaid &&
		booking.TransactionID != nil && *booking.TransactionID == transactionID

	if booking.Status != models.BookingAccepted && !alreadyPaid {
		return nil, apperr.Newf(apperr.KindInvalidStateTransition,
			"cannot pay for a booking in state %s", booking.Status)
	}
	if !alreadyPaid && booking.Departed(time.Now()) {
		return nil, apperr.New(apperr.KindBookingExpired, "departure has passed")
	}

	intent, err := s.payments.RetrieveIntent(ctx, transactionID)
	if err != nil {
		metrics.ObservePayment("confirmation_failed")
		return nil, apperr.Wrap(apperr.KindPaymentConfirmationFailed, "could not verify payment", err)
	}
	if intent.Status != external.IntentStatusSucceeded {
		metrics.ObservePayment("confirmation_failed")
		return nil, apperr.Newf(apperr.KindPaymentConfirmationFailed,
			"payment is %s, not succeeded", intent.Status)
	}
	if intent.Amount != booking.TotalPrice {
		metrics.ObservePayment("confirmation_failed")
		return nil, apperr.Newf(apperr.KindPaymentConfirmationFailed,
			"paid amount %d does not match booking total %d", intent.Amount, booking.TotalPrice)
	}

	if !alreadyPaid {
		// A charge id settles exactly one booking; replaying it against a
		// second booking of the same price must not pay twice.
		existing, err := s.transactions.GetByTransactionID(ctx, transactionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check transaction: %w", err)
		}
		if existing != nil {
			metrics.ObservePayment("confirmation_failed")
			return nil, apperr.Newf(apperr.KindPaymentConfirmationFailed,
				"charge %s already settled booking %s", transactionID, existing.BookingID)
		}

		moved, err := s.bookings.MarkPaid(ctx, id, transactionID)
		if err != nil {
			return nil, fmt.Errorf("failed to mark booking paid: %w", err)
		}
		if !moved {
			return nil, apperr.New(apperr.KindInvalidStateTransition, "booking changed state concurrently")
		}
		booking.Status = models.BookingPaid
		booking.TransactionID = &transactionID
	}

	record := &models.Transaction{
		TransactionID: transactionID,
		UserEmail:     booking.UserEmail,
		BookingID:     booking.ID,
		TicketTitle:   booking.TicketTitle,
		Amount:        booking.TotalPrice,
		PaymentDate:   time.Now(),
		Status:        "completed",
	}

	created, err := s.transactions.Create(ctx, record)
	if err != nil {
		// The booking is paid and stays paid; the missing audit row is a
		// reconciliation task keyed by the processor's transaction id.
		metrics.ObservePayment("partial_record")
		logger.WithContext(ctx).Error("Payment recorded on booking but transaction append failed",
			"error", err, "booking_id", booking.ID, "transaction_id", transactionID)
		return nil, apperr.Wrap(apperr.KindPartialPaymentRecord,
			"payment accepted but not yet recorded", err)
	}
	if !created && !alreadyPaid {
		// The charge id was consumed between the lookup and the insert.
		metrics.ObservePayment("confirmation_failed")
		logger.WithContext(ctx).Error("Charge id consumed by a concurrent confirmation",
			"booking_id", booking.ID, "transaction_id", transactionID)
		return nil, apperr.Newf(apperr.KindPaymentConfirmationFailed,
			"charge %s already settled another booking", transactionID)
	}

	metrics.ObserveBookingTransition(string(models.BookingPaid))
	metrics.ObservePayment("succeeded")
	s.publishBooking(ctx, models.EventBookingPaid, booking)

	return booking, nil
}

// ByUser lists a user's bookings; admins may inspect any user.
func (s *BookingService) ByUser(ctx context.Context, actor, email string) ([]models.Booking, error) {
	if actor != email {
		if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
			return nil, err
		}
	} else if actor == "" {
		return nil, apperr.New(apperr.KindAuthRequired, "sign in required")
	}

	bookings, err := s.bookings.ListByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// ByVendor lists the bookings awaiting a vendor's decision plus history.
func (s *BookingService) ByVendor(ctx context.Context, actor, email string) ([]models.Booking, error) {
	if actor != email {
		if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
			return nil, err
		}
	} else if _, err := s.users.RequireRole(ctx, actor, models.RoleVendor); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByVendor(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// TransactionsByUser lists a user's payment history.
func (s *BookingService) TransactionsByUser(ctx context.Context, actor, email string) ([]models.Transaction, error) {
	if actor != email {
		if _, err := s.users.RequireRole(ctx, actor, models.RoleAdmin); err != nil {
			return nil, err
		}
	} else if actor == "" {
		return nil, apperr.New(apperr.KindAuthRequired, "sign in required")
	}

	transactions, err := s.transactions.ListByUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

// vendorBooking loads a booking on behalf of its owning vendor.
func (s *BookingService) vendorBooking(ctx context.Context, actor, id string) (*models.Booking, error) {
	if _, err := s.users.RequireRole(ctx, actor, models.RoleVendor); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no booking with id %s", id)
	}
	if booking.VendorEmail != actor {
		return nil, apperr.New(apperr.KindRoleMismatch, "booking belongs to another vendor")
	}

	return booking, nil
}

// userBooking loads a booking on behalf of the user who opened it.
func (s *BookingService) userBooking(ctx context.Context, actor, id string) (*models.Booking, error) {
	if _, err := s.users.RequireRole(ctx, actor, models.RoleUser); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no booking with id %s", id)
	}
	if booking.UserEmail != actor {
		return nil, apperr.New(apperr.KindRoleMismatch, "booking belongs to another user")
	}

	return booking, nil
}

func (s *BookingService) publishBooking(ctx context.Context, subject string, b *models.Booking) {
	if s.publisher == nil {
		return
	}

	event := models.BookingEvent{
		BookingID:   b.ID,
		TicketID:    b.TicketID,
		UserEmail:   b.UserEmail,
		VendorEmail: b.VendorEmail,
		Status:      b.Status,
		Timestamp:   time.Now(),
	}

	if err := s.publisher.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err, "booking_id", b.ID, "event_type", subject)
	}
}
