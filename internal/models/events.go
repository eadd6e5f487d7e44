package models

import "time"

// Subjects for lifecycle events published to NATS Streaming.
const (
	EventTicketCreated    = "ticket.created"
	EventTicketVerified   = "ticket.verified"
	EventTicketAdvertised = "ticket.advertised"
	EventBookingCreated   = "booking.created"
	EventBookingAccepted  = "booking.accepted"
	EventBookingRejected  = "booking.rejected"
	EventBookingPaid      = "booking.paid"
)

type TicketCreatedEvent struct {
	TicketID    string    `json:"ticket_id"`
	VendorEmail string    `json:"vendor_email"`
	Timestamp   time.Time `json:"timestamp"`
}

type TicketVerifiedEvent struct {
	TicketID  string             `json:"ticket_id"`
	Decision  VerificationStatus `json:"decision"`
	Timestamp time.Time          `json:"timestamp"`
}

type TicketAdvertisedEvent struct {
	TicketID     string    `json:"ticket_id"`
	IsAdvertised bool      `json:"is_advertised"`
	Timestamp    time.Time `json:"timestamp"`
}

type BookingEvent struct {
	BookingID   string        `json:"booking_id"`
	TicketID    string        `json:"ticket_id"`
	UserEmail   string        `json:"user_email"`
	VendorEmail string        `json:"vendor_email"`
	Status      BookingStatus `json:"status"`
	Timestamp   time.Time     `json:"timestamp"`
}
