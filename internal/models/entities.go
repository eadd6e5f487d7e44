package models

import (
	"fmt"
	"time"
)

// Role is the closed set of roles an identity can hold.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleVendor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// VerificationStatus is the admin moderation state of a ticket.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Decided reports whether the status is terminal for the verification machine.
func (s VerificationStatus) Decided() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// BookingStatus is the state of a booking request.
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingAccepted BookingStatus = "accepted"
	BookingRejected BookingStatus = "rejected"
	BookingPaid     BookingStatus = "paid"
)

// CanTransitionTo reports whether next is a legal edge from s.
// The only edges are pending->accepted, pending->rejected and accepted->paid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingAccepted || next == BookingRejected
	case BookingAccepted:
		return next == BookingPaid
	}
	return false
}

// TransportType is the kind of vehicle a ticket is for.
type TransportType string

const (
	TransportBus    TransportType = "Bus"
	TransportTrain  TransportType = "Train"
	TransportLaunch TransportType = "Launch"
	TransportPlane  TransportType = "Plane"
)

func ParseTransportType(s string) (TransportType, error) {
	switch TransportType(s) {
	case TransportBus, TransportTrain, TransportLaunch, TransportPlane:
		return TransportType(s), nil
	}
	return "", fmt.Errorf("unknown transport type: %q", s)
}

const (
	departureDateLayout = "2006-01-02"
	departureTimeLayout = "15:04"
)

// ParseDeparture combines the stored date and time strings into a timestamp.
func ParseDeparture(date, clock string) (time.Time, error) {
	return time.Parse(departureDateLayout+" "+departureTimeLayout, date+" "+clock)
}

// User is an identity known to the marketplace. Created on first sign-in,
// role mutated only by admin action, never hard-deleted.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	Role        Role      `json:"role"`
	IsFraud     bool      `json:"isFraud"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Ticket is a sellable inventory unit for a transport route/departure.
// Prices are integer minor currency units. Quantity is remaining inventory.
type Ticket struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	FromLocation       string             `json:"fromLocation"`
	ToLocation         string             `json:"toLocation"`
	TransportType      TransportType      `json:"transportType"`
	PricePerUnit       int64              `json:"pricePerUnit"`
	Quantity           int64              `json:"quantity"`
	Perks              []string           `json:"perks"`
	ImageURL           string             `json:"imageURL"`
	VendorEmail        string             `json:"vendorEmail"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	IsAdvertised       bool               `json:"isAdvertised"`
	DepartureDate      string             `json:"departureDate"`
	DepartureTime      string             `json:"departureTime"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// Departed reports whether the ticket's departure is at or before now.
// An unparseable departure counts as departed so it can never be booked.
func (t *Ticket) Departed(now time.Time) bool {
	at, err := ParseDeparture(t.DepartureDate, t.DepartureTime)
	if err != nil {
		return true
	}
	return !at.After(now)
}

// Booking is a user's request to purchase some quantity of a ticket.
// Route, departure, title and total price are snapshots taken at creation
// and never recomputed.
type Booking struct {
	ID              string        `json:"id"`
	TicketID        string        `json:"ticketId"`
	TicketTitle     string        `json:"ticketTitle"`
	UserEmail       string        `json:"userEmail"`
	VendorEmail     string        `json:"vendorEmail"`
	BookingQuantity int64         `json:"bookingQuantity"`
	TotalPrice      int64         `json:"totalPrice"`
	FromLocation    string        `json:"fromLocation"`
	ToLocation      string        `json:"toLocation"`
	DepartureDate   string        `json:"departureDate"`
	DepartureTime   string        `json:"departureTime"`
	Status          BookingStatus `json:"status"`
	TransactionID   *string       `json:"transactionId,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Departed reports whether the booked departure is at or before now.
func (b *Booking) Departed(now time.Time) bool {
	at, err := ParseDeparture(b.DepartureDate, b.DepartureTime)
	if err != nil {
		return true
	}
	return !at.After(now)
}

// Transaction is an immutable record of a completed payment, keyed by the
// processor-assigned transaction id.
type Transaction struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId"`
	UserEmail     string    `json:"userEmail"`
	BookingID     string    `json:"bookingId"`
	TicketTitle   string    `json:"ticketTitle"`
	Amount        int64     `json:"amount"`
	PaymentDate   time.Time `json:"paymentDate"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RoleInfo is the result of resolving an identity to a role.
type RoleInfo struct {
	Role    Role `json:"role"`
	IsFraud bool `json:"isFraud"`
}
