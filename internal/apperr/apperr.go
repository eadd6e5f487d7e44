// Package apperr carries the typed error taxonomy shared by every layer.
// Handlers map kinds to HTTP statuses; services attach kinds at the point
// where a precondition or collaborator fails.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindAuthRequired
	KindRoleMismatch
	KindNotFound
	KindInvalidStateTransition
	KindSlotLimitExceeded
	KindInsufficientQuantity
	KindBookingExpired
	KindIntentCreationFailed
	KindPaymentConfirmationFailed
	KindPartialPaymentRecord
	KindRoleLookupFailed
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuthRequired:
		return "AuthRequired"
	case KindRoleMismatch:
		return "RoleMismatch"
	case KindNotFound:
		return "NotFound"
	case KindInvalidStateTransition:
		return "InvalidStateTransition"
	case KindSlotLimitExceeded:
		return "SlotLimitExceeded"
	case KindInsufficientQuantity:
		return "InsufficientQuantity"
	case KindBookingExpired:
		return "BookingExpired"
	case KindIntentCreationFailed:
		return "IntentCreationFailed"
	case KindPaymentConfirmationFailed:
		return "PaymentConfirmationFailed"
	case KindPartialPaymentRecord:
		return "PartialPaymentRecord"
	case KindRoleLookupFailed:
		return "RoleLookupFailed"
	case KindNetwork:
		return "NetworkError"
	}
	return "Unknown"
}

// HTTPStatus maps a kind to the status returned in the response envelope.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindRoleMismatch:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidStateTransition, KindSlotLimitExceeded, KindInsufficientQuantity:
		return http.StatusConflict
	case KindBookingExpired:
		return http.StatusGone
	case KindIntentCreationFailed, KindPaymentConfirmationFailed:
		return http.StatusBadGateway
	case KindRoleLookupFailed, KindNetwork:
		return http.StatusBadGateway
	}
	// PartialPaymentRecord needs operator attention, not a client fix.
	return http.StatusInternalServerError
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether the error chain carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
