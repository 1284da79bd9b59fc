package domain

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies engine errors so callers can map them to transport codes
// without string matching.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindAvailability        Kind = "AVAILABILITY"
	KindOverlap             Kind = "OVERLAP"
	KindInvalidTransition   Kind = "INVALID_TRANSITION"
	KindPolicyInconsistency Kind = "POLICY_INCONSISTENCY"
	KindPaymentNotFound     Kind = "PAYMENT_NOT_FOUND"
	KindRefundExceedsAmount Kind = "REFUND_EXCEEDS_AMOUNT"
	KindNotFound            Kind = "NOT_FOUND"
	KindSystem              Kind = "SYSTEM"
)

// Error is the engine's error type. Every error surfaced by a service carries
// a stable Kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a domain error with the given kind.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, or KindSystem for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindSystem
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func NewValidationError(format string, args ...any) *Error {
	return E(KindValidation, format, args...)
}

// NewAvailabilityError names the first violating date so the caller can
// surface it to the guest.
func NewAvailabilityError(date time.Time, reason string) *Error {
	return E(KindAvailability, "date %s is not bookable: %s", date.Format(DateLayout), reason)
}

func NewOverlapError(propertyID int64, checkIn, checkOut time.Time) *Error {
	return E(KindOverlap, "property %d already has a booking overlapping %s to %s",
		propertyID, checkIn.Format(DateLayout), checkOut.Format(DateLayout))
}

func NewInvalidTransitionError(current, requested BookingStatus) *Error {
	return E(KindInvalidTransition, "cannot transition booking from %s to %s", current, requested)
}

func NewPolicyInconsistencyError(policyType PolicyType, reason string) *Error {
	return E(KindPolicyInconsistency, "policy type %s: %s", policyType, reason)
}

func NewPaymentNotFoundError(gatewayPaymentID string) *Error {
	return E(KindPaymentNotFound, "no payment with gateway id %q", gatewayPaymentID)
}

func NewRefundExceedsAmountError(paymentID, refundCents, amountCents int64) *Error {
	return E(KindRefundExceedsAmount, "refund of %d cents on payment %d exceeds charged amount %d cents",
		refundCents, paymentID, amountCents)
}
