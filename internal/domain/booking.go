package domain

import (
	"time"
)

// DateLayout is the wire format for calendar dates. Bookings deal in whole
// nights; times of day only appear on check-in/check-out events.
const DateLayout = "2006-01-02"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// CancellationReasonExpired marks bookings cancelled by the expiration sweep
// rather than by a guest or host.
const CancellationReasonExpired = "expired"

// validTransitions is the booking lifecycle. COMPLETED and CANCELLED are
// terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn:  {BookingStatusCheckedOut},
	BookingStatusCheckedOut: {BookingStatusCompleted},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if the lifecycle allows moving to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Occupies reports whether a booking in this status still holds its date
// range. Only occupying bookings participate in overlap checks.
func (s BookingStatus) Occupies() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn:
		return true
	}
	return false
}

type Booking struct {
	ID          int64  `json:"id"`
	PropertyID  int64  `json:"property_id"`
	GuestID     int64  `json:"guest_id"`
	HostID      int64  `json:"host_id"`
	CheckInDate time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	TotalNights int32  `json:"total_nights"`
	GuestCount  int32  `json:"guest_count"`
	Adults      int32  `json:"adults"`
	Children    int32  `json:"children"`
	// Amount breakdown, integer cents. TotalAmountCents is always the sum of
	// the other four.
	BaseAmountCents    int64 `json:"base_amount_cents"`
	CleaningFeeCents   int64 `json:"cleaning_fee_cents"`
	ServiceFeeCents    int64 `json:"service_fee_cents"`
	TaxAmountCents     int64 `json:"tax_amount_cents"`
	TotalAmountCents   int64 `json:"total_amount_cents"`
	Status             BookingStatus `json:"status"`
	SpecialRequests    string        `json:"special_requests,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time    `json:"confirmed_at,omitempty"`
	CheckInTime        *time.Time    `json:"check_in_time,omitempty"`
	CheckOutTime       *time.Time    `json:"check_out_time,omitempty"`
	ConfirmationCode   string        `json:"confirmation_code"`
	// Version guards every status write. Cancellation and payment-driven
	// confirmation can race on the same row.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Effect is a side effect a caller must apply after a successful transition.
// Transition itself never touches storage or the network.
type Effect string

const (
	EffectPersist       Effect = "PERSIST"
	EffectNotify        Effect = "NOTIFY"
	EffectComputeRefund Effect = "COMPUTE_REFUND"
)

// Transition returns a copy of b moved to the target status with the
// status-coupled timestamps set, plus the effects the caller must apply.
// It fails with an INVALID_TRANSITION error if the lifecycle forbids the move.
func Transition(b Booking, to BookingStatus, at time.Time) (Booking, []Effect, error) {
	if !b.Status.CanTransitionTo(to) {
		return b, nil, NewInvalidTransitionError(b.Status, to)
	}

	from := b.Status
	b.Status = to
	b.UpdatedAt = at
	effects := []Effect{EffectPersist, EffectNotify}

	switch to {
	case BookingStatusConfirmed:
		t := at
		b.ConfirmedAt = &t
	case BookingStatusCancelled:
		t := at
		b.CancelledAt = &t
		if from == BookingStatusConfirmed {
			effects = append(effects, EffectComputeRefund)
		}
	case BookingStatusCheckedIn:
		t := at
		b.CheckInTime = &t
	case BookingStatusCheckedOut:
		t := at
		b.CheckOutTime = &t
	}

	return b, effects, nil
}
