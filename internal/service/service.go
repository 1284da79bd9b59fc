package service

import (
	"context"
	"time"

	"staybook-backend/internal/domain"
)

// CalendarService maintains the per-property, per-date availability records.
type CalendarService interface {
	// GetRange returns one record per date in [start, end). Dates with no
	// stored record fall back to available at the property's base price and
	// default stay bounds.
	GetRange(ctx context.Context, propertyID int64, start, end time.Time) ([]domain.AvailabilityDay, error)
	Block(ctx context.Context, propertyID int64, start, end time.Time, reason string) error
	Unblock(ctx context.Context, propertyID int64, start, end time.Time) error
	SetPricing(ctx context.Context, day *domain.AvailabilityDay) error
	// IsBookable verifies every night of [checkIn, checkOut) is available and
	// the stay length satisfies the check-in day's bounds.
	IsBookable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) error
	// IsInstantBookable additionally requires instant_book on every night.
	IsInstantBookable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) error
}

// ReservationRequest is the already-validated request struct handed over by
// the HTTP layer.
type ReservationRequest struct {
	PropertyID      int64     `json:"property_id"`
	GuestID         int64     `json:"guest_id"`
	CheckInDate     time.Time `json:"check_in_date"`
	CheckOutDate    time.Time `json:"check_out_date"`
	GuestCount      int32     `json:"guest_count"`
	Adults          int32     `json:"adults"`
	Children        int32     `json:"children"`
	SpecialRequests string    `json:"special_requests"`
	// Optional fee overrides; zero values fall back to configured defaults.
	ServiceFeeBps    int32 `json:"service_fee_bps"`
	CleaningFeeCents int64 `json:"cleaning_fee_cents"`
	TaxRateBps       int32 `json:"tax_rate_bps"`
}

// ReservationService validates a candidate stay and atomically commits a
// non-overlapping booking.
type ReservationService interface {
	Reserve(ctx context.Context, req ReservationRequest) (*domain.Booking, error)
	// ChangeDates moves an existing PENDING or CONFIRMED booking to a new
	// range, re-running validation and the overlap guard. Allowed only up to
	// the configured modification deadline before check-in.
	ChangeDates(ctx context.Context, bookingID int64, newCheckIn, newCheckOut time.Time) (*domain.Booking, error)
}

// BookingService drives the booking lifecycle. All status writes go through
// the transition table and a version-guarded update.
type BookingService interface {
	Get(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error)
	// Cancel returns the cancelled booking and the refund issued in cents.
	Cancel(ctx context.Context, bookingID int64, reason string) (*domain.Booking, int64, error)
	CheckIn(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CheckOut(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Complete(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByProperty(ctx context.Context, propertyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

// PolicyService validates cancellation policies at creation time and computes
// refund eligibility and amounts.
type PolicyService interface {
	CreatePolicy(ctx context.Context, policy *domain.CancellationPolicy) error
	GetPolicy(ctx context.Context, propertyID int64) (*domain.CancellationPolicy, error)
	IsEligible(policy *domain.CancellationPolicy, daysUntilCheckin int32) bool
	CalculateRefund(policy *domain.CancellationPolicy, totalAmountCents int64, daysUntilCheckin int32) int64
}

// PaymentService owns every Payment status mutation. ApplyGatewayEvent is
// idempotent and order-aware; stale or duplicate events are no-ops.
type PaymentService interface {
	CreateForBooking(ctx context.Context, b *domain.Booking, gatewayPaymentID string) (*domain.Payment, error)
	ApplyGatewayEvent(ctx context.Context, gatewayPaymentID string, newStatus domain.PaymentStatus, failureReason string) (*domain.Payment, error)
	// RecordRefund accumulates a refund against the booking's captured
	// payment and records a REFUND-type payment row.
	RecordRefund(ctx context.Context, bookingID int64, amountCents int64) (*domain.Payment, error)
}

// EmailService delivers booking lifecycle mail, fire-and-forget.
type EmailService interface {
	SendBookingRequested(ctx context.Context, hostEmail, guestName, propertyName, confirmationCode string) error
	SendBookingConfirmed(ctx context.Context, guestEmail, propertyName, confirmationCode string) error
	SendBookingCancelled(ctx context.Context, email, propertyName, confirmationCode, reason string, refundCents int64) error
	SendCheckInWelcome(ctx context.Context, guestEmail, propertyName string) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}
