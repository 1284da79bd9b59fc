package repository

import (
	"context"
	"time"

	"staybook-backend/internal/domain"
)

type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

type AvailabilityRepository interface {
	// GetRange returns the stored records for [start, end), ordered by date.
	// Dates with no record are absent from the result.
	GetRange(ctx context.Context, propertyID int64, start, end time.Time) ([]domain.AvailabilityDay, error)
	Upsert(ctx context.Context, day *domain.AvailabilityDay) error
	// SetAvailability flips the availability flag for every date in
	// [start, end). Idempotent: writing the current state is not an error.
	SetAvailability(ctx context.Context, propertyID int64, start, end time.Time, available bool, reason *string) error
}

type BookingRepository interface {
	// CreateIfFree inserts the booking only if no occupying booking on the
	// same property overlaps its date range. The overlap check and insert run
	// in one transaction under a per-property advisory lock; a conflict
	// surfaces as an OVERLAP error.
	CreateIfFree(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error)
	// Update writes status, timestamps and reason, guarded by the version
	// counter. A stale version surfaces as a SYSTEM error naming the conflict.
	Update(ctx context.Context, b *domain.Booking) error
	// CountOverlapping counts occupying bookings intersecting [checkIn,
	// checkOut), excluding excludeID when non-zero.
	CountOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID int64) (int, error)
	// UpdateDatesIfFree moves a booking to a new range with the same
	// advisory-lock overlap guard as CreateIfFree.
	UpdateDatesIfFree(ctx context.Context, b *domain.Booking) error
	ListByGuest(ctx context.Context, guestID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByProperty(ctx context.Context, propertyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	// ExpirePendingBefore cancels PENDING bookings created before the cutoff
	// and returns the ids it touched.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]int64, error)
}

type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.CancellationPolicy) error
	GetActiveByProperty(ctx context.Context, propertyID int64) (*domain.CancellationPolicy, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByGatewayID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

// ContactRepository reads the directory projection used for notification
// delivery. Account management belongs to an external collaborator.
type ContactRepository interface {
	GetContact(ctx context.Context, userID int64) (*domain.Contact, error)
}
