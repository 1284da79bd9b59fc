package service

import (
	"context"
	"fmt"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/utils"
)

type bookingService struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	calendar     CalendarService
	policies     PolicyService
	payments     PaymentService
	emailSvc     EmailService
	noteRepo     repository.NotificationRepository
	contactRepo  repository.ContactRepository
	now          func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	calendar CalendarService,
	policies PolicyService,
	payments PaymentService,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
	contactRepo repository.ContactRepository,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		calendar:     calendar,
		policies:     policies,
		payments:     payments,
		emailSvc:     emailSvc,
		noteRepo:     noteRepo,
		contactRepo:  contactRepo,
		now:          time.Now,
	}
}

func (s *bookingService) Get(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}

func (s *bookingService) Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.transition(ctx, bookingID, domain.BookingStatusConfirmed, "")
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking, "Booking Confirmed",
		fmt.Sprintf("Booking %s is confirmed for %s", booking.ConfirmationCode, utils.FormatDate(booking.CheckInDate)),
		"BOOKING_CONFIRMED")
	if contact, err := s.contactRepo.GetContact(ctx, booking.GuestID); err == nil {
		_ = s.emailSvc.SendBookingConfirmed(ctx, contact.Email, s.propertyName(ctx, booking.PropertyID), booking.ConfirmationCode)
	}
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID int64, reason string) (*domain.Booking, int64, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, 0, err
	}

	updated, effects, err := domain.Transition(*booking, domain.BookingStatusCancelled, s.now().UTC())
	if err != nil {
		return nil, 0, err
	}
	updated.CancellationReason = reason

	if err := s.bookingRepo.Update(ctx, &updated); err != nil {
		return nil, 0, err
	}

	var refundCents int64
	if hasEffect(effects, domain.EffectComputeRefund) {
		refundCents = s.issueRefund(ctx, &updated)
	}

	logger.Info("booking cancelled", "booking_id", updated.ID, "reason", reason, "refund_cents", refundCents)
	s.notify(ctx, &updated, "Booking Cancelled",
		fmt.Sprintf("Booking %s was cancelled: %s", updated.ConfirmationCode, reason),
		"BOOKING_CANCELLED")
	if contact, err := s.contactRepo.GetContact(ctx, updated.GuestID); err == nil {
		_ = s.emailSvc.SendBookingCancelled(ctx, contact.Email, s.propertyName(ctx, updated.PropertyID),
			updated.ConfirmationCode, reason, refundCents)
	}

	return &updated, refundCents, nil
}

// issueRefund computes the policy refund for a confirmed booking and records
// it against the captured payment. Refund failures are logged, not fatal: the
// cancellation has already committed and the refund can be replayed.
func (s *bookingService) issueRefund(ctx context.Context, b *domain.Booking) int64 {
	policy, err := s.policies.GetPolicy(ctx, b.PropertyID)
	if err != nil {
		logger.Warn("no cancellation policy for property, skipping refund",
			"property_id", b.PropertyID, "booking_id", b.ID, "error", err)
		return 0
	}

	daysUntil := utils.DaysUntil(b.CheckInDate, s.now())
	refund := s.policies.CalculateRefund(policy, b.TotalAmountCents, daysUntil)
	if refund == 0 {
		return 0
	}

	if _, err := s.payments.RecordRefund(ctx, b.ID, refund); err != nil {
		if domain.IsKind(err, domain.KindNotFound) || domain.IsKind(err, domain.KindPaymentNotFound) {
			logger.Warn("no captured payment to refund", "booking_id", b.ID, "refund_cents", refund)
			return 0
		}
		logger.Error("failed to record refund", "booking_id", b.ID, "refund_cents", refund, "error", err)
		return 0
	}
	return refund
}

func (s *bookingService) CheckIn(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if utils.DateOnly(s.now()).Before(booking.CheckInDate) {
		return nil, domain.NewValidationError("check-in date %s has not been reached",
			utils.FormatDate(booking.CheckInDate))
	}
	days, err := s.calendar.GetRange(ctx, booking.PropertyID, booking.CheckInDate, booking.CheckInDate.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if !days[0].CheckInAllowed {
		return nil, domain.NewAvailabilityError(booking.CheckInDate, "check-in is not allowed on this date")
	}

	updated, _, err := domain.Transition(*booking, domain.BookingStatusCheckedIn, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.notify(ctx, &updated, "Guest Checked In",
		fmt.Sprintf("Guest checked in for booking %s", updated.ConfirmationCode), "BOOKING_CHECKED_IN")
	if contact, err := s.contactRepo.GetContact(ctx, updated.GuestID); err == nil {
		_ = s.emailSvc.SendCheckInWelcome(ctx, contact.Email, s.propertyName(ctx, updated.PropertyID))
	}
	return &updated, nil
}

func (s *bookingService) CheckOut(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.transition(ctx, bookingID, domain.BookingStatusCheckedOut, "")
	if err != nil {
		return nil, err
	}
	s.notify(ctx, booking, "Guest Checked Out",
		fmt.Sprintf("Guest checked out of booking %s", booking.ConfirmationCode), "BOOKING_CHECKED_OUT")
	return booking, nil
}

func (s *bookingService) Complete(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, domain.BookingStatusCompleted, "")
}

func (s *bookingService) ListByGuest(ctx context.Context, guestID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByGuest(ctx, guestID, status, page, pageSize)
}

func (s *bookingService) ListByProperty(ctx context.Context, propertyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByProperty(ctx, propertyID, status, page, pageSize)
}

// transition loads, applies the lifecycle move and persists under the
// version guard.
func (s *bookingService) transition(ctx context.Context, bookingID int64, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	updated, _, err := domain.Transition(*booking, to, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if reason != "" {
		updated.CancellationReason = reason
	}
	if err := s.bookingRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// notify writes in-app notifications for both parties, best-effort.
func (s *bookingService) notify(ctx context.Context, b *domain.Booking, title, message, event string) {
	attrs := map[string]string{
		"type":       event,
		"booking_id": fmt.Sprintf("%d", b.ID),
	}
	for _, userID := range []int64{b.GuestID, b.HostID} {
		note := &domain.Notification{
			UserID:     userID,
			Title:      title,
			Message:    message,
			Attributes: attrs,
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Warn("failed to write notification", "user_id", userID, "booking_id", b.ID, "error", err)
		}
	}
}

func (s *bookingService) propertyName(ctx context.Context, propertyID int64) string {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return fmt.Sprintf("property %d", propertyID)
	}
	return property.Name
}

func hasEffect(effects []domain.Effect, e domain.Effect) bool {
	for _, effect := range effects {
		if effect == e {
			return true
		}
	}
	return false
}
