package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybook-backend/internal/config"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/utils"
)

type reservationService struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	calendar     CalendarService
	bookings     BookingService
	payments     PaymentService
	emailSvc     EmailService
	noteRepo     repository.NotificationRepository
	contactRepo  repository.ContactRepository
	cfg          config.BookingConfig
	now          func() time.Time
}

func NewReservationService(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	calendar CalendarService,
	bookings BookingService,
	payments PaymentService,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
	contactRepo repository.ContactRepository,
	cfg config.BookingConfig,
) ReservationService {
	return &reservationService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		calendar:     calendar,
		bookings:     bookings,
		payments:     payments,
		emailSvc:     emailSvc,
		noteRepo:     noteRepo,
		contactRepo:  contactRepo,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Reserve validates the candidate stay fail-fast and commits the booking.
// The overlap check and insert run atomically per property inside
// BookingRepository.CreateIfFree, so two concurrent calls for intersecting
// ranges can never both succeed.
func (s *reservationService) Reserve(ctx context.Context, req ReservationRequest) (*domain.Booking, error) {
	checkIn := utils.DateOnly(req.CheckInDate)
	checkOut := utils.DateOnly(req.CheckOutDate)
	today := utils.DateOnly(s.now())

	if !checkOut.After(checkIn) {
		return nil, domain.NewValidationError("check-out %s must be after check-in %s",
			utils.FormatDate(checkOut), utils.FormatDate(checkIn))
	}
	if checkIn.Before(today) {
		return nil, domain.NewValidationError("check-in %s is in the past", utils.FormatDate(checkIn))
	}

	nights := utils.NightsBetween(checkIn, checkOut)
	if nights < s.cfg.MinBookingNights || nights > s.cfg.MaxBookingNights {
		return nil, domain.NewValidationError("stay of %d nights is outside the allowed range of %d to %d",
			nights, s.cfg.MinBookingNights, s.cfg.MaxBookingNights)
	}

	advance := utils.DaysUntil(checkIn, today)
	if advance < s.cfg.MinAdvanceBookingDays || advance > s.cfg.MaxAdvanceBookingDays {
		return nil, domain.NewValidationError("check-in %d days out is outside the booking window of %d to %d days",
			advance, s.cfg.MinAdvanceBookingDays, s.cfg.MaxAdvanceBookingDays)
	}

	if req.GuestCount < 1 {
		return nil, domain.NewValidationError("guest_count must be at least 1")
	}
	if req.GuestCount > s.cfg.MaxGuestsPerBooking {
		return nil, domain.NewValidationError("guest_count %d exceeds the maximum of %d",
			req.GuestCount, s.cfg.MaxGuestsPerBooking)
	}

	if err := s.calendar.IsBookable(ctx, req.PropertyID, checkIn, checkOut); err != nil {
		return nil, err
	}

	// Early conflict report before pricing work. CreateIfFree re-runs the
	// overlap check atomically under the property lock; this one can race.
	overlapping, err := s.bookingRepo.CountOverlapping(ctx, req.PropertyID, checkIn, checkOut, 0)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, domain.NewOverlapError(req.PropertyID, checkIn, checkOut)
	}

	property, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quote(ctx, req, property, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		PropertyID:       req.PropertyID,
		GuestID:          req.GuestID,
		HostID:           property.HostID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		TotalNights:      nights,
		GuestCount:       req.GuestCount,
		Adults:           req.Adults,
		Children:         req.Children,
		BaseAmountCents:  quote.BaseCents,
		CleaningFeeCents: quote.CleaningFeeCents,
		ServiceFeeCents:  quote.ServiceFeeCents,
		TaxAmountCents:   quote.TaxCents,
		TotalAmountCents: quote.TotalCents,
		Status:           domain.BookingStatusPending,
		SpecialRequests:  req.SpecialRequests,
		ConfirmationCode: newConfirmationCode(),
	}

	if err := s.bookingRepo.CreateIfFree(ctx, booking); err != nil {
		return nil, err
	}
	logger.Info("booking reserved", "booking_id", booking.ID, "property_id", booking.PropertyID,
		"check_in", utils.FormatDate(checkIn), "check_out", utils.FormatDate(checkOut),
		"total_cents", booking.TotalAmountCents)

	if s.cfg.EnableAutoPayment {
		if _, err := s.payments.CreateForBooking(ctx, booking, ""); err != nil {
			// The booking stands; funding can be retried by the caller.
			logger.Error("failed to create payment for booking", "booking_id", booking.ID, "error", err)
		}
	}

	s.notifyHost(ctx, booking, property.Name)

	if s.instantBookEligible(ctx, booking) {
		confirmed, err := s.bookings.Confirm(ctx, booking.ID)
		if err != nil {
			logger.Error("instant booking confirmation failed", "booking_id", booking.ID, "error", err)
			return booking, nil
		}
		return confirmed, nil
	}

	return booking, nil
}

// notifyHost tells the host about the new request, best-effort.
func (s *reservationService) notifyHost(ctx context.Context, b *domain.Booking, propertyName string) {
	note := &domain.Notification{
		UserID:  b.HostID,
		Title:   "New Booking Request",
		Message: "Booking " + b.ConfirmationCode + " requested for " + propertyName,
		Attributes: map[string]string{
			"type":       "BOOKING_REQUESTED",
			"booking_id": fmt.Sprintf("%d", b.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("failed to write host notification", "booking_id", b.ID, "error", err)
	}

	host, err := s.contactRepo.GetContact(ctx, b.HostID)
	if err != nil {
		return
	}
	guestName := fmt.Sprintf("guest %d", b.GuestID)
	if guest, err := s.contactRepo.GetContact(ctx, b.GuestID); err == nil {
		guestName = guest.Name
	}
	_ = s.emailSvc.SendBookingRequested(ctx, host.Email, guestName, propertyName, b.ConfirmationCode)
}

func (s *reservationService) instantBookEligible(ctx context.Context, b *domain.Booking) bool {
	if !s.cfg.EnableInstantBooking {
		return false
	}
	if b.TotalAmountCents > s.cfg.AutoApprovalThresholdCents {
		return false
	}
	return s.calendar.IsInstantBookable(ctx, b.PropertyID, b.CheckInDate, b.CheckOutDate) == nil
}

// quote prices each night from the calendar and applies the fee
// configuration, defaulting from BookingConfig. PriceCents on a calendar
// record is an override; a stored day without one costs the base price.
func (s *reservationService) quote(ctx context.Context, req ReservationRequest, property *domain.Property, checkIn, checkOut time.Time) (utils.QuoteBreakdown, error) {
	days, err := s.calendar.GetRange(ctx, req.PropertyID, checkIn, checkOut)
	if err != nil {
		return utils.QuoteBreakdown{}, err
	}

	nightly := make([]int64, 0, len(days))
	for _, d := range days {
		price := property.BasePriceCents
		if d.PriceCents != nil {
			price = *d.PriceCents
		}
		nightly = append(nightly, price)
	}

	fees := utils.FeeConfig{
		ServiceFeeBps:    req.ServiceFeeBps,
		CleaningFeeCents: req.CleaningFeeCents,
		TaxRateBps:       req.TaxRateBps,
	}
	if fees.ServiceFeeBps == 0 {
		fees.ServiceFeeBps = s.cfg.DefaultServiceFeeBps
	}
	if fees.CleaningFeeCents == 0 {
		fees.CleaningFeeCents = s.cfg.DefaultCleaningFeeCents
	}

	return utils.ComputeQuote(nightly, fees), nil
}

// ChangeDates moves a booking to a new range. The same validations as
// Reserve apply, the booking itself is excluded from the overlap check, and
// the move is refused once the modification deadline has passed.
func (s *reservationService) ChangeDates(ctx context.Context, bookingID int64, newCheckIn, newCheckOut time.Time) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return nil, domain.NewValidationError("booking in status %s cannot be modified", booking.Status)
	}

	deadline := booking.CheckInDate.Add(-s.cfg.ModificationDeadline())
	if s.now().After(deadline) {
		return nil, domain.NewValidationError("booking can no longer be modified within %d hours of check-in",
			s.cfg.ModificationDeadlineHours)
	}

	checkIn := utils.DateOnly(newCheckIn)
	checkOut := utils.DateOnly(newCheckOut)
	today := utils.DateOnly(s.now())

	if !checkOut.After(checkIn) {
		return nil, domain.NewValidationError("check-out %s must be after check-in %s",
			utils.FormatDate(checkOut), utils.FormatDate(checkIn))
	}
	if checkIn.Before(today) {
		return nil, domain.NewValidationError("check-in %s is in the past", utils.FormatDate(checkIn))
	}
	nights := utils.NightsBetween(checkIn, checkOut)
	if nights < s.cfg.MinBookingNights || nights > s.cfg.MaxBookingNights {
		return nil, domain.NewValidationError("stay of %d nights is outside the allowed range of %d to %d",
			nights, s.cfg.MinBookingNights, s.cfg.MaxBookingNights)
	}
	if err := s.calendar.IsBookable(ctx, booking.PropertyID, checkIn, checkOut); err != nil {
		return nil, err
	}

	// Same early conflict report as Reserve, excluding the booking itself.
	overlapping, err := s.bookingRepo.CountOverlapping(ctx, booking.PropertyID, checkIn, checkOut, booking.ID)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, domain.NewOverlapError(booking.PropertyID, checkIn, checkOut)
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}

	req := ReservationRequest{PropertyID: booking.PropertyID, GuestID: booking.GuestID}
	quote, err := s.quote(ctx, req, property, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	// The cleaning fee was fixed at reservation time; only the nightly base
	// and derived fees are repriced.
	quote.TotalCents += booking.CleaningFeeCents - quote.CleaningFeeCents
	quote.CleaningFeeCents = booking.CleaningFeeCents

	booking.CheckInDate = checkIn
	booking.CheckOutDate = checkOut
	booking.TotalNights = nights
	booking.BaseAmountCents = quote.BaseCents
	booking.ServiceFeeCents = quote.ServiceFeeCents
	booking.TaxAmountCents = quote.TaxCents
	booking.TotalAmountCents = quote.TotalCents

	if err := s.bookingRepo.UpdateDatesIfFree(ctx, booking); err != nil {
		return nil, err
	}
	logger.Info("booking dates changed", "booking_id", booking.ID,
		"check_in", utils.FormatDate(checkIn), "check_out", utils.FormatDate(checkOut))
	return booking, nil
}

// newConfirmationCode derives a short, human-readable code from a random
// UUID.
func newConfirmationCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
