package service

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"staybook-backend/internal/config"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
)

// paymentService reconciles gateway events into Payment rows. Events for
// distinct payments process concurrently; events for the same gateway id are
// serialized through a striped lock so forward-ordering holds.
type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	confirm     ConfirmFunc
	cfg         config.BookingConfig
	locks       [64]sync.Mutex
}

// ConfirmFunc is the slice of the booking lifecycle the reconciler drives
// when a funding payment succeeds. Injected as a function to avoid a
// construction cycle with the booking service.
type ConfirmFunc func(ctx context.Context, bookingID int64) error

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	confirm ConfirmFunc,
	cfg config.BookingConfig,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		confirm:     confirm,
		cfg:         cfg,
	}
}

func (s *paymentService) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

func (s *paymentService) CreateForBooking(ctx context.Context, b *domain.Booking, gatewayPaymentID string) (*domain.Payment, error) {
	if b.TotalAmountCents <= 0 {
		return nil, domain.NewValidationError("payment amount must be positive, got %d", b.TotalAmountCents)
	}
	payment := &domain.Payment{
		BookingID:        b.ID,
		AmountCents:      b.TotalAmountCents,
		PaymentType:      domain.PaymentTypeFull,
		Status:           domain.PaymentStatusPending,
		GatewayPaymentID: gatewayPaymentID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	logger.Info("payment created", "payment_id", payment.ID, "booking_id", b.ID,
		"amount_cents", payment.AmountCents)
	return payment, nil
}

// ApplyGatewayEvent applies one gateway status event. Duplicates and stale
// events are no-ops; an unknown gateway id is reported so the caller can
// redeliver after the payment row lands.
func (s *paymentService) ApplyGatewayEvent(ctx context.Context, gatewayPaymentID string, newStatus domain.PaymentStatus, failureReason string) (*domain.Payment, error) {
	if !newStatus.IsValid() {
		return nil, domain.NewValidationError("unknown payment status %q", newStatus)
	}

	mu := s.lockFor(gatewayPaymentID)
	mu.Lock()
	defer mu.Unlock()

	payment, err := s.paymentRepo.GetByGatewayID(ctx, gatewayPaymentID)
	if err != nil {
		if domain.IsKind(err, domain.KindPaymentNotFound) {
			// Gateway events can reference payments not yet persisted.
			logger.Warn("gateway event for unknown payment", "gateway_payment_id", gatewayPaymentID,
				"status", newStatus)
		}
		return nil, err
	}

	if payment.Status == newStatus {
		logger.Debug("duplicate gateway event ignored", "payment_id", payment.ID, "status", newStatus)
		return payment, nil
	}
	if !payment.Status.CanAdvanceTo(newStatus) {
		logger.Warn("stale gateway event ignored", "payment_id", payment.ID,
			"current", payment.Status, "event", newStatus)
		return payment, nil
	}

	payment.Status = newStatus
	switch newStatus {
	case domain.PaymentStatusFailed:
		payment.FailureReason = failureReason
	case domain.PaymentStatusRefunded:
		payment.RefundAmountCents = payment.AmountCents
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	logger.Info("gateway event applied", "payment_id", payment.ID, "status", newStatus)

	if newStatus == domain.PaymentStatusSucceeded {
		s.confirmFundedBooking(ctx, payment)
	}
	return payment, nil
}

// confirmFundedBooking promotes the funded booking out of PENDING. A booking
// already past PENDING means confirmation happened elsewhere; that is not an
// error here.
func (s *paymentService) confirmFundedBooking(ctx context.Context, p *domain.Payment) {
	if !s.cfg.EnableAutoPayment || p.PaymentType == domain.PaymentTypeRefund {
		return
	}
	booking, err := s.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		logger.Error("failed to load booking for funded payment", "payment_id", p.ID,
			"booking_id", p.BookingID, "error", err)
		return
	}
	if booking.Status != domain.BookingStatusPending {
		return
	}
	if err := s.confirm(ctx, booking.ID); err != nil {
		logger.Warn("payment-driven confirmation skipped", "booking_id", booking.ID, "error", err)
	}
}

// RecordRefund accumulates a refund against the booking's captured payment.
// The lock covers the read as well as the write so concurrent refunds for the
// same booking cannot both pass the over-refund check on a stale snapshot.
func (s *paymentService) RecordRefund(ctx context.Context, bookingID int64, amountCents int64) (*domain.Payment, error) {
	if amountCents <= 0 {
		return nil, domain.NewValidationError("refund amount must be positive, got %d", amountCents)
	}

	mu := s.lockFor("booking:" + strconv.FormatInt(bookingID, 10))
	mu.Lock()
	defer mu.Unlock()

	payments, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var captured *domain.Payment
	for i := range payments {
		p := &payments[i]
		if p.PaymentType == domain.PaymentTypeRefund {
			continue
		}
		if p.Status == domain.PaymentStatusSucceeded || p.Status == domain.PaymentStatusPartiallyRefunded {
			captured = p
			break
		}
	}
	if captured == nil {
		return nil, domain.E(domain.KindNotFound, "no captured payment for booking %d", bookingID)
	}

	newRefund := captured.RefundAmountCents + amountCents
	if newRefund > captured.AmountCents {
		return nil, domain.NewRefundExceedsAmountError(captured.ID, newRefund, captured.AmountCents)
	}

	captured.RefundAmountCents = newRefund
	if newRefund >= captured.AmountCents {
		captured.Status = domain.PaymentStatusRefunded
	} else {
		captured.Status = domain.PaymentStatusPartiallyRefunded
	}
	if err := s.paymentRepo.Update(ctx, captured); err != nil {
		return nil, err
	}

	// Refunds are recorded as their own rows; charge rows are never deleted.
	refundRow := &domain.Payment{
		BookingID:   bookingID,
		AmountCents: amountCents,
		PaymentType: domain.PaymentTypeRefund,
		Status:      domain.PaymentStatusSucceeded,
	}
	if err := s.paymentRepo.Create(ctx, refundRow); err != nil {
		logger.Error("failed to record refund row", "booking_id", bookingID, "error", err)
	}

	logger.Info("refund recorded", "booking_id", bookingID, "payment_id", captured.ID,
		"refund_cents", amountCents, "status", captured.Status)
	return captured, nil
}
