package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
)

type paymentFixture struct {
	paymentRepo *MockPaymentRepo
	bookingRepo *MockBookingRepo
	confirmed   []int64
	svc         service.PaymentService
}

func newPaymentFixture(autoPayment bool) *paymentFixture {
	f := &paymentFixture{
		paymentRepo: new(MockPaymentRepo),
		bookingRepo: new(MockBookingRepo),
	}
	cfg := testBookingConfig()
	cfg.EnableAutoPayment = autoPayment
	confirm := func(ctx context.Context, bookingID int64) error {
		f.confirmed = append(f.confirmed, bookingID)
		return nil
	}
	f.svc = service.NewPaymentService(f.paymentRepo, f.bookingRepo, confirm, cfg)
	return f
}

func pendingPayment() *domain.Payment {
	return &domain.Payment{
		ID:               9,
		BookingID:        42,
		AmountCents:      38600,
		PaymentType:      domain.PaymentTypeFull,
		Status:           domain.PaymentStatusPending,
		GatewayPaymentID: "gw_123",
	}
}

func TestPaymentService_CreateForBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newPaymentFixture(true)
		booking := &domain.Booking{ID: 42, TotalAmountCents: 38600}
		f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Payment).ID = 9
			}).Return(nil)

		payment, err := f.svc.CreateForBooking(ctx, booking, "gw_123")
		assert.NoError(t, err)
		assert.Equal(t, int64(38600), payment.AmountCents)
		assert.Equal(t, domain.PaymentTypeFull, payment.PaymentType)
		assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	})

	t.Run("Zero amount is rejected", func(t *testing.T) {
		f := newPaymentFixture(true)
		_, err := f.svc.CreateForBooking(ctx, &domain.Booking{ID: 42}, "gw_123")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestPaymentService_ApplyGatewayEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Forward event applies", func(t *testing.T) {
		f := newPaymentFixture(false)
		f.paymentRepo.On("GetByGatewayID", ctx, "gw_123").Return(pendingPayment(), nil)
		f.paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		payment, err := f.svc.ApplyGatewayEvent(ctx, "gw_123", domain.PaymentStatusProcessing, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusProcessing, payment.Status)
	})

	t.Run("Duplicate event is a no-op", func(t *testing.T) {
		f := newPaymentFixture(false)
		p := pendingPayment()
		p.Status = domain.PaymentStatusSucceeded
		f.paymentRepo.On("GetByGatewayID", ctx, "gw_123").Return(p, nil)

		payment, err := f.svc.ApplyGatewayEvent(ctx, "gw_123", domain.PaymentStatusSucceeded, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusSucceeded, payment.Status)
		f.paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Stale event after final status is a no-op", func(t *testing.T) {
		f := newPaymentFixture(false)
		p := pendingPayment()
		p.Status = domain.PaymentStatusSucceeded
		f.paymentRepo.On("GetByGatewayID", ctx, "gw_123").Return(p, nil)

		payment, err := f.svc.ApplyGatewayEvent(ctx, "gw_123", domain.PaymentStatusProcessing, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusSucceeded, payment.Status)
		f.paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Unknown gateway id surfaces for redelivery", func(t *testing.T) {
		f := newPaymentFixture(false)
		f.paymentRepo.On("GetByGatewayID", ctx, "gw_missing").
			Return(nil, domain.NewPaymentNotFoundError("gw_missing"))

		_, err := f.svc.ApplyGatewayEvent(ctx, "gw_missing", domain.PaymentStatusSucceeded, "")
		assert.True(t, domain.IsKind(err, domain.KindPaymentNotFound))
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		f := newPaymentFixture(false)
		_, err := f.svc.ApplyGatewayEvent(ctx, "gw_123", "PAID", "")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("Failure reason is recorded", func(t *testing.T) {
		f := newPaymentFixture(false)
		f.paymentRepo.On("GetByGatewayID", ctx, "gw_123").Return(pendingPayment(), nil)
		f.paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		payment, err := f.svc.ApplyGatewayEvent(ctx, "gw_123", domain.PaymentStatusFailed, "card declined")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
		assert.Equal(t, "card declined", payment.FailureReason)
	})

	t.Run("Successful funding confirms the pending booking", func(t *testing.T) {
		f := newPaymentFixture(true)
		f.paymentRepo.On("GetByGatewayID", ctx, "gw_123").Return(pendingPayment(), nil)
		f.paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)
		f.bookingRepo.On("GetByID", ctx, int64(42)).
			Return(&domain.Booking{ID: 42, Status: domain.BookingStatusPending}, nil)

		_, err := f.svc.ApplyGatewayEvent(ctx, "gw_123", domain.PaymentStatusSucceeded, "")
		assert.NoError(t, err)
		assert.Equal(t, []int64{42}, f.confirmed)
	})

	t.Run("Booking already past pending is left alone", func(t *testing.T) {
		f := newPaymentFixture(true)
		f.paymentRepo.On("GetByGatewayID", ctx, "gw_123").Return(pendingPayment(), nil)
		f.paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)
		f.bookingRepo.On("GetByID", ctx, int64(42)).
			Return(&domain.Booking{ID: 42, Status: domain.BookingStatusConfirmed}, nil)

		_, err := f.svc.ApplyGatewayEvent(ctx, "gw_123", domain.PaymentStatusSucceeded, "")
		assert.NoError(t, err)
		assert.Empty(t, f.confirmed)
	})
}

func TestPaymentService_RecordRefund(t *testing.T) {
	ctx := context.Background()

	captured := func() domain.Payment {
		p := *pendingPayment()
		p.Status = domain.PaymentStatusSucceeded
		return p
	}

	t.Run("Partial refund", func(t *testing.T) {
		f := newPaymentFixture(false)
		f.paymentRepo.On("GetByBookingID", ctx, int64(42)).Return([]domain.Payment{captured()}, nil)
		f.paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)
		f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		payment, err := f.svc.RecordRefund(ctx, 42, 10000)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPartiallyRefunded, payment.Status)
		assert.Equal(t, int64(10000), payment.RefundAmountCents)
		// A REFUND-type row is written alongside the status change.
		f.paymentRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Refunds accumulate to fully refunded", func(t *testing.T) {
		f := newPaymentFixture(false)
		p := captured()
		p.Status = domain.PaymentStatusPartiallyRefunded
		p.RefundAmountCents = 30000
		f.paymentRepo.On("GetByBookingID", ctx, int64(42)).Return([]domain.Payment{p}, nil)
		f.paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)
		f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		payment, err := f.svc.RecordRefund(ctx, 42, 8600)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunded, payment.Status)
		assert.Equal(t, int64(38600), payment.RefundAmountCents)
	})

	t.Run("Refund beyond the charge is refused", func(t *testing.T) {
		f := newPaymentFixture(false)
		p := captured()
		p.Status = domain.PaymentStatusPartiallyRefunded
		p.RefundAmountCents = 30000
		f.paymentRepo.On("GetByBookingID", ctx, int64(42)).Return([]domain.Payment{p}, nil)

		_, err := f.svc.RecordRefund(ctx, 42, 20000)
		assert.True(t, domain.IsKind(err, domain.KindRefundExceedsAmount))
		f.paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("No captured payment", func(t *testing.T) {
		f := newPaymentFixture(false)
		failed := captured()
		failed.Status = domain.PaymentStatusFailed
		f.paymentRepo.On("GetByBookingID", ctx, int64(42)).Return([]domain.Payment{failed}, nil)

		_, err := f.svc.RecordRefund(ctx, 42, 10000)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	t.Run("Refund rows are never the refund target", func(t *testing.T) {
		f := newPaymentFixture(false)
		refundRow := domain.Payment{
			ID:          10,
			BookingID:   42,
			AmountCents: 5000,
			PaymentType: domain.PaymentTypeRefund,
			Status:      domain.PaymentStatusSucceeded,
		}
		f.paymentRepo.On("GetByBookingID", ctx, int64(42)).
			Return([]domain.Payment{refundRow, captured()}, nil)
		f.paymentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)
		f.paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		payment, err := f.svc.RecordRefund(ctx, 42, 10000)
		assert.NoError(t, err)
		assert.Equal(t, int64(9), payment.ID)
	})

	t.Run("Non-positive amount is rejected", func(t *testing.T) {
		f := newPaymentFixture(false)
		_, err := f.svc.RecordRefund(ctx, 42, 0)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

// refundLedgerRepo is a stateful stand-in whose reads always reflect the
// latest write, so refund interleavings show through.
type refundLedgerRepo struct {
	mu       sync.Mutex
	captured domain.Payment
	refunds  int
}

func (r *refundLedgerRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.PaymentType == domain.PaymentTypeRefund {
		r.refunds++
	}
	return nil
}

func (r *refundLedgerRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.captured
	return &p, nil
}

func (r *refundLedgerRepo) GetByGatewayID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.captured
	return &p, nil
}

func (r *refundLedgerRepo) GetByBookingID(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return []domain.Payment{r.captured}, nil
}

func (r *refundLedgerRepo) Update(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captured = *p
	return nil
}

func TestPaymentService_RecordRefund_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := &refundLedgerRepo{captured: *pendingPayment()}
	repo.captured.Status = domain.PaymentStatusSucceeded

	svc := service.NewPaymentService(repo, new(MockBookingRepo),
		func(context.Context, int64) error { return nil }, testBookingConfig())

	var mu sync.Mutex
	var succeeded int
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RecordRefund(ctx, 42, 10000); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// 38600 captured: three 10000 refunds fit, every further one must be
	// refused rather than pushing the total past the charge.
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 3, repo.refunds)
	assert.Equal(t, int64(30000), repo.captured.RefundAmountCents)
	assert.Equal(t, domain.PaymentStatusPartiallyRefunded, repo.captured.Status)
}
