package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"staybook-backend/internal/domain"
)

// MockPropertyRepo
type MockPropertyRepo struct {
	mock.Mock
}

func (m *MockPropertyRepo) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

// MockAvailabilityRepo
type MockAvailabilityRepo struct {
	mock.Mock
}

func (m *MockAvailabilityRepo) GetRange(ctx context.Context, propertyID int64, start, end time.Time) ([]domain.AvailabilityDay, error) {
	args := m.Called(ctx, propertyID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilityDay), args.Error(1)
}
func (m *MockAvailabilityRepo) Upsert(ctx context.Context, day *domain.AvailabilityDay) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}
func (m *MockAvailabilityRepo) SetAvailability(ctx context.Context, propertyID int64, start, end time.Time, available bool, reason *string) error {
	args := m.Called(ctx, propertyID, start, end, available, reason)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateIfFree(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) CountOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID int64) (int, error) {
	args := m.Called(ctx, propertyID, checkIn, checkOut, excludeID)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingRepo) UpdateDatesIfFree(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByGuest(ctx context.Context, guestID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, guestID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByProperty(ctx context.Context, propertyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, propertyID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]int64), args.Error(1)
}

// MockPolicyRepo
type MockPolicyRepo struct {
	mock.Mock
}

func (m *MockPolicyRepo) Create(ctx context.Context, policy *domain.CancellationPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}
func (m *MockPolicyRepo) GetActiveByProperty(ctx context.Context, propertyID int64) (*domain.CancellationPolicy, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CancellationPolicy), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetByGatewayID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetByBookingID(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockContactRepo
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) GetContact(ctx context.Context, userID int64) (*domain.Contact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequested(ctx context.Context, hostEmail, guestName, propertyName, confirmationCode string) error {
	args := m.Called(ctx, hostEmail, guestName, propertyName, confirmationCode)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingConfirmed(ctx context.Context, guestEmail, propertyName, confirmationCode string) error {
	args := m.Called(ctx, guestEmail, propertyName, confirmationCode)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancelled(ctx context.Context, email, propertyName, confirmationCode, reason string, refundCents int64) error {
	args := m.Called(ctx, email, propertyName, confirmationCode, reason, refundCents)
	return args.Error(0)
}
func (m *MockEmailService) SendCheckInWelcome(ctx context.Context, guestEmail, propertyName string) error {
	args := m.Called(ctx, guestEmail, propertyName)
	return args.Error(0)
}

// MockCalendarService
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) GetRange(ctx context.Context, propertyID int64, start, end time.Time) ([]domain.AvailabilityDay, error) {
	args := m.Called(ctx, propertyID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilityDay), args.Error(1)
}
func (m *MockCalendarService) Block(ctx context.Context, propertyID int64, start, end time.Time, reason string) error {
	args := m.Called(ctx, propertyID, start, end, reason)
	return args.Error(0)
}
func (m *MockCalendarService) Unblock(ctx context.Context, propertyID int64, start, end time.Time) error {
	args := m.Called(ctx, propertyID, start, end)
	return args.Error(0)
}
func (m *MockCalendarService) SetPricing(ctx context.Context, day *domain.AvailabilityDay) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}
func (m *MockCalendarService) IsBookable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) error {
	args := m.Called(ctx, propertyID, checkIn, checkOut)
	return args.Error(0)
}
func (m *MockCalendarService) IsInstantBookable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) error {
	args := m.Called(ctx, propertyID, checkIn, checkOut)
	return args.Error(0)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Get(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Confirm(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Cancel(ctx context.Context, bookingID int64, reason string) (*domain.Booking, int64, error) {
	args := m.Called(ctx, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Get(1).(int64), args.Error(2)
}
func (m *MockBookingService) CheckIn(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) CheckOut(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) Complete(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListByGuest(ctx context.Context, guestID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, guestID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingService) ListByProperty(ctx context.Context, propertyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, propertyID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateForBooking(ctx context.Context, b *domain.Booking, gatewayPaymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, b, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ApplyGatewayEvent(ctx context.Context, gatewayPaymentID string, newStatus domain.PaymentStatus, failureReason string) (*domain.Payment, error) {
	args := m.Called(ctx, gatewayPaymentID, newStatus, failureReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) RecordRefund(ctx context.Context, bookingID int64, amountCents int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
