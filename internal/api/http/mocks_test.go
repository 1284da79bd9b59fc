package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
)

// MockReservationService
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Reserve(ctx context.Context, req service.ReservationRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockReservationService) ChangeDates(ctx context.Context, bookingID int64, newCheckIn, newCheckOut time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, newCheckIn, newCheckOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
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

// MockPolicyService
type MockPolicyService struct {
	mock.Mock
}

func (m *MockPolicyService) CreatePolicy(ctx context.Context, policy *domain.CancellationPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}
func (m *MockPolicyService) GetPolicy(ctx context.Context, propertyID int64) (*domain.CancellationPolicy, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CancellationPolicy), args.Error(1)
}
func (m *MockPolicyService) IsEligible(policy *domain.CancellationPolicy, daysUntilCheckin int32) bool {
	args := m.Called(policy, daysUntilCheckin)
	return args.Bool(0)
}
func (m *MockPolicyService) CalculateRefund(policy *domain.CancellationPolicy, totalAmountCents int64, daysUntilCheckin int32) int64 {
	args := m.Called(policy, totalAmountCents, daysUntilCheckin)
	return args.Get(0).(int64)
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

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
