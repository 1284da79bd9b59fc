package postgres

import (
	"database/sql"

	"staybook-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.PropertyRepository
	repository.AvailabilityRepository
	repository.BookingRepository
	repository.PolicyRepository
	repository.PaymentRepository
	repository.NotificationRepository
	repository.ContactRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		PropertyRepository:     NewPropertyRepository(db),
		AvailabilityRepository: NewAvailabilityRepository(db),
		BookingRepository:      NewBookingRepository(db),
		PolicyRepository:       NewPolicyRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ContactRepository:      NewContactRepository(db),
	}
}
