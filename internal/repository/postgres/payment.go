package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount_cents, payment_type, status, gateway_payment_id,
	refund_amount_cents, failure_reason, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO payments (booking_id, amount_cents, payment_type, status, gateway_payment_id,
			refund_amount_cents, failure_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		p.BookingID, p.AmountCents, p.PaymentType, p.Status, p.GatewayPaymentID,
		p.RefundAmountCents, p.FailureReason, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "insert payment")
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.PaymentType, &p.Status, &p.GatewayPaymentID,
		&p.RefundAmountCents, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "payment %d not found", id)
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "load payment")
	}
	return p, nil
}

func (r *paymentRepository) GetByGatewayID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE gateway_payment_id = $1`, gatewayPaymentID,
	).Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.PaymentType, &p.Status, &p.GatewayPaymentID,
		&p.RefundAmountCents, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewPaymentNotFoundError(gatewayPaymentID)
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "load payment by gateway id")
	}
	return p, nil
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1 ORDER BY created_at ASC`, bookingID,
	)
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "list payments for booking")
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.PaymentType, &p.Status, &p.GatewayPaymentID,
			&p.RefundAmountCents, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, domain.Wrap(domain.KindSystem, err, "scan payment")
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "iterate payments")
	}
	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = $1, refund_amount_cents = $2, failure_reason = $3, updated_at = $4
		 WHERE id = $5`,
		p.Status, p.RefundAmountCents, p.FailureReason, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "update payment %d", p.ID)
	}
	return nil
}
