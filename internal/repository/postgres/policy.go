package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type policyRepository struct {
	db *sql.DB
}

func NewPolicyRepository(db *sql.DB) repository.PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) Create(ctx context.Context, p *domain.CancellationPolicy) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO cancellation_policies (property_id, policy_type, refund_percentage,
			days_before_checkin, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		p.PropertyID, p.PolicyType, p.RefundPercentage, p.DaysBeforeCheckin, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "insert cancellation policy")
	}
	return nil
}

func (r *policyRepository) GetActiveByProperty(ctx context.Context, propertyID int64) (*domain.CancellationPolicy, error) {
	p := &domain.CancellationPolicy{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, property_id, policy_type, refund_percentage, days_before_checkin, is_active,
			created_at, updated_at
		 FROM cancellation_policies
		 WHERE property_id = $1 AND is_active = true
		 ORDER BY created_at DESC LIMIT 1`,
		propertyID,
	).Scan(&p.ID, &p.PropertyID, &p.PolicyType, &p.RefundPercentage, &p.DaysBeforeCheckin,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "no active cancellation policy for property %d", propertyID)
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "load cancellation policy")
	}
	return p, nil
}
