package postgres

import (
	"context"
	"database/sql"
	"errors"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	p := &domain.Property{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, host_id, name, base_price_cents, default_min_stay, default_max_stay,
			max_guests, is_active, created_at
		 FROM properties WHERE id = $1`, id,
	).Scan(&p.ID, &p.HostID, &p.Name, &p.BasePriceCents, &p.DefaultMinStay, &p.DefaultMaxStay,
		&p.MaxGuests, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "property %d not found", id)
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "load property")
	}
	return p, nil
}
