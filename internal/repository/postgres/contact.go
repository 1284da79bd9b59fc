package postgres

import (
	"context"
	"database/sql"
	"errors"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) GetContact(ctx context.Context, userID int64) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, userID,
	).Scan(&c.UserID, &c.Name, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "user %d not found", userID)
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "load contact")
	}
	return c, nil
}
