package postgres

import (
	"context"
	"database/sql"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type availabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

const availabilityColumns = `property_id, date, is_available, price_cents, min_stay, max_stay,
	instant_book, check_in_allowed, check_out_allowed, blocked_reason`

func (r *availabilityRepository) GetRange(ctx context.Context, propertyID int64, start, end time.Time) ([]domain.AvailabilityDay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+availabilityColumns+` FROM availability_days
		 WHERE property_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date ASC`,
		propertyID, start, end,
	)
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "load availability range")
	}
	defer rows.Close()

	var days []domain.AvailabilityDay
	for rows.Next() {
		var d domain.AvailabilityDay
		err := rows.Scan(&d.PropertyID, &d.Date, &d.IsAvailable, &d.PriceCents, &d.MinStay, &d.MaxStay,
			&d.InstantBook, &d.CheckInAllowed, &d.CheckOutAllowed, &d.BlockedReason)
		if err != nil {
			return nil, domain.Wrap(domain.KindSystem, err, "scan availability day")
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "iterate availability days")
	}
	return days, nil
}

// Upsert writes one calendar record, keyed by (property_id, date).
func (r *availabilityRepository) Upsert(ctx context.Context, d *domain.AvailabilityDay) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO availability_days (`+availabilityColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (property_id, date) DO UPDATE SET
			is_available = EXCLUDED.is_available,
			price_cents = EXCLUDED.price_cents,
			min_stay = EXCLUDED.min_stay,
			max_stay = EXCLUDED.max_stay,
			instant_book = EXCLUDED.instant_book,
			check_in_allowed = EXCLUDED.check_in_allowed,
			check_out_allowed = EXCLUDED.check_out_allowed,
			blocked_reason = EXCLUDED.blocked_reason`,
		d.PropertyID, d.Date, d.IsAvailable, d.PriceCents, d.MinStay, d.MaxStay,
		d.InstantBook, d.CheckInAllowed, d.CheckOutAllowed, d.BlockedReason,
	)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "upsert availability day")
	}
	return nil
}

// SetAvailability flips the flag for every date in [start, end), creating
// records with the property's default stay bounds where none exist.
// Re-applying the current state is a no-op, not an error.
func (r *availabilityRepository) SetAvailability(ctx context.Context, propertyID int64, start, end time.Time, available bool, reason *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO availability_days (property_id, date, is_available, min_stay, max_stay,
			instant_book, check_in_allowed, check_out_allowed, blocked_reason)
		 SELECT p.id, d::date, $4, p.default_min_stay, p.default_max_stay, false, true, true, $5
		 FROM properties p,
			generate_series($2::date, $3::date - INTERVAL '1 day', INTERVAL '1 day') AS d
		 WHERE p.id = $1
		 ON CONFLICT (property_id, date) DO UPDATE SET
			is_available = EXCLUDED.is_available,
			blocked_reason = EXCLUDED.blocked_reason`,
		propertyID, start, end, available, reason,
	)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "set availability")
	}
	return nil
}
