package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, property_id, guest_id, host_id, check_in_date, check_out_date, total_nights,
	guest_count, adults, children, base_amount_cents, cleaning_fee_cents, service_fee_cents,
	tax_amount_cents, total_amount_cents, status, special_requests, cancellation_reason,
	cancelled_at, confirmed_at, check_in_time, check_out_time, confirmation_code, version,
	created_at, updated_at`

// Overlap test over half-open ranges: an existing [c,d) intersects the
// candidate [a,b) iff c < b && a < d. Only occupying statuses hold dates.
const overlapCondition = `status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
	AND check_in_date < $3 AND $2 < check_out_date`

func (r *bookingRepository) CreateIfFree(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "begin reservation transaction")
	}
	defer tx.Rollback()

	// Per-property serialization point for the check-then-insert window.
	// The advisory lock is released when the transaction ends.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, b.PropertyID); err != nil {
		return domain.Wrap(domain.KindSystem, err, "acquire property lock %d", b.PropertyID)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE property_id = $1 AND `+overlapCondition,
		b.PropertyID, b.CheckInDate, b.CheckOutDate,
	).Scan(&count)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "check overlapping bookings")
	}
	if count > 0 {
		return domain.NewOverlapError(b.PropertyID, b.CheckInDate, b.CheckOutDate)
	}

	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Version = 1
	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookings (property_id, guest_id, host_id, check_in_date, check_out_date, total_nights,
			guest_count, adults, children, base_amount_cents, cleaning_fee_cents, service_fee_cents,
			tax_amount_cents, total_amount_cents, status, special_requests, confirmation_code, version,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING id`,
		b.PropertyID, b.GuestID, b.HostID, b.CheckInDate, b.CheckOutDate, b.TotalNights,
		b.GuestCount, b.Adults, b.Children, b.BaseAmountCents, b.CleaningFeeCents, b.ServiceFeeCents,
		b.TaxAmountCents, b.TotalAmountCents, b.Status, b.SpecialRequests, b.ConfirmationCode, b.Version,
		b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "insert booking")
	}

	if err := tx.Commit(); err != nil {
		return domain.Wrap(domain.KindSystem, err, "commit reservation")
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *bookingRepository) GetByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE confirmation_code = $1`, code)
}

func (r *bookingRepository) getOne(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := scanBooking(r.db.QueryRowContext(ctx, query, arg), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.E(domain.KindNotFound, "booking %v not found", arg)
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "load booking")
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, b *domain.Booking) error {
	return row.Scan(
		&b.ID, &b.PropertyID, &b.GuestID, &b.HostID, &b.CheckInDate, &b.CheckOutDate, &b.TotalNights,
		&b.GuestCount, &b.Adults, &b.Children, &b.BaseAmountCents, &b.CleaningFeeCents, &b.ServiceFeeCents,
		&b.TaxAmountCents, &b.TotalAmountCents, &b.Status, &b.SpecialRequests, &b.CancellationReason,
		&b.CancelledAt, &b.ConfirmedAt, &b.CheckInTime, &b.CheckOutTime, &b.ConfirmationCode, &b.Version,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

// Update writes the mutable lifecycle fields, guarded by the version counter.
// Cancellation and payment-driven confirmation can race on the same row; the
// loser sees a stale version and must reload.
func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1, cancellation_reason = $2, cancelled_at = $3, confirmed_at = $4,
			check_in_time = $5, check_out_time = $6, version = version + 1, updated_at = $7
		 WHERE id = $8 AND version = $9`,
		b.Status, b.CancellationReason, b.CancelledAt, b.ConfirmedAt,
		b.CheckInTime, b.CheckOutTime, time.Now().UTC(), b.ID, b.Version,
	)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "update booking %d", b.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "update booking %d", b.ID)
	}
	if n == 0 {
		return domain.E(domain.KindSystem, "booking %d was modified concurrently (version %d)", b.ID, b.Version)
	}
	b.Version++
	return nil
}

func (r *bookingRepository) CountOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE property_id = $1 AND ` + overlapCondition
	args := []any{propertyID, checkIn, checkOut}
	if excludeID != 0 {
		query += ` AND id != $4`
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, domain.Wrap(domain.KindSystem, err, "count overlapping bookings")
	}
	return count, nil
}

func (r *bookingRepository) UpdateDatesIfFree(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "begin date change transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, b.PropertyID); err != nil {
		return domain.Wrap(domain.KindSystem, err, "acquire property lock %d", b.PropertyID)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE property_id = $1 AND `+overlapCondition+` AND id != $4`,
		b.PropertyID, b.CheckInDate, b.CheckOutDate, b.ID,
	).Scan(&count)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "check overlapping bookings")
	}
	if count > 0 {
		return domain.NewOverlapError(b.PropertyID, b.CheckInDate, b.CheckOutDate)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET check_in_date = $1, check_out_date = $2, total_nights = $3,
			base_amount_cents = $4, service_fee_cents = $5, tax_amount_cents = $6, total_amount_cents = $7,
			version = version + 1, updated_at = $8
		 WHERE id = $9 AND version = $10`,
		b.CheckInDate, b.CheckOutDate, b.TotalNights,
		b.BaseAmountCents, b.ServiceFeeCents, b.TaxAmountCents, b.TotalAmountCents,
		time.Now().UTC(), b.ID, b.Version,
	)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "move booking %d", b.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "move booking %d", b.ID)
	}
	if n == 0 {
		return domain.E(domain.KindSystem, "booking %d was modified concurrently (version %d)", b.ID, b.Version)
	}

	if err := tx.Commit(); err != nil {
		return domain.Wrap(domain.KindSystem, err, "commit date change")
	}
	b.Version++
	return nil
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "guest_id", guestID, status, page, pageSize)
}

func (r *bookingRepository) ListByProperty(ctx context.Context, propertyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "property_id", propertyID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, column string, id int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`
	args := []any{id}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, domain.Wrap(domain.KindSystem, err, "count bookings")
	}

	query += fmt.Sprintf(" ORDER BY check_in_date DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.Wrap(domain.KindSystem, err, "list bookings")
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, 0, domain.Wrap(domain.KindSystem, err, "scan booking")
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Wrap(domain.KindSystem, err, "iterate bookings")
	}
	return bookings, count, nil
}

func (r *bookingRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`UPDATE bookings
		 SET status = 'CANCELLED', cancellation_reason = $1, cancelled_at = NOW(),
		     version = version + 1, updated_at = NOW()
		 WHERE status = 'PENDING' AND created_at < $2
		 RETURNING id`,
		domain.CancellationReasonExpired, cutoff,
	)
	if err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "expire pending bookings")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.Wrap(domain.KindSystem, err, "scan expired booking id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Wrap(domain.KindSystem, err, "iterate expired bookings")
	}
	return ids, nil
}
