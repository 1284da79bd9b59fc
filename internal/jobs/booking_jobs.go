package jobs

import (
	"context"
	"time"

	"staybook-backend/internal/logger"
)

// ExpireUnconfirmedBookings cancels PENDING bookings that outlived the
// confirmation timeout. The sweep is cooperative: it may run on any cadence,
// and a booking it misses is picked up next round.
func (jr *JobRunner) ExpireUnconfirmedBookings() {
	jr.runWithRecovery("ExpireUnconfirmedBookings", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().Add(-jr.config.Booking.ConfirmationTimeout())

		ids, err := jr.store.ExpirePendingBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to expire unconfirmed bookings", "error", err)
			return
		}

		logger.Info("Expired unconfirmed bookings", "count", len(ids))
		for _, id := range ids {
			logger.Debug("Expired booking", "booking_id", id)
		}
	})
}

// ExpireUnpaidBookings cancels PENDING bookings whose funding payment is
// still unpaid past the payment timeout. Bookings funded out-of-band (no
// payment row) are left to the confirmation sweep.
func (jr *JobRunner) ExpireUnpaidBookings() {
	jr.runWithRecovery("ExpireUnpaidBookings", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().Add(-jr.config.Booking.PaymentTimeout())

		query := `
			UPDATE bookings b
			SET status = 'CANCELLED',
			    cancellation_reason = 'expired',
			    cancelled_at = NOW(),
			    version = version + 1,
			    updated_at = NOW()
			WHERE b.status = 'PENDING'
			  AND b.created_at < $1
			  AND EXISTS (
				SELECT 1 FROM payments p
				WHERE p.booking_id = b.id
				  AND p.payment_type != 'REFUND'
				  AND p.status IN ('PENDING', 'PROCESSING')
			  )
			RETURNING b.id
		`

		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to expire unpaid bookings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				logger.Error("Failed to scan expired booking", "error", err)
				continue
			}
			logger.Debug("Expired unpaid booking", "booking_id", id)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired bookings", "error", err)
			return
		}

		logger.Info("Expired unpaid bookings", "count", count)
	})
}
