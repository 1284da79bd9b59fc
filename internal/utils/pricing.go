package utils

import (
	"time"

	"staybook-backend/internal/domain"
)

// QuoteBreakdown is the amount breakdown attached to a booking, in integer
// cents. TotalCents is always the sum of the other four fields.
type QuoteBreakdown struct {
	BaseCents        int64
	CleaningFeeCents int64
	ServiceFeeCents  int64
	TaxCents         int64
	TotalCents       int64
}

// FeeConfig carries the fee parameters for a single quote. Callers usually
// fill it from the booking configuration defaults.
type FeeConfig struct {
	ServiceFeeBps    int32 // service fee as basis points of the base amount
	CleaningFeeCents int64
	TaxRateBps       int32 // tax as basis points of base + fees
}

// RoundHalfUpBps applies a basis-point rate to an amount of cents, rounding
// half-up at cent granularity. Amounts are never negative here.
func RoundHalfUpBps(amountCents int64, bps int32) int64 {
	return (amountCents*int64(bps) + 5000) / 10000
}

// RoundHalfUpPercent applies a whole percentage to an amount of cents,
// rounding half-up.
func RoundHalfUpPercent(amountCents int64, percent int32) int64 {
	return (amountCents*int64(percent) + 50) / 100
}

// ComputeQuote prices a stay. nightly holds one price per night of the stay;
// fees and tax are derived from the configured rates.
func ComputeQuote(nightly []int64, fees FeeConfig) QuoteBreakdown {
	var base int64
	for _, price := range nightly {
		base += price
	}

	serviceFee := RoundHalfUpBps(base, fees.ServiceFeeBps)
	cleaningFee := fees.CleaningFeeCents
	tax := RoundHalfUpBps(base+serviceFee+cleaningFee, fees.TaxRateBps)

	return QuoteBreakdown{
		BaseCents:        base,
		CleaningFeeCents: cleaningFee,
		ServiceFeeCents:  serviceFee,
		TaxCents:         tax,
		TotalCents:       base + cleaningFee + serviceFee + tax,
	}
}

// DateOnly truncates t to midnight UTC. All calendar math in the engine runs
// on date-only values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween returns the number of nights in the half-open range
// [checkIn, checkOut). The checkout day is not occupied.
func NightsBetween(checkIn, checkOut time.Time) int32 {
	return int32(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}

// DaysUntil returns the whole days from now until the given date, negative if
// the date has passed.
func DaysUntil(date, now time.Time) int32 {
	return NightsBetween(now, date)
}

// DatesIn enumerates every date in the half-open range [start, end).
func DatesIn(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := DateOnly(start); d.Before(DateOnly(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// FormatDate renders a date in the engine's wire format.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}
