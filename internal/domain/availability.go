package domain

import "time"

// AvailabilityDay is the per-property, per-date calendar record. Days with no
// stored record are treated as available at the property's base price and
// default stay bounds.
type AvailabilityDay struct {
	PropertyID      int64      `json:"property_id"`
	Date            time.Time  `json:"date"`
	IsAvailable     bool       `json:"is_available"`
	PriceCents      *int64     `json:"price_cents,omitempty"`
	MinStay         int32      `json:"min_stay"`
	MaxStay         int32      `json:"max_stay"`
	InstantBook     bool       `json:"instant_book"`
	CheckInAllowed  bool       `json:"check_in_allowed"`
	CheckOutAllowed bool       `json:"check_out_allowed"`
	BlockedReason   *string    `json:"blocked_reason,omitempty"`
}

// Validate enforces the stay-bound invariant on stored records.
func (d *AvailabilityDay) Validate() error {
	if d.MinStay < 1 {
		return NewValidationError("min_stay must be at least 1, got %d", d.MinStay)
	}
	if d.MaxStay < d.MinStay {
		return NewValidationError("max_stay %d must be >= min_stay %d", d.MaxStay, d.MinStay)
	}
	return nil
}
