package domain

import "time"

// Property is the read model the engine needs about a listing. Catalog
// management lives elsewhere; the engine only reads pricing defaults and the
// host reference.
type Property struct {
	ID              int64     `json:"id"`
	HostID          int64     `json:"host_id"`
	Name            string    `json:"name"`
	BasePriceCents  int64     `json:"base_price_cents"`
	DefaultMinStay  int32     `json:"default_min_stay"`
	DefaultMaxStay  int32     `json:"default_max_stay"`
	MaxGuests       int32     `json:"max_guests"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
