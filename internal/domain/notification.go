package domain

import "time"

// Notification is an in-app record of a booking state change, written
// best-effort alongside the email dispatch.
type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Contact is the minimal directory projection the engine needs for
// notification delivery. Account management is an external collaborator.
type Contact struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
