package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "marshal notification attributes")
	}

	n.CreatedAt = time.Now().UTC()
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO notifications (user_id, title, message, is_read, attributes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		n.UserID, n.Title, n.Message, n.IsRead, attrs, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "insert notification")
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return nil, 0, domain.Wrap(domain.KindSystem, err, "count notifications")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, message, is_read, attributes, created_at
		 FROM notifications WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, domain.Wrap(domain.KindSystem, err, "list notifications")
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedAt); err != nil {
			return nil, 0, domain.Wrap(domain.KindSystem, err, "scan notification")
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, domain.Wrap(domain.KindSystem, err, "unmarshal notification attributes")
			}
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Wrap(domain.KindSystem, err, "iterate notifications")
	}
	return notes, count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "mark notification read")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Wrap(domain.KindSystem, err, "mark notification read")
	}
	if n == 0 {
		return domain.E(domain.KindNotFound, "notification %d not found for user %d", id, userID)
	}
	return nil
}
