package store

import (
	"context"

	"github.com/AdamBeresnev/tourney-api/internal/notification"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationStore struct {
	db *sqlx.DB
}

func NewNotificationStore(db *sqlx.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) CreateNotification(ctx context.Context, tx *sqlx.Tx, n *notification.Notification) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO notifications (id, user_id, type, content, is_read, data, created_at)
		VALUES (:id, :user_id, :type, :content, :is_read, :data, :created_at)`, n)
	return errors.Wrap(err, "failed to create notification")
}

func (s *NotificationStore) GetNotifications(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	var list []notification.Notification
	err := s.db.SelectContext(ctx, &list, s.db.Rebind("SELECT * FROM notifications WHERE user_id = ? ORDER BY created_at DESC"), userID)
	return list, errors.Wrap(err, "failed to get notifications")
}

// MarkRead only touches notifications addressed to userID.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?"), true, id, userID)
	if err != nil {
		return errors.Wrap(err, "failed to mark notification read")
	}
	return affectedOne(res, "notification")
}
