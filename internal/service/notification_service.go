package service

import (
	"context"
	"time"

	"github.com/AdamBeresnev/tourney-api/internal/notification"
	"github.com/AdamBeresnev/tourney-api/internal/store"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationService struct {
	store *store.NotificationStore
}

func NewNotificationService(store *store.NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// Notify records a notification inside the caller's transaction.
func (s *NotificationService) Notify(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, kind notification.Type, content string, data map[string]any) error {
	payload, err := sonic.MarshalString(data)
	if err != nil {
		return errors.Wrap(err, "failed to encode notification data")
	}

	return s.store.CreateNotification(ctx, tx, &notification.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      kind,
		Content:   content,
		Data:      notification.Payload(payload),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	return s.store.GetNotifications(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.store.MarkRead(ctx, id, userID)
}
