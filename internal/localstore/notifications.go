package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/kv"
	"github.com/ai-dashboard/internal/pkg/id"
)

// NotificationStore keeps each user's notifications newest first.
type NotificationStore struct {
	kv  *kv.Adapter
	now func() time.Time
}

func NewNotificationStore(a *kv.Adapter) *NotificationStore {
	return &NotificationStore{kv: a, now: time.Now}
}

// Add prepends an unread notification for uid.
func (s *NotificationStore) Add(ctx context.Context, uid string, in domain.NotificationInput) (*domain.Notification, error) {
	list, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	n := domain.Notification{
		ID:        id.At(now),
		Icon:      in.Icon,
		Title:     in.Title,
		Message:   in.Message,
		Timestamp: now.UnixMilli(),
		Read:      false,
	}
	list = append([]domain.Notification{n}, list...)
	if err := s.kv.Set(ctx, notificationKey(uid), list); err != nil {
		return nil, fmt.Errorf("add notification: %w", err)
	}
	return &n, nil
}

func (s *NotificationStore) List(ctx context.Context, uid string) ([]domain.Notification, error) {
	list, err := kv.Get[[]domain.Notification](ctx, s.kv, notificationKey(uid))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return list, nil
}

// MarkRead flags the notification with id as read. Unknown ids are ignored.
func (s *NotificationStore) MarkRead(ctx context.Context, uid, notificationID string) error {
	list, err := s.List(ctx, uid)
	if err != nil {
		return err
	}
	found := false
	for i := range list {
		if list[i].ID == notificationID {
			list[i].Read = true
			found = true
		}
	}
	if !found {
		return nil
	}
	if err := s.kv.Set(ctx, notificationKey(uid), list); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
