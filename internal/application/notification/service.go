package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/metrics"
	"github.com/ai-dashboard/internal/pkg/validate"
)

type notificationStore interface {
	Add(ctx context.Context, uid string, in domain.NotificationInput) (*domain.Notification, error)
	List(ctx context.Context, uid string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, uid, notificationID string) error
}

// Inbox is a user's notifications with the unread badge count.
type Inbox struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

type Service interface {
	Add(ctx context.Context, uid string, in domain.NotificationInput) (*domain.Notification, error)
	Inbox(ctx context.Context, uid string) (*Inbox, error)
	MarkRead(ctx context.Context, uid, notificationID string) error
}

type service struct {
	store   notificationStore
	metrics metrics.Recorder
}

func NewService(store notificationStore, m metrics.Recorder) Service {
	return &service{store: store, metrics: m}
}

func (s *service) Add(ctx context.Context, uid string, in domain.NotificationInput) (*domain.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	n, err := s.store.Add(ctx, uid, in)
	if err != nil {
		return nil, err
	}
	s.metrics.IncNotificationsAdded()
	return n, nil
}

func (s *service) Inbox(ctx context.Context, uid string) (*Inbox, error) {
	list, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	return &Inbox{Notifications: list, UnreadCount: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, uid, notificationID string) error {
	if notificationID == "" {
		return fmt.Errorf("missing notification id: %w", domain.ErrBadRequest)
	}
	return s.store.MarkRead(ctx, uid, notificationID)
}
