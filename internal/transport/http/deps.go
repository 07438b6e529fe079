package http

import (
	"context"

	"github.com/ai-dashboard/internal/domain"
)

// UserRepository is the minimal interface the router requires from an account store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Disable(ctx context.Context, sessionID string) error
}

// ChatRepository is the minimal interface the router requires from the team chat store.
type ChatRepository interface {
	Put(ctx context.Context, m *domain.ChatMessage) error
	List(ctx context.Context, channel string) ([]domain.ChatMessage, error)
	Empty(ctx context.Context, channel string) (bool, error)
}
