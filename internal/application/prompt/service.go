package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/metrics"
)

type promptStore interface {
	Save(ctx context.Context, uid, text string) (*domain.Prompt, error)
	List(ctx context.Context, uid string) ([]domain.Prompt, error)
}

type publisher interface {
	Publish(event domain.PromptSaved)
}

type Service interface {
	Submit(ctx context.Context, uid, text string) (*domain.Prompt, error)
	List(ctx context.Context, uid string) ([]domain.Prompt, error)
}

type service struct {
	store   promptStore
	events  publisher
	metrics metrics.Recorder
}

func NewService(store promptStore, events publisher, m metrics.Recorder) Service {
	return &service{store: store, events: events, metrics: m}
}

// Submit trims text and saves it for uid. Blank text or a missing uid is a
// bad request; nothing is written in that case.
func (s *service) Submit(ctx context.Context, uid, text string) (*domain.Prompt, error) {
	if uid == "" {
		return nil, fmt.Errorf("missing user: %w", domain.ErrBadRequest)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("prompt is empty: %w", domain.ErrBadRequest)
	}
	p, err := s.store.Save(ctx, uid, text)
	if err != nil {
		return nil, err
	}
	s.metrics.IncPromptsSaved()
	s.events.Publish(domain.PromptSaved{UID: uid, Prompt: *p})
	return p, nil
}

func (s *service) List(ctx context.Context, uid string) ([]domain.Prompt, error) {
	return s.store.List(ctx, uid)
}
