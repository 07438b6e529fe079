package preference

import (
	"context"
	"fmt"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/pkg/validate"
)

type themeStore interface {
	Get(ctx context.Context, uid string) (string, error)
	Set(ctx context.Context, uid, theme string) error
}

type Service interface {
	Theme(ctx context.Context, uid string) (string, error)
	SetTheme(ctx context.Context, uid string, in domain.ThemeInput) (string, error)
}

type service struct {
	themes themeStore
}

func NewService(themes themeStore) Service {
	return &service{themes: themes}
}

func (s *service) Theme(ctx context.Context, uid string) (string, error) {
	return s.themes.Get(ctx, uid)
}

func (s *service) SetTheme(ctx context.Context, uid string, in domain.ThemeInput) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if err := s.themes.Set(ctx, uid, in.Theme); err != nil {
		return "", err
	}
	return in.Theme, nil
}
