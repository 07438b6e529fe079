package localstore

import (
	"context"
	"fmt"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/kv"
)

// ThemeStore keeps a user's light/dark preference.
type ThemeStore struct {
	kv *kv.Adapter
}

func NewThemeStore(a *kv.Adapter) *ThemeStore {
	return &ThemeStore{kv: a}
}

// Get returns the stored theme, light when unset or unrecognised.
func (s *ThemeStore) Get(ctx context.Context, uid string) (string, error) {
	theme, err := kv.Get[string](ctx, s.kv, themeKey(uid))
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	if theme != domain.ThemeDark {
		return domain.ThemeLight, nil
	}
	return theme, nil
}

func (s *ThemeStore) Set(ctx context.Context, uid, theme string) error {
	if err := s.kv.Set(ctx, themeKey(uid), theme); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}
