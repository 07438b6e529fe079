package localstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/kv"
	"github.com/ai-dashboard/internal/pkg/id"
)

// PromptStore appends prompts to one array per user.
type PromptStore struct {
	kv  *kv.Adapter
	now func() time.Time
}

func NewPromptStore(a *kv.Adapter) *PromptStore {
	return &PromptStore{kv: a, now: time.Now}
}

// Save appends a prompt for uid. Text is stored as given.
func (s *PromptStore) Save(ctx context.Context, uid, text string) (*domain.Prompt, error) {
	prompts, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := domain.Prompt{
		ID:        id.At(now),
		UID:       uid,
		Prompt:    text,
		Timestamp: now.UnixMilli(),
	}
	prompts = append(prompts, p)
	if err := s.kv.Set(ctx, promptKey(uid), prompts); err != nil {
		return nil, fmt.Errorf("save prompt: %w", err)
	}
	return &p, nil
}

// List returns uid's prompts oldest first, or an empty slice.
func (s *PromptStore) List(ctx context.Context, uid string) ([]domain.Prompt, error) {
	prompts, err := kv.Get[[]domain.Prompt](ctx, s.kv, promptKey(uid))
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	if prompts == nil {
		prompts = []domain.Prompt{}
	}
	return prompts, nil
}

// Collections loads every user's prompt array, keyed by uid.
func (s *PromptStore) Collections(ctx context.Context) (map[string][]domain.Prompt, error) {
	keys, err := s.kv.Keys(ctx, PromptKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("enumerate prompt collections: %w", err)
	}
	out := make(map[string][]domain.Prompt, len(keys))
	for _, k := range keys {
		uid := strings.TrimPrefix(k, PromptKeyPrefix)
		prompts, err := s.List(ctx, uid)
		if err != nil {
			return nil, err
		}
		out[uid] = prompts
	}
	return out, nil
}
