package kv

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Adapter stores JSON-encoded values on top of a byte Store.
type Adapter struct {
	store Store
	log   *zap.Logger
}

func NewAdapter(store Store, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{store: store, log: log}
}

// Get decodes the value under key into T. An absent or malformed value
// yields the zero T and no error; only backend failures are returned.
func Get[T any](ctx context.Context, a *Adapter, key string) (T, error) {
	var out T
	raw, err := a.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("kv get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		a.log.Warn("discarding malformed kv value", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, nil
	}
	return out, nil
}

// Set serialises v and overwrites key.
func (a *Adapter) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w", key, err)
	}
	if err := a.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Keys lists every key beginning with prefix.
func (a *Adapter) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := a.store.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("kv keys %s: %w", prefix, err)
	}
	return keys, nil
}
