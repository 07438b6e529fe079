package kv

import (
	"context"

	"github.com/ai-dashboard/internal/domain"
)

// ErrNotFound is returned by Store.Get when the key holds no value.
var ErrNotFound = domain.ErrNotFound

// Store is the byte-level contract every backend implements. Writes
// overwrite; there is no locking, so concurrent writers of the same key
// race and the last one wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
