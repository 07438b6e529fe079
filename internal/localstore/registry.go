package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/kv"
)

// Registry is the shared uid -> registration metadata mapping.
type Registry struct {
	kv  *kv.Adapter
	now func() time.Time
}

func NewRegistry(a *kv.Adapter) *Registry {
	return &Registry{kv: a, now: time.Now}
}

// Register records uid with now as both registration and last login.
// An existing entry is overwritten, registration date included.
func (r *Registry) Register(ctx context.Context, uid, email string) error {
	reg, err := r.All(ctx)
	if err != nil {
		return err
	}
	now := r.now().UnixMilli()
	reg[uid] = domain.UserRegistryEntry{
		Email:            email,
		RegistrationDate: now,
		LastLogin:        now,
	}
	if err := r.kv.Set(ctx, RegistryKey, reg); err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

// UpdateLogin bumps lastLogin for a known uid and does nothing otherwise.
func (r *Registry) UpdateLogin(ctx context.Context, uid string) error {
	reg, err := r.All(ctx)
	if err != nil {
		return err
	}
	entry, ok := reg[uid]
	if !ok {
		return nil
	}
	entry.LastLogin = r.now().UnixMilli()
	reg[uid] = entry
	if err := r.kv.Set(ctx, RegistryKey, reg); err != nil {
		return fmt.Errorf("update user login: %w", err)
	}
	return nil
}

func (r *Registry) All(ctx context.Context) (domain.UserRegistry, error) {
	reg, err := kv.Get[domain.UserRegistry](ctx, r.kv, RegistryKey)
	if err != nil {
		return nil, fmt.Errorf("load user registry: %w", err)
	}
	if reg == nil {
		reg = domain.UserRegistry{}
	}
	return reg, nil
}
