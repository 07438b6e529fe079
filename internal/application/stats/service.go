package stats

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/cache"
	"github.com/ai-dashboard/internal/infrastructure/metrics"
)

const snapshotCacheKey = "admin:snapshot"

type promptCollections interface {
	Collections(ctx context.Context) (map[string][]domain.Prompt, error)
}

type registryReader interface {
	All(ctx context.Context) (domain.UserRegistry, error)
}

type Service interface {
	// Compute runs a full recompute against storage.
	Compute(ctx context.Context) (*domain.AdminSnapshot, error)
	// Snapshot serves the cached snapshot unless refresh is set or the cache is cold.
	Snapshot(ctx context.Context, refresh bool) (*domain.AdminSnapshot, error)
	// Watch calls fn once immediately, then on every tick of interval and every
	// receive on refresh, until ctx ends. A nil refresh channel is never ready.
	Watch(ctx context.Context, interval time.Duration, refresh <-chan struct{}, fn func(*domain.AdminSnapshot, error))
	Registry(ctx context.Context) (domain.UserRegistry, error)
}

type ServiceDeps struct {
	Prompts           promptCollections
	Registry          registryReader
	Cache             cache.Cache
	Metrics           metrics.Recorder
	Location          *time.Location
	CacheTTL          time.Duration
	SyntheticFallback bool
	Log               *zap.Logger
}

type service struct {
	prompts   promptCollections
	registry  registryReader
	cache     cache.Cache
	metrics   metrics.Recorder
	loc       *time.Location
	ttl       time.Duration
	synthetic bool
	log       *zap.Logger
	now       func() time.Time
}

func NewService(d ServiceDeps) Service {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.Nop()
	}
	c := d.Cache
	if c == nil {
		c = cache.New(0, log)
	}
	return &service{
		prompts:   d.Prompts,
		registry:  d.Registry,
		cache:     c,
		metrics:   m,
		loc:       loc,
		ttl:       d.CacheTTL,
		synthetic: d.SyntheticFallback,
		log:       log,
		now:       time.Now,
	}
}

func (s *service) Compute(ctx context.Context) (*domain.AdminSnapshot, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStatsRecompute(time.Since(start)) }()

	snap, err := s.aggregate(ctx)
	if err != nil {
		if !s.synthetic {
			return nil, err
		}
		s.log.Warn("stats recompute failed, serving synthetic data", zap.Error(err))
		s.metrics.IncSyntheticFallback()
		return syntheticSnapshot(s.now(), s.loc), nil
	}
	return snap, nil
}

func (s *service) aggregate(ctx context.Context) (*domain.AdminSnapshot, error) {
	collections, err := s.prompts.Collections(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := s.registry.All(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(collections, registry, s.now(), s.loc), nil
}

func (s *service) Snapshot(ctx context.Context, refresh bool) (*domain.AdminSnapshot, error) {
	if !refresh {
		if raw, ok := s.cache.Get(snapshotCacheKey); ok {
			var snap domain.AdminSnapshot
			if err := json.Unmarshal(raw, &snap); err == nil {
				s.metrics.IncCacheHits()
				return &snap, nil
			}
			s.cache.Del(snapshotCacheKey)
		}
		s.metrics.IncCacheMisses()
	}
	snap, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	s.store(snap)
	return snap, nil
}

func (s *service) store(snap *domain.AdminSnapshot) {
	if s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn("encode admin snapshot", zap.Error(err))
		return
	}
	s.cache.Set(snapshotCacheKey, raw, s.ttl)
}

func (s *service) Watch(ctx context.Context, interval time.Duration, refresh <-chan struct{}, fn func(*domain.AdminSnapshot, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := s.Compute(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			s.store(snap)
		}
		fn(snap, err)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-refresh:
		}
	}
}

func (s *service) Registry(ctx context.Context) (domain.UserRegistry, error) {
	return s.registry.All(ctx)
}
