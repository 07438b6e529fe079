package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/metrics"
	"github.com/ai-dashboard/internal/pkg/id"
	"github.com/ai-dashboard/internal/pkg/pubsub"
	"go.uber.org/zap"
)

const (
	defaultAvatar   = "👤"
	anonymousSender = "You"
	timeLayout      = "03:04 PM"
)

type chatRepo interface {
	Put(ctx context.Context, m *domain.ChatMessage) error
	List(ctx context.Context, channel string) ([]domain.ChatMessage, error)
	Empty(ctx context.Context, channel string) (bool, error)
}

// SendInput is a chat post. Email identifies the sender for display.
type SendInput struct {
	Email   string
	Message string
}

type Service interface {
	Send(ctx context.Context, in SendInput) (*domain.ChatMessage, error)
	Messages(ctx context.Context) ([]domain.ChatMessage, error)
	// Subscribe calls fn with the full ascending snapshot now and after every
	// write made through Send, until ctx ends or the returned func is called.
	// The returned func blocks until fn has returned for the last time, so it
	// must not be called from inside fn.
	Subscribe(ctx context.Context, fn func([]domain.ChatMessage)) (unsubscribe func())
	SeedIfEmpty(ctx context.Context) error
}

type ServiceDeps struct {
	Repo     chatRepo
	Location *time.Location
	Metrics  metrics.Recorder
	Log      *zap.Logger
}

type service struct {
	repo    chatRepo
	loc     *time.Location
	metrics metrics.Recorder
	log     *zap.Logger
	changes *pubsub.Hub[struct{}]
	now     func() time.Time
}

func NewService(d ServiceDeps) Service {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	m := d.Metrics
	if m == nil {
		m = metrics.Nop()
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:    d.Repo,
		loc:     loc,
		metrics: m,
		log:     log,
		changes: pubsub.NewHub[struct{}](),
		now:     time.Now,
	}
}

func (s *service) Send(ctx context.Context, in SendInput) (*domain.ChatMessage, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, fmt.Errorf("message is empty: %w", domain.ErrBadRequest)
	}
	now := s.now()
	msg := &domain.ChatMessage{
		ID:        id.At(now),
		Channel:   domain.ChatChannel,
		User:      displayName(in.Email),
		Message:   text,
		Time:      now.In(s.loc).Format(timeLayout),
		Avatar:    defaultAvatar,
		Timestamp: now.UnixMilli(),
	}
	if err := s.repo.Put(ctx, msg); err != nil {
		return nil, fmt.Errorf("send chat message: %w", err)
	}
	s.metrics.IncChatMessagesSent()
	s.changes.Publish(struct{}{})
	return msg, nil
}

func (s *service) Messages(ctx context.Context) ([]domain.ChatMessage, error) {
	return s.repo.List(ctx, domain.ChatChannel)
}

func (s *service) Subscribe(ctx context.Context, fn func([]domain.ChatMessage)) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	// Capacity one: a burst of writes while a snapshot is being built
	// collapses into a single follow-up snapshot.
	dirty := make(chan struct{}, 1)
	dirty <- struct{}{}
	unsub := s.changes.Subscribe(func(struct{}) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(done)
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case <-dirty:
			}
			msgs, err := s.repo.List(ctx, domain.ChatChannel)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				s.log.Error("chat snapshot failed", zap.Error(err))
				msgs = []domain.ChatMessage{}
			}
			fn(msgs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

// SeedIfEmpty writes the sample conversation into an empty channel.
func (s *service) SeedIfEmpty(ctx context.Context) error {
	empty, err := s.repo.Empty(ctx, domain.ChatChannel)
	if err != nil {
		return fmt.Errorf("check chat channel: %w", err)
	}
	if !empty {
		return nil
	}
	base := s.now()
	for i, sample := range sampleMessages {
		ts := base.Add(time.Duration(i) * time.Millisecond)
		msg := sample
		msg.ID = id.At(ts)
		msg.Channel = domain.ChatChannel
		msg.Timestamp = ts.UnixMilli()
		if err := s.repo.Put(ctx, &msg); err != nil {
			return fmt.Errorf("seed chat message: %w", err)
		}
	}
	s.log.Info("seeded team chat", zap.Int("messages", len(sampleMessages)))
	s.changes.Publish(struct{}{})
	return nil
}

var sampleMessages = []domain.ChatMessage{
	{User: "Alice Johnson", Message: "Hey team! How's the new AI model performing?", Time: "10:30 AM", Avatar: "👩‍💼"},
	{User: "Bob Smith", Message: "Looking great! Success rate is up 15% this week.", Time: "10:32 AM", Avatar: "👨‍💻"},
	{User: "Carol Davis", Message: "Awesome work everyone! 🚀", Time: "10:35 AM", Avatar: "👩‍🔬"},
}

// displayName is the local part of email, or "You" when there is none.
func displayName(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return anonymousSender
	}
	return local
}
