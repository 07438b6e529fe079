package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ai-dashboard/internal/application/auth"
	"github.com/ai-dashboard/internal/application/chat"
	"github.com/ai-dashboard/internal/application/notification"
	"github.com/ai-dashboard/internal/domain"
	jwtinfra "github.com/ai-dashboard/internal/infrastructure/jwt"
	"github.com/ai-dashboard/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Signup(ctx context.Context, req domain.CredentialsRequest) (*auth.Result, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.Result); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Login(ctx context.Context, req domain.CredentialsRequest) (*auth.Result, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.Result); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockAuthSvc) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockAuthSvc) Me(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPromptSvc struct{ mock.Mock }

func (m *mockPromptSvc) Submit(ctx context.Context, uid, text string) (*domain.Prompt, error) {
	args := m.Called(ctx, uid, text)
	if p, _ := args.Get(0).(*domain.Prompt); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPromptSvc) List(ctx context.Context, uid string) ([]domain.Prompt, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).([]domain.Prompt), args.Error(1)
}

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) Add(ctx context.Context, uid string, in domain.NotificationInput) (*domain.Notification, error) {
	args := m.Called(ctx, uid, in)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) Inbox(ctx context.Context, uid string) (*notification.Inbox, error) {
	args := m.Called(ctx, uid)
	if in, _ := args.Get(0).(*notification.Inbox); in != nil {
		return in, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationSvc) MarkRead(ctx context.Context, uid, notificationID string) error {
	return m.Called(ctx, uid, notificationID).Error(0)
}

type mockPreferenceSvc struct{ mock.Mock }

func (m *mockPreferenceSvc) Theme(ctx context.Context, uid string) (string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.Error(1)
}

func (m *mockPreferenceSvc) SetTheme(ctx context.Context, uid string, in domain.ThemeInput) (string, error) {
	args := m.Called(ctx, uid, in)
	return args.String(0), args.Error(1)
}

// fakeChatSvc serves a fixed history and replays it to every subscriber.
type fakeChatSvc struct {
	msgs []domain.ChatMessage
	sent []chat.SendInput
}

func (f *fakeChatSvc) Send(_ context.Context, in chat.SendInput) (*domain.ChatMessage, error) {
	f.sent = append(f.sent, in)
	return &domain.ChatMessage{ID: "m-new", User: "alice", Message: in.Message}, nil
}

func (f *fakeChatSvc) Messages(context.Context) ([]domain.ChatMessage, error) { return f.msgs, nil }

func (f *fakeChatSvc) Subscribe(_ context.Context, fn func([]domain.ChatMessage)) func() {
	fn(f.msgs)
	return func() {}
}

func (f *fakeChatSvc) SeedIfEmpty(context.Context) error { return nil }

// fakeStatsSvc emits a snapshot on start and on every refresh signal.
type fakeStatsSvc struct {
	snap        *domain.AdminSnapshot
	lastRefresh bool
	registry    domain.UserRegistry
	err         error
}

func (f *fakeStatsSvc) Compute(context.Context) (*domain.AdminSnapshot, error) { return f.snap, f.err }

func (f *fakeStatsSvc) Snapshot(_ context.Context, refresh bool) (*domain.AdminSnapshot, error) {
	f.lastRefresh = refresh
	return f.snap, f.err
}

func (f *fakeStatsSvc) Watch(ctx context.Context, _ time.Duration, refresh <-chan struct{}, fn func(*domain.AdminSnapshot, error)) {
	for {
		fn(f.snap, f.err)
		select {
		case <-ctx.Done():
			return
		case <-refresh:
		}
	}
}

func (f *fakeStatsSvc) Registry(context.Context) (domain.UserRegistry, error) {
	return f.registry, f.err
}

// --- helpers ---

func withClaims(r *http.Request, userID, email, role string) *http.Request {
	claims := &jwtinfra.Claims{UserID: userID, Email: email, Role: role, SessionID: "sess1"}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// injectClaims stands in for the auth middleware in stream tests.
func injectClaims(userID, email, role string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next(w, withClaims(r, userID, email, role))
	})
}

func withChiAction(r *http.Request, action string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("action", action)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
