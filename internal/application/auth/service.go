package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/pkg/id"
	pkgtoken "github.com/ai-dashboard/internal/pkg/token"
	"github.com/ai-dashboard/internal/pkg/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// --- narrow interfaces for testability ---

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Disable(ctx context.Context, sessionID string) error
}

type registry interface {
	Register(ctx context.Context, uid, email string) error
	UpdateLogin(ctx context.Context, uid string) error
}

type notifier interface {
	Add(ctx context.Context, uid string, in domain.NotificationInput) (*domain.Notification, error)
}

type tokenSigner interface {
	Sign(userID, email, role, sessionID string) (string, error)
}

type Result struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
}

type Service interface {
	Signup(ctx context.Context, req domain.CredentialsRequest) (*Result, error)
	Login(ctx context.Context, req domain.CredentialsRequest) (*Result, error)
	Logout(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, refreshToken string) (bearer, newRefreshToken string, err error)
	Me(ctx context.Context, userID string) (*domain.Account, error)
}

// ServiceDeps groups the collaborators of the auth service.
type ServiceDeps struct {
	UserRepo        userStore
	SessionRepo     sessionStore
	Registry        registry
	Notifications   notifier
	JWTProvider     tokenSigner
	RefreshTokenDur time.Duration
	AdminEmails     []string
	SignupEnabled   bool
	Log             *zap.Logger
}

type service struct {
	users           userStore
	sessions        sessionStore
	registry        registry
	notifications   notifier
	jwt             tokenSigner
	refreshTokenDur time.Duration
	admins          map[string]struct{}
	signupEnabled   bool
	log             *zap.Logger
	now             func() time.Time
}

func NewService(d ServiceDeps) Service {
	admins := make(map[string]struct{}, len(d.AdminEmails))
	for _, e := range d.AdminEmails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		users:           d.UserRepo,
		sessions:        d.SessionRepo,
		registry:        d.Registry,
		notifications:   d.Notifications,
		jwt:             d.JWTProvider,
		refreshTokenDur: d.RefreshTokenDur,
		admins:          admins,
		signupEnabled:   d.SignupEnabled,
		log:             log,
		now:             time.Now,
	}
}

var welcomeNotification = domain.NotificationInput{
	Icon:    "🎉",
	Title:   "Welcome to AI Dashboard!",
	Message: "Your account is ready. Submit your first prompt to get started.",
}

func (s *service) Signup(ctx context.Context, req domain.CredentialsRequest) (*Result, error) {
	if !s.signupEnabled {
		return nil, domain.NewAuthError(domain.AuthOperationNotAllowed, nil)
	}
	email := normalizeEmail(req.Email)
	if !validate.Email(email) {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail, nil)
	}
	if len(req.Password) < domain.MinPasswordLength {
		return nil, domain.NewAuthError(domain.AuthWeakPassword, nil)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.NewAuthError(domain.AuthEmailAlreadyInUse, nil)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, domain.NewAuthError(domain.AuthNetworkRequestFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	acct := &domain.Account{
		UserID:       id.At(now),
		Email:        email,
		PasswordHash: string(hash),
		Role:         s.roleFor(email),
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, acct); err != nil {
		return nil, domain.NewAuthError(domain.AuthNetworkRequestFailed, err)
	}

	res, err := s.openSession(ctx, acct)
	if err != nil {
		return nil, err
	}

	if err := s.registry.Register(ctx, acct.UserID, acct.Email); err != nil {
		s.log.Warn("failed to register user", zap.String("user_id", acct.UserID), zap.Error(err))
	}
	if _, err := s.notifications.Add(ctx, acct.UserID, welcomeNotification); err != nil {
		s.log.Warn("failed to add welcome notification", zap.String("user_id", acct.UserID), zap.Error(err))
	}
	return res, nil
}

func (s *service) Login(ctx context.Context, req domain.CredentialsRequest) (*Result, error) {
	email := normalizeEmail(req.Email)
	if !validate.Email(email) {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail, nil)
	}
	acct, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewAuthError(domain.AuthUserNotFound, nil)
	}
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthNetworkRequestFailed, err)
	}
	if !acct.Enable {
		return nil, domain.NewAuthError(domain.AuthUserDisabled, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.NewAuthError(domain.AuthWrongPassword, nil)
	}

	res, err := s.openSession(ctx, acct)
	if err != nil {
		return nil, err
	}
	if err := s.registry.UpdateLogin(ctx, acct.UserID); err != nil {
		s.log.Warn("failed to update last login", zap.String("user_id", acct.UserID), zap.Error(err))
	}
	return res, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("no session: %w", domain.ErrUnauthorized)
	}
	return s.sessions.Disable(ctx, sessionID)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	sess, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	if sess.RefreshExpiresAt < s.now().Unix() {
		return "", "", fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	acct, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return "", "", err
	}
	if !acct.Enable {
		return "", "", domain.NewAuthError(domain.AuthUserDisabled, nil)
	}
	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return "", "", err
	}
	newExpiry := s.now().Add(s.refreshTokenDur).Unix()
	if err := s.sessions.RotateRefreshToken(ctx, sess.SessionID, newToken, newExpiry); err != nil {
		return "", "", err
	}
	bearer, err := s.jwt.Sign(acct.UserID, acct.Email, acct.Role, sess.SessionID)
	if err != nil {
		return "", "", err
	}
	return bearer, newToken, nil
}

func (s *service) Me(ctx context.Context, userID string) (*domain.Account, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) openSession(ctx context.Context, acct *domain.Account) (*Result, error) {
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &domain.Session{
		SessionID:        id.At(now),
		UserID:           acct.UserID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, domain.NewAuthError(domain.AuthNetworkRequestFailed, err)
	}
	bearer, err := s.jwt.Sign(acct.UserID, acct.Email, acct.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.Account = acct
	return &Result{Bearer: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

func (s *service) roleFor(email string) string {
	if _, ok := s.admins[email]; ok {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
