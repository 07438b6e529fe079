package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ai-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error {
	return m.Called(ctx, sessionID, newToken, newExpiry).Error(0)
}
func (m *mockSessionStore) Disable(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) Register(ctx context.Context, uid, email string) error {
	return m.Called(ctx, uid, email).Error(0)
}
func (m *mockRegistry) UpdateLogin(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Add(ctx context.Context, uid string, in domain.NotificationInput) (*domain.Notification, error) {
	args := m.Called(ctx, uid, in)
	n, _ := args.Get(0).(*domain.Notification)
	return n, args.Error(1)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, email, role, sessionID string) (string, error) {
	args := m.Called(userID, email, role, sessionID)
	return args.String(0), args.Error(1)
}

// --- builder ---

type fixture struct {
	users    *mockUserStore
	sessions *mockSessionStore
	registry *mockRegistry
	notifier *mockNotifier
	jwt      *mockJWTSigner
}

func newFixture() *fixture {
	return &fixture{
		users:    &mockUserStore{},
		sessions: &mockSessionStore{},
		registry: &mockRegistry{},
		notifier: &mockNotifier{},
		jwt:      &mockJWTSigner{},
	}
}

func (f *fixture) service(signupEnabled bool, admins ...string) Service {
	return NewService(ServiceDeps{
		UserRepo:        f.users,
		SessionRepo:     f.sessions,
		Registry:        f.registry,
		Notifications:   f.notifier,
		JWTProvider:     f.jwt,
		RefreshTokenDur: 30 * 24 * time.Hour,
		AdminEmails:     admins,
		SignupEnabled:   signupEnabled,
	})
}

func authCode(t *testing.T, err error) string {
	t.Helper()
	var ae *domain.AuthError
	require.True(t, errors.As(err, &ae), "expected AuthError, got %v", err)
	return ae.Code
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- Signup ---

func TestSignup_Disabled(t *testing.T) {
	f := newFixture()
	_, err := f.service(false).Signup(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "secret1"})
	assert.Equal(t, domain.AuthOperationNotAllowed, authCode(t, err))
}

func TestSignup_InvalidEmail(t *testing.T) {
	f := newFixture()
	_, err := f.service(true).Signup(context.Background(), domain.CredentialsRequest{Email: "nope", Password: "secret1"})
	assert.Equal(t, domain.AuthInvalidEmail, authCode(t, err))
}

func TestSignup_WeakPassword(t *testing.T) {
	f := newFixture()
	_, err := f.service(true).Signup(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "12345"})
	assert.Equal(t, domain.AuthWeakPassword, authCode(t, err))
}

func TestSignup_EmailInUse(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Account{UserID: "u1"}, nil)

	_, err := f.service(true).Signup(context.Background(), domain.CredentialsRequest{Email: " A@x.com ", Password: "secret1"})
	assert.Equal(t, domain.AuthEmailAlreadyInUse, authCode(t, err))
}

func TestSignup_StoreDown(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection refused"))

	_, err := f.service(true).Signup(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "secret1"})
	assert.Equal(t, domain.AuthNetworkRequestFailed, authCode(t, err))
}

func TestSignup_Success_RegistersAndWelcomes(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	f.users.On("Put", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Email == "a@x.com" && a.Role == domain.RoleUser && a.Enable &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)
	f.sessions.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	f.jwt.On("Sign", mock.Anything, "a@x.com", domain.RoleUser, mock.Anything).Return("bearer", nil)
	f.registry.On("Register", mock.Anything, mock.Anything, "a@x.com").Return(nil)
	f.notifier.On("Add", mock.Anything, mock.Anything, welcomeNotification).Return(&domain.Notification{}, nil)

	res, err := f.service(true).Signup(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.Bearer)
	assert.Len(t, res.RefreshToken, 64)
	require.NotNil(t, res.Session.Account)
	assert.Equal(t, res.Session.UserID, res.Session.Account.UserID)
	f.registry.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestSignup_AdminEmailGetsAdminRole(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "root@x.com").Return(nil, domain.ErrNotFound)
	f.users.On("Put", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool { return a.Role == domain.RoleAdmin })).Return(nil)
	f.sessions.On("Put", mock.Anything, mock.Anything).Return(nil)
	f.jwt.On("Sign", mock.Anything, "root@x.com", domain.RoleAdmin, mock.Anything).Return("bearer", nil)
	f.registry.On("Register", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(&domain.Notification{}, nil)

	res, err := f.service(true, "Root@X.com").Signup(context.Background(), domain.CredentialsRequest{Email: "root@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, res.Session.Account.IsAdmin())
}

func TestSignup_RegistryFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	f.users.On("Put", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Put", mock.Anything, mock.Anything).Return(nil)
	f.jwt.On("Sign", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("bearer", nil)
	f.registry.On("Register", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	f.notifier.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

	res, err := f.service(true).Signup(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.Bearer)
}

// --- Login ---

func TestLogin_UserNotFound(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	_, err := f.service(true).Login(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "secret1"})
	assert.Equal(t, domain.AuthUserNotFound, authCode(t, err))
}

func TestLogin_Disabled(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Account{UserID: "u1", Enable: false}, nil)

	_, err := f.service(true).Login(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "secret1"})
	assert.Equal(t, domain.AuthUserDisabled, authCode(t, err))
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Account{UserID: "u1", Enable: true, PasswordHash: hashed(t, "secret1")}, nil)

	_, err := f.service(true).Login(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "wrong!!"})
	assert.Equal(t, domain.AuthWrongPassword, authCode(t, err))
}

func TestLogin_Success_UpdatesLastLogin(t *testing.T) {
	f := newFixture()
	acct := &domain.Account{UserID: "u1", Email: "a@x.com", Role: domain.RoleUser, Enable: true, PasswordHash: hashed(t, "secret1")}
	f.users.On("GetByEmail", mock.Anything, "a@x.com").Return(acct, nil)
	f.sessions.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool { return s.UserID == "u1" && s.Enable })).Return(nil)
	f.jwt.On("Sign", "u1", "a@x.com", domain.RoleUser, mock.Anything).Return("bearer", nil)
	f.registry.On("UpdateLogin", mock.Anything, "u1").Return(nil)

	res, err := f.service(true).Login(context.Background(), domain.CredentialsRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.Bearer)
	f.registry.AssertExpectations(t)
}

// --- Logout / Refresh ---

func TestLogout_DisablesSession(t *testing.T) {
	f := newFixture()
	f.sessions.On("Disable", mock.Anything, "s1").Return(nil)

	require.NoError(t, f.service(true).Logout(context.Background(), "s1"))
	f.sessions.AssertExpectations(t)
}

func TestLogout_NoSession(t *testing.T) {
	err := newFixture().service(true).Logout(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_Expired(t *testing.T) {
	f := newFixture()
	f.sessions.On("GetByRefreshToken", mock.Anything, "rt").Return(&domain.Session{SessionID: "s1", RefreshExpiresAt: time.Now().Add(-time.Hour).Unix()}, nil)

	_, _, err := f.service(true).Refresh(context.Background(), "rt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_Unknown(t *testing.T) {
	f := newFixture()
	f.sessions.On("GetByRefreshToken", mock.Anything, "rt").Return(nil, domain.ErrNotFound)

	_, _, err := f.service(true).Refresh(context.Background(), "rt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newFixture()
	f.sessions.On("GetByRefreshToken", mock.Anything, "rt").Return(&domain.Session{SessionID: "s1", UserID: "u1", RefreshExpiresAt: time.Now().Add(time.Hour).Unix()}, nil)
	f.users.On("Get", mock.Anything, "u1").Return(&domain.Account{UserID: "u1", Email: "a@x.com", Role: domain.RoleUser, Enable: true}, nil)
	f.sessions.On("RotateRefreshToken", mock.Anything, "s1", mock.AnythingOfType("string"), mock.AnythingOfType("int64")).Return(nil)
	f.jwt.On("Sign", "u1", "a@x.com", domain.RoleUser, "s1").Return("bearer2", nil)

	bearer, newToken, err := f.service(true).Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "bearer2", bearer)
	assert.NotEqual(t, "rt", newToken)
	assert.Len(t, newToken, 64)
}
