package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/service/audit"
	pkgauth "github.com/pedready/pedready-api/pkg/auth"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uuid.UUID]*model.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *model.User) error {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

type fakeTokenRepo struct {
	tokens map[string]*model.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.Token)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, t *model.Token) error {
	f.tokens[t.Token] = t
	return nil
}

func (f *fakeTokenRepo) GetByToken(ctx context.Context, token string, tokenType string) (*model.Token, error) {
	t, ok := f.tokens[token]
	if !ok || t.Type != tokenType || t.UsedAt != nil {
		return nil, fmt.Errorf("token not found")
	}
	return t, nil
}

func (f *fakeTokenRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	for _, t := range f.tokens {
		if t.ID == id {
			t.UsedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(ctx context.Context, l *model.AuditLog) error { return nil }
func (f *fakeAuditRepo) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}
func (f *fakeAuditRepo) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		ExpiryHours:   1,
	})
	svc := NewService(userRepo, newFakeTokenRepo(), jwtSvc, audit.NewService(&fakeAuditRepo{}))
	return svc, userRepo
}

func registerUser(t *testing.T, svc *Service) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:     "provider@example.org",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Nwosu",
		Role:      "provider",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	user := registerUser(t, svc)

	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	tokens, err := svc.Login(context.Background(), "provider@example.org", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Greater(t, tokens.ExpiresAt, time.Now().Unix())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	registerUser(t, svc)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:     "provider@example.org",
		Password:  "another-password",
		FirstName: "B",
		LastName:  "C",
		Role:      "provider",
	})
	assert.ErrorContains(t, err, "already registered")
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	registerUser(t, svc)

	_, err := svc.Login(context.Background(), "provider@example.org", "wrong")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	svc, userRepo := newTestService()
	user := registerUser(t, svc)

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := svc.Login(context.Background(), user.Email, "wrong")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	}

	assert.Equal(t, model.UserStatusLocked, userRepo.byID[user.ID].Status)

	// Even the correct password is rejected while locked.
	_, err := svc.Login(context.Background(), user.Email, "correct-horse")
	assert.ErrorIs(t, err, model.ErrAccountLocked)
}

func TestLogin_LockoutExpires(t *testing.T) {
	svc, userRepo := newTestService()
	user := registerUser(t, svc)

	stored := userRepo.byID[user.ID]
	stored.Status = model.UserStatusLocked
	stored.LoginAttempts = maxLoginAttempts
	stored.LastLoginAttempt = time.Now().Add(-lockoutDuration - time.Minute)

	tokens, err := svc.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, model.UserStatusActive, userRepo.byID[user.ID].Status)
}

func TestLogin_StoredRefreshTokenMatchesJWTExpiry(t *testing.T) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:             "test-secret",
		RefreshSecret:      "test-refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 2,
	})
	svc := NewService(userRepo, tokenRepo, jwtSvc, audit.NewService(&fakeAuditRepo{}))
	registerUser(t, svc)

	tokens, err := svc.Login(context.Background(), "provider@example.org", "correct-horse")
	require.NoError(t, err)

	stored := tokenRepo.tokens[tokens.RefreshToken]
	require.NotNil(t, stored)

	// The DB row and the JWT share the configured two hour lifetime.
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), stored.ExpiresAt, time.Minute)

	claims, err := jwtSvc.ValidateRefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.WithinDuration(t, stored.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _ := newTestService()
	registerUser(t, svc)

	tokens, err := svc.Login(context.Background(), "provider@example.org", "correct-horse")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The original refresh token is single use.
	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
