package application

import (
	"context"
	"testing"
	"time"

	"github.com/palmbay/storefront/internal/identity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepository 内存用户仓储
type fakeUserRepository struct {
	nextID uint
	users  map[string]*domain.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{nextID: 1, users: make(map[string]*domain.User)}
}

func (r *fakeUserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func newTestAuthService() (*AuthService, *fakeUserRepository) {
	repo := newFakeUserRepository()
	// 测试里用最低成本，避免哈希拖慢用例
	svc := NewAuthService(repo, Config{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	return svc, repo
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), "a@example.com", "s3cret", "Ada", "L")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), "a@example.com", "s3cret", "Ada", "L")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@example.com", "other", "Bob", "M")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginAndVerifyRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), "a@example.com", "s3cret", "Ada", "L")
	require.NoError(t, err)

	token, expiresAt, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), "a@example.com", "s3cret", "Ada", "L")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	svc, repo := newTestAuthService()
	_, err := svc.Register(context.Background(), "a@example.com", "s3cret", "Ada", "L")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	require.NoError(t, err)

	other := NewAuthService(repo, Config{JWTSecret: "different-secret"})
	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestResolverPrefersBearerToken(t *testing.T) {
	svc, _ := newTestAuthService()
	user, err := svc.Register(context.Background(), "a@example.com", "s3cret", "Ada", "L")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "a@example.com", "s3cret")
	require.NoError(t, err)

	resolver := NewResolver(svc)

	// 同时携带会话令牌时，有效的用户令牌优先
	identity, issued := resolver.Resolve("Bearer "+token, "sess-1")
	assert.False(t, issued)
	assert.True(t, identity.IsUser())
	assert.Equal(t, user.ID, identity.UserID)
}

func TestResolverFallsBackToSession(t *testing.T) {
	svc, _ := newTestAuthService()
	resolver := NewResolver(svc)

	identity, issued := resolver.Resolve("Bearer bogus", "sess-1")
	assert.False(t, issued)
	assert.False(t, identity.IsUser())
	assert.Equal(t, "sess-1", identity.SessionID)
}

func TestResolverIssuesNewSession(t *testing.T) {
	svc, _ := newTestAuthService()
	resolver := NewResolver(svc)

	identity, issued := resolver.Resolve("", "")
	assert.True(t, issued)
	assert.False(t, identity.IsUser())
	assert.NotEmpty(t, identity.SessionID)
	assert.True(t, identity.Valid())

	// 第二次携带已签发的令牌，不再新发
	again, issued := resolver.Resolve("", identity.SessionID)
	assert.False(t, issued)
	assert.Equal(t, identity, again)
}
