package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/cache"
	"github.com/pageza/pantrychef/backend/internal/repository"
	"github.com/pageza/pantrychef/backend/internal/testdb"
	"github.com/pageza/pantrychef/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func newAuthService(t *testing.T) (*AuthService, *cache.MemoryStore) {
	t.Helper()
	sessions := cache.NewMemoryStore()
	return NewAuthService(repository.NewUserRepository(testdb.SQLite(t)), sessions, testSecret), sessions
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	user, err := svc.Register(ctx, " Ada ", " Ada@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, err = svc.Register(ctx, "Other", "ADA@example.com", "password456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	short, err := svc.Login(ctx, "ADA@example.com", "password123", false)
	require.NoError(t, err)
	assert.False(t, short.Persistent)
	assert.Equal(t, now.Add(SessionTTL), short.ExpiresAt)
	assert.Equal(t, user.ID, short.User.ID)

	long, err := svc.Login(ctx, "ada@example.com", "password123", true)
	require.NoError(t, err)
	assert.True(t, long.Persistent)
	assert.Equal(t, now.Add(RememberedSessionTTL), long.ExpiresAt)
	assert.NotEqual(t, short.ID, long.ID)

	claims, err := svc.ValidateToken(ctx, long.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, long.ID, claims.SessionID)
}

func TestValidateTokenAfterLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	_, err := svc.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "ada@example.com", "password123", false)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session.ID))

	_, err = svc.ValidateToken(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestValidateTokenRejects(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newAuthService(t)
	user, err := svc.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "ada@example.com", "password123", false)
	require.NoError(t, err)

	sign := func(secret string, method jwt.SigningMethod, claims *types.TokenClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func() *types.TokenClaims {
		return &types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			UserID:           user.ID,
			SessionID:        session.ID,
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	otherUser := valid()
	otherUser.UserID = uuid.New()

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: sign("another-secret", jwt.SigningMethodHS256, valid())},
		{name: "wrong algorithm", token: sign(testSecret, jwt.SigningMethodHS512, valid())},
		{name: "expired", token: sign(testSecret, jwt.SigningMethodHS256, expired)},
		{name: "session of another user", token: sign(testSecret, jwt.SigningMethodHS256, otherUser)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	require.NoError(t, sessions.Delete(ctx, "session:"+session.ID))
	_, err = svc.ValidateToken(ctx, sign(testSecret, jwt.SigningMethodHS256, valid()))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	user, err := svc.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)

	got, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.CurrentUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
