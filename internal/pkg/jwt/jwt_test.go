package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService(testSecret, "1h", "24h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService(testSecret, "one hour", "24h")
	assert.Error(t, err)

	_, err = NewJWTService(testSecret, "1h", "")
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", "admin", user.RoleAdmin)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Add(59*time.Minute).Unix())

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, "Admin", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestGenerateRefreshToken_Type(t *testing.T) {
	svc := newTestService(t)

	tokenString, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)
	typ, ok := token.Get("type")
	require.True(t, ok)
	assert.Equal(t, TokenTypeRefresh, typ)
}

func TestStreamToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	tokenString, expiresIn, err := svc.GenerateStreamToken("user-42")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateStreamToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestValidateStreamToken_RejectsOtherTokens(t *testing.T) {
	svc := newTestService(t)

	access, _, err := svc.GenerateAccessToken("user-1", "admin", user.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.ValidateStreamToken(access)
	assert.Error(t, err)

	_, err = svc.ValidateStreamToken("not-a-token")
	assert.Error(t, err)

	other, err := NewJWTService("another-secret", "1h", "24h")
	require.NoError(t, err)
	foreign, _, err := other.GenerateStreamToken("user-1")
	require.NoError(t, err)
	_, err = svc.ValidateStreamToken(foreign)
	assert.Error(t, err)
}
