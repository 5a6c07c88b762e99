package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/model"
)

func newTestAuth(audience string) *AuthService {
	return NewAuthService(&config.Config{JWTSecret: "test-secret", JWTAudience: audience})
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuth("authenticated")
	token, err := auth.GenerateToken(model.Identity{ID: "user-1", Email: "Coach@Example.com", RawRole: "admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, model.Identity{ID: "user-1", Email: "coach@example.com", RawRole: "admin"}, claims.Identity())
}

func TestValidateTokenRejections(t *testing.T) {
	auth := newTestAuth("authenticated")
	id := model.Identity{ID: "user-1", Email: "a@example.com"}

	expired, err := auth.GenerateToken(id, -time.Minute)
	require.NoError(t, err)
	otherAudience, err := newTestAuth("other").GenerateToken(id, time.Hour)
	require.NoError(t, err)
	otherSecret, err := NewAuthService(&config.Config{JWTSecret: "nope", JWTAudience: "authenticated"}).GenerateToken(id, time.Hour)
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"aud": "authenticated",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"expired":        expired,
		"other audience": otherAudience,
		"other secret":   otherSecret,
		"alg none":       unsigned,
		"no expiry":      noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ValidateToken(token)
			require.Error(t, err)
		})
	}
}

func TestValidateTokenRequiresSubject(t *testing.T) {
	auth := newTestAuth("authenticated")
	token, err := auth.GenerateToken(model.Identity{Email: "a@example.com"}, time.Hour)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	require.True(t, errors.Is(err, ErrMissingSubject))
}

func TestRoleIsOnlyReadFromAppMetadata(t *testing.T) {
	auth := newTestAuth("")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           "user-1",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"role":          "admin",
		"user_metadata": map[string]any{"role": "admin"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Empty(t, claims.Identity().RawRole)
}
