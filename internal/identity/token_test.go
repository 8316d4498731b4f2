package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-admin-api/internal/models"
)

func signToken(t *testing.T, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenVerifierValidToken(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	raw := signToken(t, "secret", &models.JWTClaims{
		UserID: "t1",
		Role:   models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{Role: models.RoleTeacher, UserID: "t1"}, claims.Identity())
}

func TestTokenVerifierWrongSecret(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	raw := signToken(t, "other", &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher})

	_, err := verifier.Verify(raw)
	assert.Error(t, err)
}

func TestTokenVerifierExpiredToken(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	raw := signToken(t, "secret", &models.JWTClaims{
		UserID: "t1",
		Role:   models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := verifier.Verify(raw)
	assert.Error(t, err)
}

func TestTokenVerifierMissingIdentityClaims(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	raw := signToken(t, "secret", &models.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.Verify(raw)
	assert.Error(t, err)
}
