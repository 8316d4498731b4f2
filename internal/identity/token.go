package identity

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/campushq/school-admin-api/internal/models"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

// TokenVerifier validates access tokens issued by the identity provider and
// extracts the request identity from them.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier constructs a verifier for HS256 tokens signed with the
// shared secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token, returning its claims.
func (v *TokenVerifier) Verify(token string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token missing identity claims")
	}
	return claims, nil
}
