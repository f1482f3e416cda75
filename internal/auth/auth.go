// Package auth resolves the acting user from a bearer token. Token
// issuance and password handling live in a separate identity service;
// this package only verifies.
package auth

import (
	"errors"
	"fmt"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthenticatedUser is the identity attached to a request after token
// verification.
type AuthenticatedUser struct {
	ID       uuid.UUID
	Username string
	IsAdmin  bool
}

// Claims is the token payload issued by the identity service.
type Claims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Verifier validates HMAC-signed tokens against a shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token string and returns the identity it
// carries. Any parse or signature failure maps to ErrUnauthorized.
func (v *Verifier) Verify(tokenString string) (AuthenticatedUser, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return AuthenticatedUser{}, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return AuthenticatedUser{}, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, errors.New("token subject is not a user id"))
	}

	return AuthenticatedUser{
		ID:       userID,
		Username: claims.Username,
		IsAdmin:  claims.Admin,
	}, nil
}
