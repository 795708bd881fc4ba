// Package token issues and verifies signed bearer tokens for the API.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/blogd/internal/model"
)

// TokenType is the scheme reported to clients alongside issued tokens.
const TokenType = "bearer"

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens. Access and refresh tokens use
// distinct keys; expiry is enforced on verification, not only at issue time.
type Issuer struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer constructs an Issuer with the given keys and lifetimes.
func NewIssuer(accessKey, refreshKey []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Access issues an access token for the user.
func (i *Issuer) Access(u *model.User) (string, error) {
	return sign(u, i.accessKey, i.accessTTL)
}

// Refresh issues a refresh token for the user.
func (i *Issuer) Refresh(u *model.User) (string, error) {
	return sign(u, i.refreshKey, i.refreshTTL)
}

// VerifyAccess parses and validates an access token.
func (i *Issuer) VerifyAccess(raw string) (*Claims, error) {
	return verify(raw, i.accessKey)
}

// VerifyRefresh parses and validates a refresh token.
func (i *Issuer) VerifyRefresh(raw string) (*Claims, error) {
	return verify(raw, i.refreshKey)
}

func sign(u *model.User, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(key)
}

func verify(raw string, key []byte) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
