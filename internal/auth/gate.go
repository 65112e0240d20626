// Package auth gates administrative operations behind a shared password.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

// ErrAccessDenied is returned for a wrong password or an invalid token.
var ErrAccessDenied = errors.New("access denied")

// AccessToken proves a caller passed the password gate.
type AccessToken string

// Gate checks the admin password and issues short-lived access tokens.
type Gate struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewGate hashes the configured password once so it is never compared in
// plain text.
func NewGate(password, secret string, ttl time.Duration) (*Gate, error) {
	if password == "" || secret == "" {
		return nil, errors.New("admin password and token secret are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Gate{passwordHash: hash, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// RequireElevatedAccess exchanges the admin password for a token.
func (g *Gate) RequireElevatedAccess(password string) (AccessToken, error) {
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return "", ErrAccessDenied
	}

	now := g.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
	})
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return AccessToken(signed), nil
}

// Verify checks signature, expiry and subject of token.
func (g *Gate) Verify(token AccessToken) error {
	if token == "" {
		return ErrAccessDenied
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(string(token), claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
		jwt.WithSubject(adminSubject),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}
	if !parsed.Valid {
		return ErrAccessDenied
	}
	return nil
}
