package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	g, err := NewGate("letmein", "signing-secret", time.Minute)
	require.NoError(t, err)
	return g
}

func TestRequireElevatedAccess(t *testing.T) {
	g := newTestGate(t)

	token, err := g.RequireElevatedAccess("letmein")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NoError(t, g.Verify(token))
}

func TestRequireElevatedAccess_WrongPassword(t *testing.T) {
	g := newTestGate(t)

	token, err := g.RequireElevatedAccess("guess")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, token)
}

func TestVerify_Expired(t *testing.T) {
	g := newTestGate(t)
	token, err := g.RequireElevatedAccess("letmein")
	require.NoError(t, err)

	g.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.ErrorIs(t, g.Verify(token), ErrAccessDenied)
}

func TestVerify_Rejects(t *testing.T) {
	g := newTestGate(t)

	other, err := NewGate("letmein", "another-secret", time.Minute)
	require.NoError(t, err)
	foreign, err := other.RequireElevatedAccess("letmein")
	require.NoError(t, err)

	wrongSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "someone",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("signing-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token AccessToken
	}{
		{"empty", ""},
		{"malformed", "not.a.jwt"},
		{"foreign secret", foreign},
		{"wrong subject", AccessToken(wrongSubject)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.Verify(tt.token), ErrAccessDenied)
		})
	}
}

func TestNewGate_RequiresSecrets(t *testing.T) {
	_, err := NewGate("", "s", time.Minute)
	assert.Error(t, err)
	_, err = NewGate("p", "", time.Minute)
	assert.Error(t, err)
}
