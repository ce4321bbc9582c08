package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *TokenService {
	return NewTokenService("test-secret")
}

func TestGenerateAndVerify(t *testing.T) {
	s := newTestService()

	token, err := s.Generate("user-1", "alice123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice123", claims.Username)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := newTestService()

	_, err := s.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	other := NewTokenService("other-secret")
	token, err := other.Generate("user-1", "alice123")
	require.NoError(t, err)

	_, err = newTestService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := newTestService()

	claims := Claims{
		UserID:   "user-1",
		Username: "alice123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokedTokenFailsVerify(t *testing.T) {
	s := newTestService()

	token, err := s.Generate("user-1", "alice123")
	require.NoError(t, err)

	// Valid before revocation.
	_, err = s.Verify(token)
	require.NoError(t, err)

	s.Revoke(token)
	assert.True(t, s.IsRevoked(token))

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSweepDropsNaturallyExpiredEntries(t *testing.T) {
	s := newTestService()

	live, err := s.Generate("user-1", "alice123")
	require.NoError(t, err)
	s.Revoke(live)

	s.mu.Lock()
	s.revoked["stale-token"] = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	s.sweep()

	assert.False(t, s.IsRevoked("stale-token"))
	assert.True(t, s.IsRevoked(live))
}
