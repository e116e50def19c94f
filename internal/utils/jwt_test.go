package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	raw, err := NewAccessToken(7, "ADMIN", "test-secret", time.Minute)
	require.NoError(t, err)

	userID, role, err := ParseAccessToken(raw, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
	assert.Equal(t, "ADMIN", role)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	raw, err := NewAccessToken(7, "USER", "test-secret", time.Minute)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(raw, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpired(t *testing.T) {
	raw, err := NewAccessToken(7, "USER", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(raw, "test-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashRefreshTokenDeterministic(t *testing.T) {
	raw, err := NewRefreshToken()
	require.NoError(t, err)
	require.Len(t, raw, 64)

	assert.Equal(t, HashRefreshToken(raw), HashRefreshToken(raw))
	assert.NotEqual(t, raw, HashRefreshToken(raw))
}
