package storage

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectToken(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	expires := issued.Add(time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "svc@example.com",
		"uid": "user-42",
		"iat": issued.Unix(),
		"exp": expires.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	info, err := InspectToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "svc@example.com", info.Subject)
	assert.Equal(t, "user-42", info.UID)
	assert.True(t, info.IssuedAt.Equal(issued))
	assert.True(t, info.ExpiresAt.Equal(expires))
	assert.False(t, info.Expired(issued))
	assert.True(t, info.Expired(expires.Add(time.Second)))
}

func TestInspectToken_Opaque(t *testing.T) {
	_, err := InspectToken("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenInfo_NoExpiry(t *testing.T) {
	info := &TokenInfo{}
	assert.False(t, info.Expired(time.Now()))
}
