// ABOUTME: Tests for token redaction and unverified expiry decoding

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact(t *testing.T) {
	assert.Equal(t, "***", Redact("abc"))
	assert.Equal(t, "eyJhbG...", Redact("eyJhbGciOiJIUzI1NiJ9"))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	assert.False(t, Expired(signed, exp.Add(-time.Minute)))
	assert.True(t, Expired(signed, exp.Add(time.Minute)))
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	_, ok := TokenExpiry("abc")
	assert.False(t, ok)
	assert.False(t, Expired("abc", time.Now()))

	_, ok = TokenExpiry("")
	assert.False(t, ok)
}
