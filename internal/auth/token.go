// ABOUTME: Token helpers for display and logging
// ABOUTME: Redacts tokens and reads a JWT expiry without verifying it

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Redact keeps the first 6 characters of a token
func Redact(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "..."
}

// TokenExpiry reads the exp claim of a JWT. The signature is not checked:
// the token stays opaque to the client and this only feeds displays.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether a JWT's exp claim is in the past.
// Opaque tokens are never considered expired.
func Expired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !exp.After(now)
}
