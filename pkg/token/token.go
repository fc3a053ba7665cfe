// Package token signs and verifies the cookie value carrying the opaque
// session ID, so a tampered cookie is rejected before the session store is
// consulted.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sign wraps a session ID in a signed JWT for use as a cookie value.
func Sign(secret, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionID,
		"exp": time.Now().Add(time.Hour * 24 * 7).Unix(), // matches session retention
		"iat": time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// Parse verifies a cookie value and returns the session ID it carries.
func Parse(secret, value string) (string, error) {
	t, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return "", fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sessionID, ok := claims["sub"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("token missing session id")
	}
	return sessionID, nil
}
