// Package auth issues and verifies the API keys accepted by the reference
// inventory server. Keys are HMAC-signed JWTs carried in the X-API-Key header.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped into every key.
const Issuer = "liquorlocker"

// Claims are the claims carried by an API key. The registered ID (JTI) is
// what gets revoked.
type Claims struct {
	Label string `json:"label,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAPIKey signs a new key. A zero ttl produces a key that never
// expires.
func GenerateAPIKey(secret, label string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Label: label,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing api key: %w", err)
	}
	return signed, nil
}

// ValidateAPIKey parses and verifies a key, returning its claims.
func ValidateAPIKey(secret, key string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(key, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, fmt.Errorf("parsing api key: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid api key")
	}
	return claims, nil
}

// KeyID extracts the JTI from a key without checking its signature, so that
// keys can be revoked by value from the command line.
func KeyID(key string) (string, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return "", fmt.Errorf("parsing api key: %w", err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("api key has no id")
	}
	return claims.ID, nil
}
