package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the dashboard token claims. The dashboard has a single
// shared operator identity; the subject is fixed.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and validates technician dashboard tokens
type TokenManager struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewTokenManager creates a new token manager. When no secret is configured
// a random per-process one is generated; tokens then survive only as long as
// the process, which matches the session model.
func NewTokenManager(secret string, tokenTTL time.Duration) *TokenManager {
	if secret == "" {
		buf := make([]byte, 32)
		rand.Read(buf)
		secret = hex.EncodeToString(buf)
	}
	return &TokenManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// GenerateToken issues a new dashboard token
func (m *TokenManager) GenerateToken() (token string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(m.tokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "technician",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "appointments",
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateToken validates a dashboard token
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// TokenTTL returns the configured token lifetime
func (m *TokenManager) TokenTTL() time.Duration {
	return m.tokenTTL
}
