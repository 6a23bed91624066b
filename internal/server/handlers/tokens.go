package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "fakeicloud"

// SessionClaims представляет JWT claims session token
type SessionClaims struct {
	AppleID   string `json:"apple_id"`
	SessionID string `json:"sid"`
	Trusted   bool   `json:"trusted"`
	jwt.RegisteredClaims
}

// TokenConfig содержит конфигурацию для session и trust токенов
type TokenConfig struct {
	Secret     []byte
	SessionTTL time.Duration
	TrustTTL   time.Duration
}

// IssueSessionToken создает новый JWT session token
func IssueSessionToken(cfg TokenConfig, appleID, sessionID string, trusted bool) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		AppleID:   appleID,
		SessionID: sessionID,
		Trusted:   trusted,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   appleID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateSessionToken валидирует и парсит JWT session token
func ValidateSessionToken(cfg TokenConfig, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GenerateTrustToken создает случайный trust token и срок его действия
func GenerateTrustToken(cfg TokenConfig) (string, time.Time, error) {
	token, err := randomString(32)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(cfg.TrustTTL), nil
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
