package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	secretLength = 32 // 32 bytes = 256 bits

	// SecretEncodedLen is the length of every generated secret
	SecretEncodedLen = 43
)

// GenerateSecret generates a random API key secret in URL-safe base64
func GenerateSecret() (string, error) {
	bytes := make([]byte, secretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashSecret derives the stored digest of a secret
func HashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// SecretMatches verifies a secret against its stored digest using constant-time comparison
func SecretMatches(secret, storedHash string) bool {
	actualHash := HashSecret(secret)
	return subtle.ConstantTimeCompare([]byte(actualHash), []byte(storedHash)) == 1
}

// KeyPreview returns a recognisable but non-secret fragment of a secret
func KeyPreview(secret string) string {
	if len(secret) <= 12 {
		return "..."
	}
	return secret[:8] + "..." + secret[len(secret)-4:]
}
