package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateNumericCode returns length random decimal digits, used for the
// emailed sign-in confirmation codes.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	digits := make([]byte, length)
	for i, b := range buf {
		digits[i] = '0' + (b % 10)
	}

	return string(digits), nil
}

// HashToken returns the hex SHA-256 digest of value. Confirmation codes are
// stored digest-only, so a leaked store snapshot holds no usable codes.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// TokenGenerator signs access tokens under a fixed key id.
type TokenGenerator struct {
	keyProvider KeyProvider
	kid         string
}

// NewTokenGenerator creates a new TokenGenerator.
func NewTokenGenerator(keyProvider KeyProvider, kid string) (*TokenGenerator, error) {
	return &TokenGenerator{
		keyProvider: keyProvider,
		kid:         kid,
	}, nil
}

// GetKID returns the key id placed in signed token headers.
func (t *TokenGenerator) GetKID() string {
	return t.kid
}
