package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateState creates a cryptographically secure CSRF state token:
// 32 random bytes, hex-encoded.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
