package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
)

// Unreserved characters allowed in a code verifier per RFC 7636 section 4.1.
const verifierCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const verifierLength = 64

// GenerateVerifier creates a PKCE code verifier: 64 characters drawn
// uniformly from the unreserved set. Panics if the secure random source is
// unavailable. Running without one is not a recoverable condition.
func GenerateVerifier() string {
	max := big.NewInt(int64(len(verifierCharset)))
	out := make([]byte, verifierLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto: secure random source unavailable: " + err.Error())
		}
		out[i] = verifierCharset[n.Int64()]
	}
	return string(out)
}

// DeriveChallenge computes the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) with padding stripped.
func DeriveChallenge(verifier string) string {
	h := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(h[:])
}
