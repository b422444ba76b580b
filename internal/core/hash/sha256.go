// Package hash implements the password digest used across the accounts API.
//
// The digest is an unsalted SHA-256 hex string. Determinism is load-bearing:
// authentication re-hashes the supplied password and does a straight string
// comparison against the stored digest, and the update path relies on
// Digest(p) == Digest(p) to detect "password unchanged".
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hasher satisfies ports.PasswordHasher.
type SHA256Hasher struct{}

// New returns a ready SHA256Hasher.
func New() SHA256Hasher {
	return SHA256Hasher{}
}

// Digest returns the lowercase hex SHA-256 of plaintext. Always 64 characters.
func (SHA256Hasher) Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
