// Package pwhash derives and validates PBKDF2 password hashes. The stored
// form is "salt$hash", both base64.
package pwhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const keyLen = 32

// PasswordHasher derives password hashes with a per-password random salt.
type PasswordHasher struct {
	saltSize   int
	iterations int
}

// New validates the parameters and returns a hasher.
func New(saltSize, iterations int) (*PasswordHasher, error) {
	if saltSize < 8 {
		return nil, fmt.Errorf("salt size %d is too small", saltSize)
	}
	if iterations < 1000 {
		return nil, fmt.Errorf("iteration count %d is too small", iterations)
	}
	return &PasswordHasher{saltSize: saltSize, iterations: iterations}, nil
}

// HashPassword derives the stored hash form of a password.
func (ph *PasswordHasher) HashPassword(password string) (string, error) {
	salt := make([]byte, ph.saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cannot generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, ph.iterations, keyLen, sha256.New)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" +
		base64.RawStdEncoding.EncodeToString(key), nil
}

// Validate checks a password against its stored hash form.
func (ph *PasswordHasher) Validate(password, stored string) error {
	saltPart, keyPart, ok := strings.Cut(stored, "$")
	if !ok {
		return fmt.Errorf("malformed password hash")
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltPart)
	if err != nil {
		return fmt.Errorf("malformed salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(keyPart)
	if err != nil {
		return fmt.Errorf("malformed hash: %w", err)
	}
	got := pbkdf2.Key([]byte(password), salt, ph.iterations, len(want), sha256.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return fmt.Errorf("password mismatch")
	}
	return nil
}
