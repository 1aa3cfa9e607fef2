// Package cryptox holds the cryptographic primitives used by afactura:
// password-based key derivation for backups, the AES-256-GCM cipher that
// seals them, and the argon2 verifier used for local login.
//
// Parameters are fixed constants. Nothing here is configurable at runtime.
package cryptox

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/afactura/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2Iterations is the work factor of the backup KDF.
	PBKDF2Iterations = 100000
	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32
	// SaltSize is the length of the per-backup random salt.
	SaltSize = 16
)

// ErrKeyDerivation is returned when a key cannot be derived from the given
// password and salt.
var ErrKeyDerivation = errors.New("key derivation failed")

// Key is a derived 256-bit key. Its bytes never leave this package: the only
// way to use a Key is through Seal and Open.
type Key struct {
	b []byte
}

// IsZero reports whether k holds no key material.
func (k Key) IsZero() bool {
	return len(k.b) == 0
}

// Wipe zeroes the key material in place.
func (k Key) Wipe() {
	common.WipeByteArray(k.b)
}

// NewSalt returns SaltSize fresh random bytes. Call it once per backup.
func NewSalt() ([]byte, error) {
	return common.RandomBytes(SaltSize)
}

// DeriveKey stretches password with PBKDF2-HMAC-SHA256 over salt.
//
// The result is deterministic for a given (password, salt) pair. It fails
// with ErrKeyDerivation when the password is empty or the salt is not
// exactly SaltSize bytes long.
func DeriveKey(password []byte, salt []byte) (Key, error) {
	if len(password) == 0 {
		return Key{}, fmt.Errorf("%w: empty password", ErrKeyDerivation)
	}
	if len(salt) != SaltSize {
		return Key{}, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrKeyDerivation, SaltSize, len(salt))
	}
	return Key{b: derive(password, salt, PBKDF2Iterations)}, nil
}

func derive(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}
