package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/afactura/internal/common"
)

const (
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12
	// TagSize is the length of the authentication tag appended by Seal.
	TagSize = 16
)

var (
	// ErrAuthentication is returned by Open for any ciphertext that does not
	// authenticate under the given key and nonce.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidKey is returned by Seal for a key that is not KeySize bytes, such as the zero Key.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidNonce is returned by Seal for a nonce that is not NonceSize bytes.
	ErrInvalidNonce = errors.New("invalid nonce")
)

// NewNonce returns NonceSize fresh random bytes. A nonce must never be
// reused with the same key.
func NewNonce() ([]byte, error) {
	return common.RandomBytes(NonceSize)
}

func newGCM(key Key) (cipher.AEAD, error) {
	if len(key.b) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key.b)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-256-GCM and returns ciphertext with the
// 16-byte tag appended.
func Seal(key Key, nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidNonce, NonceSize, len(nonce))
	}
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aesgcm.Seal(nil, nonce, plaintext, nil), nil
}

// Open authenticates and decrypts ciphertext. Every failure, including a bad
// key, a wrong nonce length or a truncated buffer, is reported as
// ErrAuthentication and no plaintext is returned.
func Open(key Key, nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(ciphertext) < TagSize {
		return nil, ErrAuthentication
	}
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, ErrAuthentication
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
