package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// LoginSaltSize is the salt length used for login credentials.
const LoginSaltSize = 32

// DeriveLoginKey derives the local login key with argon2id.
func DeriveLoginKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a login key into the value stored on disk.
func MakeVerifier(loginKey []byte) []byte {
	hash := sha256.Sum256(loginKey)
	return hash[:]
}

// CheckPassword reports whether password matches the stored salt/verifier
// pair. The comparison runs in constant time.
func CheckPassword(password, salt, verifier []byte) bool {
	candidate := MakeVerifier(DeriveLoginKey(password, salt))
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
