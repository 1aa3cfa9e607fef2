// Package backup produces and restores encrypted backups of the record
// store.
//
// A backup file is an envelope (salt, nonce, ciphertext) around the
// AES-256-GCM encryption of the JSON snapshot, under a key derived from the
// user's password with PBKDF2-SHA256. Salt and nonce are drawn fresh for
// every backup, so restoring needs only the file and the password.
package backup

import (
	"fmt"

	"github.com/dmitrijs2005/afactura/internal/cryptox"
	"github.com/dmitrijs2005/afactura/internal/envelope"
)

// Encrypt seals plaintext under a key derived from password and returns
// the packed envelope.
func Encrypt(plaintext, password []byte) ([]byte, error) {
	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}
	nonce, err := cryptox.NewNonce()
	if err != nil {
		return nil, err
	}

	key, err := cryptox.DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	ct, err := cryptox.Seal(key, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	return envelope.Pack(salt, nonce, ct)
}

// Decrypt reverses Encrypt. It fails with envelope.ErrFormat for blobs that
// are too short and cryptox.ErrAuthentication for a wrong password or any
// tampering; no plaintext is returned on failure.
func Decrypt(blob, password []byte) ([]byte, error) {
	env, err := envelope.Unpack(blob)
	if err != nil {
		return nil, err
	}

	key, err := cryptox.DeriveKey(password, env.Salt)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	return cryptox.Open(key, env.Nonce, env.Ciphertext)
}
