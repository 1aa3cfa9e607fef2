// Package envelope packs and unpacks the binary backup artifact.
//
// Layout:
//
//	salt (16 bytes) | nonce (12 bytes) | ciphertext with GCM tag (rest)
//
// There are no length prefixes or version bytes. The split points are
// fixed, so any reader needs only the password to restore a file.
package envelope

import (
	"errors"
	"fmt"
)

const (
	SaltSize   = 16
	NonceSize  = 12
	HeaderSize = SaltSize + NonceSize

	// Extension and MIMEType describe backup files on disk.
	Extension = ".enc"
	MIMEType  = "application/octet-stream"
)

// ErrFormat is returned for buffers that cannot be a valid envelope.
var ErrFormat = errors.New("malformed backup envelope")

// Envelope is the parsed form of a backup artifact.
type Envelope struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// Pack concatenates salt, nonce and ciphertext into a new buffer.
func Pack(salt, nonce, ciphertext []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt is %d bytes, want %d", ErrFormat, len(salt), SaltSize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrFormat, len(nonce), NonceSize)
	}

	out := make([]byte, 0, HeaderSize+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Unpack splits buf at the fixed offsets. The returned slices alias buf
// and are capped so appending to one cannot overwrite another.
func Unpack(buf []byte) (Envelope, error) {
	if len(buf) < HeaderSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrFormat, len(buf), HeaderSize)
	}
	return Envelope{
		Salt:       buf[:SaltSize:SaltSize],
		Nonce:      buf[SaltSize:HeaderSize:HeaderSize],
		Ciphertext: buf[HeaderSize:],
	}, nil
}
