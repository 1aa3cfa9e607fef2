package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLoginKey_Snapshot(t *testing.T) {
	key := DeriveLoginKey([]byte("secret-password"), []byte("fixed-salt"))
	assert.Len(t, key, 32)
	assert.Equal(t, key, DeriveLoginKey([]byte("secret-password"), []byte("fixed-salt")))
	// argon2id, time=1, memory=64 MiB, threads=4
	assert.Equal(t, "9290403300158e19f27e48e7087f7383b03065bf5b25ef23ebc40229616cd8b3", hex.EncodeToString(key))
}

func TestCheckPassword(t *testing.T) {
	salt := []byte("0123456789abcdef0123456789abcdef")
	verifier := MakeVerifier(DeriveLoginKey([]byte("admin1234"), salt))

	assert.True(t, CheckPassword([]byte("admin1234"), salt, verifier))
	assert.False(t, CheckPassword([]byte("admin12345"), salt, verifier))
	assert.False(t, CheckPassword([]byte("admin1234"), []byte("other-salt"), verifier))
}
