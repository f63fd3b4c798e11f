// internal/common/crypto/crypto_test.go
package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := New(testKey)
	require.NoError(t, err)

	plaintext := "Jane Doe\nSenior Engineer\nPython, Go, Kubernetes"
	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	back, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, back)
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	enc, err := New(testKey)
	require.NoError(t, err)

	a, err := enc.Encrypt("same text")
	require.NoError(t, err)
	b, err := enc.Encrypt("same text")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsTampered(t *testing.T) {
	enc, err := New(testKey)
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("secret")
	require.NoError(t, err)

	tampered := strings.Replace(ciphertext, string(ciphertext[10]), "A", 1)
	if tampered == ciphertext {
		tampered = "B" + ciphertext[1:]
	}
	_, err = enc.Decrypt(tampered)
	assert.Error(t, err)
}

func TestNewRejectsBadKey(t *testing.T) {
	_, err := New("deadbeef")
	assert.Error(t, err)

	_, err = New("not-hex")
	assert.Error(t, err)
}
