package cryptor_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/cryptor"
	"github.com/ezlog-go/ezlog/format"
)

func key(n int) []byte {
	k := make([]byte, n)
	for i := range k {
		k[i] = byte(i + 1)
	}
	return k
}

func TestGCMRoundTrip(t *testing.T) {
	for _, kind := range []format.CipherKind{format.CipherAes128Gcm, format.CipherAes256Gcm} {
		c, err := cryptor.CreateCryptor(kind, key(kind.KeySize()), key(kind.NonceSize()))
		require.NoError(t, err)

		fn := cryptor.NonceFnFor(cryptor.Derive(1700000000, 128))
		plaintext := []byte("a formatted log record")

		ciphertext, err := c.Encrypt(plaintext, fn)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, ciphertext)

		got, err := c.Decrypt(ciphertext, fn)
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestGCMSivRoundTrip(t *testing.T) {
	for _, kind := range []format.CipherKind{format.CipherAes128GcmSiv, format.CipherAes256GcmSiv} {
		c, err := cryptor.CreateCryptor(kind, key(kind.KeySize()), key(kind.NonceSize()))
		require.NoError(t, err)

		fn := cryptor.NonceFnFor(cryptor.Derive(1700000000, 4096))
		plaintext := []byte("a formatted log record spanning more than one AES block of content")

		ciphertext, err := c.Encrypt(plaintext, fn)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, ciphertext)

		got, err := c.Decrypt(ciphertext, fn)
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestGCMSivRejectsTamperedCiphertext(t *testing.T) {
	c, err := cryptor.CreateCryptor(format.CipherAes128GcmSiv, key(16), key(12))
	require.NoError(t, err)

	fn := cryptor.NonceFnFor(cryptor.Derive(1, 1))
	ciphertext, err := c.Encrypt([]byte("hello"), fn)
	require.NoError(t, err)

	ciphertext[0] ^= 0xFF
	_, err = c.Decrypt(ciphertext, fn)
	require.Error(t, err)
}

func TestCreateCryptorNone(t *testing.T) {
	c, err := cryptor.CreateCryptor(format.CipherNone, nil, nil)
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestCreateCryptorRejectsWrongKeySize(t *testing.T) {
	_, err := cryptor.CreateCryptor(format.CipherAes128Gcm, key(10), key(12))
	require.Error(t, err)
}

func TestDerivePerPositionNoncesDiffer(t *testing.T) {
	a := cryptor.Derive(1700000000, 0)
	b := cryptor.Derive(1700000000, 128)
	require.False(t, bytes.Equal(a[:], b[:]))
}
