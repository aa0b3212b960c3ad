package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/compress"
	"github.com/ezlog-go/ezlog/cryptor"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/pipeline"
)

func TestV2RoundTripCompressOnly(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressZlib, format.CompressLevelDefault)
	require.NoError(t, err)

	p, err := pipeline.New(format.VersionV2, codec, nil)
	require.NoError(t, err)

	plaintext := []byte("\n2026-07-30T00:00:00Z INFO app [main:1] hello world, again and again")
	encoded, err := p.Encode(plaintext, 1700000000, 22)
	require.NoError(t, err)

	decoded, err := p.Decode(encoded, 1700000000, 22)
	require.NoError(t, err)
	require.Equal(t, plaintext, decoded)
}

func TestV2RoundTripCompressAndEncrypt(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressZlib, format.CompressLevelDefault)
	require.NoError(t, err)

	key := make([]byte, 16)
	nonce := make([]byte, 12)
	aead, err := cryptor.CreateCryptor(format.CipherAes128Gcm, key, nonce)
	require.NoError(t, err)

	p, err := pipeline.New(format.VersionV2, codec, aead)
	require.NoError(t, err)

	plaintext := []byte("secret formatted record")
	encoded, err := p.Encode(plaintext, 1700000000, 500)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, encoded)

	decoded, err := p.Decode(encoded, 1700000000, 500)
	require.NoError(t, err)
	require.Equal(t, plaintext, decoded)
}

func TestV1IsDecodeOnly(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressNone, format.CompressLevelDefault)
	require.NoError(t, err)

	p, err := pipeline.New(format.VersionV1, codec, nil)
	require.NoError(t, err)

	_, err = p.Encode([]byte("x"), 0, 0)
	require.Error(t, err)
}

func TestV1DecodeOrderIsDecompressThenDecrypt(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressZlib, format.CompressLevelDefault)
	require.NoError(t, err)

	key := make([]byte, 16)
	nonce := make([]byte, 12)
	aead, err := cryptor.CreateCryptor(format.CipherAes128Gcm, key, nonce)
	require.NoError(t, err)

	plaintext := []byte("legacy v1 record content")

	// Build a V1 payload by hand: encrypt(plaintext) then compress(...),
	// matching the legacy format -> encrypt -> compress write order.
	fn := cryptor.NonceFnFor(cryptor.Derive(42, 10))
	encrypted, err := aead.Encrypt(plaintext, fn)
	require.NoError(t, err)
	compressed, err := codec.Compress(encrypted)
	require.NoError(t, err)

	p, err := pipeline.New(format.VersionV1, codec, aead)
	require.NoError(t, err)

	decoded, err := p.Decode(compressed, 42, 10)
	require.NoError(t, err)
	require.Equal(t, plaintext, decoded)
}
