// Package cryptor provides the AEAD encrypt/decrypt primitives applied to
// a block's payload, and the nonce derivation that makes nonce reuse
// within one file impossible (spec §4.3, §4.4).
//
// The Cryptor interface mirrors compress.Codec's shape — a pair of
// symmetric transforms selected by a closed kind enum through a factory
// function — grounded on arloliu-mebo/compress/codec.go.
package cryptor

import (
	"encoding/binary"
	"fmt"

	"github.com/ezlog-go/ezlog/format"
)

// NonceSize is the length, in bytes, of every supported suite's base
// nonce and derived per-block nonce.
const NonceSize = 12

// NonceFn derives the per-block nonce from the cryptor's configured base
// nonce. It receives that base nonce and returns the 12-byte nonce to
// use for one block's AEAD operation; NonceFnFor returns the concrete
// implementation used in production (XOR against a derivation vector).
type NonceFn func(base [NonceSize]byte) [NonceSize]byte

// Cryptor encrypts and decrypts a block payload under one fixed key. The
// nonce used for each call is produced by fn, never reused by the
// caller (appender) for two different positions in the same file.
type Cryptor interface {
	Encrypt(plaintext []byte, fn NonceFn) ([]byte, error)
	Decrypt(ciphertext []byte, fn NonceFn) ([]byte, error)
}

// CreateCryptor returns the Cryptor for kind, validating key and nonce
// lengths against the suite's requirements (spec §3: 128-bit suites need
// a 16-byte key, 256-bit suites a 32-byte key, every suite a 12-byte
// nonce).
func CreateCryptor(kind format.CipherKind, key, nonce []byte) (Cryptor, error) {
	if kind == format.CipherNone {
		return nil, nil
	}

	if len(key) != kind.KeySize() {
		return nil, fmt.Errorf("cryptor: %s requires a %d-byte key, got %d", kind, kind.KeySize(), len(key))
	}
	if len(nonce) != kind.NonceSize() {
		return nil, fmt.Errorf("cryptor: %s requires a %d-byte nonce, got %d", kind, kind.NonceSize(), len(nonce))
	}

	var baseNonce [NonceSize]byte
	copy(baseNonce[:], nonce)

	switch kind {
	case format.CipherAes128Gcm, format.CipherAes256Gcm:
		return newGCM(key, baseNonce)
	case format.CipherAes128GcmSiv, format.CipherAes256GcmSiv:
		return newGCMSIV(key, baseNonce)
	default:
		return nil, fmt.Errorf("cryptor: unsupported cipher kind: %s", kind)
	}
}

// Derive computes the 12-byte derivation vector for a block at the given
// file timestamp and recorder position (spec §4.4): the low 12 bytes of
// big_endian(timestamp) || big_endian(position).
//
// This is the same "base IV XOR offset" idiom
// AlexanderChiuluvB-badger/memtable.go uses for its value-log entries
// (generateIV: 12-byte base IV plus a big-endian offset), generalized
// here to XOR the full derivation vector against the configured nonce so
// that distinct (timestamp, position) pairs — guaranteed unique within
// one file because position only grows — never collide.
func Derive(timestamp int64, position uint32) [NonceSize]byte {
	var in [16]byte
	binary.BigEndian.PutUint64(in[0:8], uint64(timestamp))
	binary.BigEndian.PutUint32(in[8:12], position)
	// in[12:16] stays zero; only the first 12 bytes are used, per spec.

	var out [NonceSize]byte
	copy(out[:], in[:NonceSize])

	return out
}

// NonceFnFor returns a NonceFn that XORs its input against the given
// derivation vector — the concrete nonce function passed to
// Cryptor.Encrypt/Decrypt.
func NonceFnFor(derivation [NonceSize]byte) NonceFn {
	return func(base [NonceSize]byte) [NonceSize]byte {
		var out [NonceSize]byte
		for i := range out {
			out[i] = base[i] ^ derivation[i]
		}

		return out
	}
}
