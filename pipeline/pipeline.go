// Package pipeline composes the compress and cryptor transforms applied
// to a formatted record before it becomes a Block payload.
//
// Two fixed orderings exist (spec §4.5): V1 (legacy, decode-only)
// applies format -> encrypt -> compress; V2 (current) applies
// format -> compress -> encrypt. A Pipeline is built once per Logger from
// its config.Config and reused for every record, mirroring the way
// arloliu-mebo wires a single section/numeric_encoder_config.go-derived
// codec across an entire column rather than rebuilding it per value.
package pipeline

import (
	"fmt"

	"github.com/ezlog-go/ezlog/compress"
	"github.com/ezlog-go/ezlog/cryptor"
	"github.com/ezlog-go/ezlog/format"
)

// Pipeline applies a file's configured compress and cipher transforms, in
// the order fixed by version, to a block payload.
type Pipeline struct {
	version format.Version
	codec   compress.Codec
	aead    cryptor.Cryptor // nil when the file is unencrypted
}

// New builds a Pipeline for the given version, codec and (possibly nil)
// cryptor. version must be VersionV1 or VersionV2; any other value is
// rejected since there is no defined transform order for it.
func New(version format.Version, codec compress.Codec, aead cryptor.Cryptor) (*Pipeline, error) {
	if version != format.VersionV1 && version != format.VersionV2 {
		return nil, fmt.Errorf("pipeline: unsupported version %s", version)
	}
	if codec == nil {
		return nil, fmt.Errorf("pipeline: codec must not be nil")
	}

	return &Pipeline{version: version, codec: codec, aead: aead}, nil
}

// Encode transforms a formatted record's bytes into the payload stored
// in a block, for the given file timestamp and recorder position (used
// to derive the AEAD nonce). New files must always be built with a V2
// Pipeline; encoding under V1 is rejected since V1 is decode-only (spec
// §4.5/§9).
func (p *Pipeline) Encode(plaintext []byte, fileTimestamp int64, position uint32) ([]byte, error) {
	if p.version == format.VersionV1 {
		return nil, fmt.Errorf("pipeline: cannot encode under V1, it is decode-only")
	}

	compressed, err := p.codec.Compress(plaintext)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if p.aead == nil {
		return compressed, nil
	}

	fn := cryptor.NonceFnFor(cryptor.Derive(fileTimestamp, position))
	ciphertext, err := p.aead.Encrypt(compressed, fn)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return ciphertext, nil
}

// Decode reverses Encode, applying the inverse transforms in the inverse
// order of whichever ordering produced the payload. V2 payloads are
// encrypt(compress(x)), so decode decrypts then decompresses. V1
// payloads are compress(encrypt(x)) (spec §4.5/§9 — legacy, decode-only),
// so decode decompresses then decrypts.
func (p *Pipeline) Decode(payload []byte, fileTimestamp int64, position uint32) ([]byte, error) {
	fn := cryptor.NonceFnFor(cryptor.Derive(fileTimestamp, position))

	if p.version == format.VersionV1 {
		decompressed, err := p.codec.Decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		if p.aead == nil {
			return decompressed, nil
		}

		plain, err := p.aead.Decrypt(decompressed, fn)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}

		return plain, nil
	}

	data := payload
	if p.aead != nil {
		plain, err := p.aead.Decrypt(data, fn)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		data = plain
	}

	decompressed, err := p.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return decompressed, nil
}
