// Package header encodes and decodes the fixed-layout prefix of an ezlog
// file: signature, version, flags, recorder position, and the codec kinds
// a reader needs to interpret the blocks that follow.
//
// Grounded directly on arloliu-mebo/section/numeric_header.go's
// Parse/Bytes pair — fixed byte-offset fields read and written with
// encoding/binary, the same shape this package follows for the (simpler,
// always-big-endian) ezlog header.
package header

import (
	"encoding/binary"

	"github.com/ezlog-go/ezlog/errs"
	"github.com/ezlog-go/ezlog/format"
)

// Signature is the two-byte magic every ezlog file starts with.
var Signature = [2]byte{0x65, 0x7A} // "ez"

const (
	// SizeV1 is the encoded size, in bytes, of a V1 header.
	SizeV1 = 10
	// SizeV2 is the encoded size, in bytes, of a V2 header.
	SizeV2 = 22

	// FlagHasExtra marks that the first block in the file is a plaintext
	// "extra" payload rather than a regular formatted record.
	FlagHasExtra uint8 = 0x01
)

// Header is the fixed-prefix metadata for one ezlog file (spec §3).
//
// CreatedAt and CipherHash are zero-valued and unused for V1 — V1 files
// carry no header timestamp; callers must derive the date from the
// filename instead (spec §9).
type Header struct {
	Version     format.Version
	Flags       uint8
	CreatedAt   int64 // unix seconds; V2 only
	RecorderPos uint32
	Compress    format.CompressKind
	Cipher      format.CipherKind
	CipherHash  uint32 // V2 only
}

// New returns a fresh V2 header with RecorderPos set to the V2 header
// length (no records yet) and CreatedAt set to now.
func New(now int64, compress format.CompressKind, cipher format.CipherKind, cipherHash uint32, hasExtra bool) Header {
	h := Header{
		Version:     format.VersionV2,
		CreatedAt:   now,
		RecorderPos: SizeV2,
		Compress:    compress,
		Cipher:      cipher,
		CipherHash:  cipherHash,
	}
	if hasExtra {
		h.Flags |= FlagHasExtra
	}

	return h
}

// HasExtra reports whether the first block in the file is a plaintext
// extra payload.
func (h Header) HasExtra() bool { return h.Flags&FlagHasExtra != 0 }

// Length returns the encoded size of this header for its Version, or 0
// for an unknown/unrecognized version.
func (h Header) Length() int {
	switch h.Version {
	case format.VersionV1:
		return SizeV1
	case format.VersionV2:
		return SizeV2
	default:
		return 0
	}
}

// HasRecord reports whether the file holds at least one record beyond
// this header.
func (h Header) HasRecord() bool {
	return h.RecorderPos > uint32(h.Length())
}

// IsMatch reports whether this header is compatible with cfg's codec
// selection: same version, compress kind, cipher kind, and (for V2)
// cipher hash. A header whose Version is VersionUnknown never matches —
// it is usable only for signature+version inspection (spec §4.1).
func (h Header) IsMatch(version format.Version, compress format.CompressKind, cipher format.CipherKind, cipherHash uint32) bool {
	if h.Version == format.VersionUnknown || h.Version != version {
		return false
	}
	if h.Compress != compress || h.Cipher != cipher {
		return false
	}
	if h.Version == format.VersionV2 && h.CipherHash != cipherHash {
		return false
	}

	return true
}

// Encode writes h in its versioned fixed layout. It returns
// errs.ErrIllegalArgument for an unrecognized version — callers should
// always construct headers via New, which always produces V2.
func Encode(h Header) ([]byte, error) {
	switch h.Version {
	case format.VersionV1:
		return encodeV1(h), nil
	case format.VersionV2:
		return encodeV2(h), nil
	default:
		return nil, errs.ErrIllegalArgument
	}
}

func encodeV1(h Header) []byte {
	b := make([]byte, SizeV1)
	b[0], b[1] = Signature[0], Signature[1]
	b[2] = byte(h.Version)
	b[3] = h.Flags
	binary.BigEndian.PutUint32(b[4:8], h.RecorderPos)
	b[8] = byte(h.Compress)
	b[9] = byte(h.Cipher)

	return b
}

func encodeV2(h Header) []byte {
	b := make([]byte, SizeV2)
	b[0], b[1] = Signature[0], Signature[1]
	b[2] = byte(h.Version)
	b[3] = h.Flags
	binary.BigEndian.PutUint64(b[4:12], uint64(h.CreatedAt))
	binary.BigEndian.PutUint32(b[12:16], h.RecorderPos)
	b[16] = byte(h.Compress)
	b[17] = byte(h.Cipher)
	binary.BigEndian.PutUint32(b[18:22], h.CipherHash)

	return b
}

// Decode reads a header from the start of data. It inspects the
// signature and version first; an unrecognized signature is
// errs.ErrParse, and an unrecognized version yields a Header with
// Version == VersionUnknown (usable only for inspection, per spec §4.1)
// rather than an error, so a caller scanning an unfamiliar file can still
// tell it apart from outright corruption.
func Decode(data []byte) (Header, error) {
	if len(data) < 4 || data[0] != Signature[0] || data[1] != Signature[1] {
		return Header{}, errs.ErrParse
	}

	version := format.Version(data[2])
	flags := data[3]

	switch version {
	case format.VersionV1:
		if len(data) < SizeV1 {
			return Header{}, errs.ErrParse
		}

		return Header{
			Version:     format.VersionV1,
			Flags:       flags,
			RecorderPos: binary.BigEndian.Uint32(data[4:8]),
			Compress:    format.CompressKind(data[8]),
			Cipher:      format.CipherKind(data[9]),
		}, nil
	case format.VersionV2:
		if len(data) < SizeV2 {
			return Header{}, errs.ErrParse
		}

		return Header{
			Version:     format.VersionV2,
			Flags:       flags,
			CreatedAt:   int64(binary.BigEndian.Uint64(data[4:12])),
			RecorderPos: binary.BigEndian.Uint32(data[12:16]),
			Compress:    format.CompressKind(data[16]),
			Cipher:      format.CipherKind(data[17]),
			CipherHash:  binary.BigEndian.Uint32(data[18:22]),
		}, nil
	default:
		return Header{Version: format.VersionUnknown, Flags: flags}, nil
	}
}
