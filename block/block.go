// Package block encodes and decodes the self-delimited record frame that
// is concatenated after an ezlog header: a start byte, a size prefix, the
// opaque payload, and an end byte.
//
// Grounded on original_source/ezlog-core/src/decode.rs's resynchronizing
// reader (scan forward for the start byte, then read a version-specific
// size prefix) translated to Go idiom; the V2 varint uses the standard
// library's encoding/binary varint, which is explicitly what spec.md §6
// calls for ("LEB128-style as produced by a standard varint encoder").
package block

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/ezlog-go/ezlog/errs"
	"github.com/ezlog-go/ezlog/events"
	"github.com/ezlog-go/ezlog/format"
)

const (
	// Start is the byte that begins every block.
	Start byte = 0x3B
	// End is the byte that closes every block. A reader treats a mismatch
	// as a non-fatal anomaly (spec §4.2, §9) rather than failing decode.
	End byte = 0x21
)

// Encode frames payload as a V2 block: Start, varint length, payload,
// End. New files must always be written this way — V1's width-selected
// prefix is decode-only (spec §4.5/§9).
func Encode(payload []byte) []byte {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(payload)))

	out := make([]byte, 0, 2+n+len(payload))
	out = append(out, Start)
	out = append(out, lenBuf[:n]...)
	out = append(out, payload...)
	out = append(out, End)

	return out
}

// Len returns the total framed length of a V2-encoded block holding a
// payload of the given size, without allocating — used by readers to
// track where each block starts, which the nonce derivation needs.
func Len(payloadSize int) int {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(payloadSize))

	return 2 + n + payloadSize
}

// DecodeFrom reads one block from r, discarding bytes until Start is
// consumed (this is what lets a reader recover from corruption mid
// stream), then reads the size prefix per version and exactly that many
// payload bytes. The trailing End byte is consumed but a mismatch is
// reported through the event listener rather than failing the decode
// (spec §4.2/§9: lenient reader policy, so partial-file recovery stays
// possible).
//
// A size of 0 is valid and yields an empty, non-nil payload.
func DecodeFrom(r *bufio.Reader, version format.Version) ([]byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == Start {
			break
		}
	}

	size, err := readSize(r, version)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}

	end, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if end != End {
		events.Emit(events.FrameAnomaly, "block end byte mismatch", nil)
	}

	return payload, nil
}

func readSize(r *bufio.Reader, version format.Version) (uint64, error) {
	switch version {
	case format.VersionV1:
		widthByte, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		width := int(widthByte)
		if width != 1 && width != 2 && width != 4 {
			return 0, errs.ErrParse
		}

		buf := make([]byte, width)
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, err
		}

		var size uint64
		for _, bb := range buf {
			size = size<<8 | uint64(bb)
		}

		return size, nil

	default: // V2 and anything else decode-as-current
		size, err := binary.ReadUvarint(r)
		if err != nil {
			return 0, err
		}

		return size, nil
	}
}
