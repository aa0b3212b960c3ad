package compress

import (
	"fmt"

	"github.com/ezlog-go/ezlog/format"
)

// Compressor compresses a block payload.
//
// Memory management: the input slice is never modified. The returned
// slice is owned by the caller but may share the input's backing array
// (NoOpCodec returns its input unchanged).
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a block payload previously produced by the
// matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Every CompressKind has exactly one
// Codec implementation, selected via CreateCodec.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec returns the Codec for the given compression kind and
// level. Level is ignored by NoOpCodec.
func CreateCodec(kind format.CompressKind, level format.CompressLevel) (Codec, error) {
	switch kind {
	case format.CompressNone:
		return NewNoOpCodec(), nil
	case format.CompressZlib:
		return NewZlibCodec(level), nil
	default:
		return nil, fmt.Errorf("compress: unsupported compression kind: %s", kind)
	}
}
