package compress

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/ezlog-go/ezlog/format"
)

// ZlibCodec compresses with DEFLATE via klauspost/compress/zlib, a
// drop-in, faster replacement for the standard library's compress/zlib.
// Selected by format.CompressZlib.
type ZlibCodec struct {
	level int
}

var _ Codec = ZlibCodec{}

// NewZlibCodec returns a zlib Codec at the given effort level.
func NewZlibCodec(level format.CompressLevel) ZlibCodec {
	return ZlibCodec{level: toZlibLevel(level)}
}

func toZlibLevel(level format.CompressLevel) int {
	switch level {
	case format.CompressLevelFast:
		return zlib.BestSpeed
	case format.CompressLevelBest:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}

// writerPool pools zlib.Writer instances together with the level each was
// created at; zlib.NewWriterLevel allocates a sizable internal window, so
// reuse across Compress calls matters under logging's high call-rate.
var writerPool sync.Pool

type pooledWriter struct {
	w     *zlib.Writer
	level int
}

// Compress deflates data at the codec's configured level.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	pw, ok := writerPool.Get().(*pooledWriter)
	if !ok || pw.level != c.level {
		w, err := zlib.NewWriterLevel(&buf, c.level)
		if err != nil {
			return nil, err
		}
		pw = &pooledWriter{w: w, level: c.level}
	} else {
		pw.w.Reset(&buf)
	}
	defer writerPool.Put(pw)
	w := pw.w

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress inflates data produced by Compress (or any standard zlib
// stream).
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
