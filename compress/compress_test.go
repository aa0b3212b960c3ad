package compress_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/compress"
	"github.com/ezlog-go/ezlog/format"
)

func TestNoOpCodecRoundTrip(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressNone, format.CompressLevelDefault)
	require.NoError(t, err)

	data := []byte("passthrough")
	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestZlibCodecRoundTrip(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressZlib, format.CompressLevelBest)
	require.NoError(t, err)

	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compressibility")
	compressed, err := codec.Compress(data)
	require.NoError(t, err)
	require.NotEqual(t, data, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestCreateCodecUnknownKind(t *testing.T) {
	_, err := compress.CreateCodec(format.CompressUnknown, format.CompressLevelDefault)
	require.Error(t, err)
}
