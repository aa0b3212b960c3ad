package block_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/block"
	"github.com/ezlog-go/ezlog/format"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("hello ezlog")
	framed := block.Encode(payload)

	require.Equal(t, block.Start, framed[0])
	require.Equal(t, block.End, framed[len(framed)-1])
	require.Equal(t, len(framed), block.Len(len(payload)))

	got, err := block.DecodeFrom(bufio.NewReader(bytes.NewReader(framed)), format.VersionV2)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestEncodeEmptyPayload(t *testing.T) {
	framed := block.Encode(nil)
	got, err := block.DecodeFrom(bufio.NewReader(bytes.NewReader(framed)), format.VersionV2)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeFromSkipsLeadingGarbage(t *testing.T) {
	framed := block.Encode([]byte("payload"))
	withGarbage := append([]byte{0x01, 0x02, 0x03}, framed...)

	got, err := block.DecodeFrom(bufio.NewReader(bytes.NewReader(withGarbage)), format.VersionV2)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
}

func TestDecodeFromLenientOnEndByteMismatch(t *testing.T) {
	framed := block.Encode([]byte("x"))
	framed[len(framed)-1] = 0x00 // corrupt the end byte

	got, err := block.DecodeFrom(bufio.NewReader(bytes.NewReader(framed)), format.VersionV2)
	require.NoError(t, err) // lenient: anomaly reported via events, not failure
	require.Equal(t, []byte("x"), got)
}

func TestDecodeFromV1WidthSelectedSize(t *testing.T) {
	payload := []byte("legacy")
	var buf bytes.Buffer
	buf.WriteByte(block.Start)
	buf.WriteByte(1) // width selector: 1 byte
	buf.WriteByte(byte(len(payload)))
	buf.Write(payload)
	buf.WriteByte(block.End)

	got, err := block.DecodeFrom(bufio.NewReader(&buf), format.VersionV1)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}
