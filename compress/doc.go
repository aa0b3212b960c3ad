// Package compress provides the compression codecs a Block payload can
// be run through after (V1 pipeline ordering) or before (V2) encryption.
//
// The set is closed to what spec.md names: None and Zlib. The package
// defines three interfaces — Compressor, Decompressor, and the combined
// Codec — mirrored directly from arloliu-mebo/compress/codec.go, and a
// CreateCodec factory dispatching on format.CompressKind.
package compress
