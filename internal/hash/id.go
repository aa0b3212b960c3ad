// Package hash provides the xxHash64 fingerprint used for a Record's
// diagnostic identity. It is never used for addressing or deduplication,
// only for correlating a record across logs during troubleshooting.
package hash

import "github.com/cespare/xxhash/v2"

// String computes the xxHash64 of a string.
func String(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of a byte slice.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
