package header

import "github.com/ezlog-go/ezlog/internal/hash"

// CipherHash computes the 32-bit fingerprint of a cipher key+nonce pair
// stored in a V2 header (spec §3). A reader whose configured key/nonce
// hash to a different value than the file's header is refused — this is
// the mechanism that keeps a misconfigured reader from feeding garbage
// into an AEAD tag check.
func CipherHash(key, nonce []byte) uint32 {
	buf := make([]byte, 0, len(key)+len(nonce))
	buf = append(buf, key...)
	buf = append(buf, nonce...)

	return uint32(hash.Bytes(buf))
}
