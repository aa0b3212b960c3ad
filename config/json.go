package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ezlog-go/ezlog/errs"
	"github.com/ezlog-go/ezlog/format"
)

// jsonDoc mirrors the small key/nonce document ezlog-cli's --config flag
// reads: the decoder needs only enough of a logger's Config to rebuild
// its pipeline, not the full set of runtime options (rotation, retention,
// ...) a live logger carries.
type jsonDoc struct {
	Name        string `json:"name"`
	Compress    string `json:"compress"`
	Cipher      string `json:"cipher"`
	CipherKey   string `json:"key"`   // hex-encoded
	CipherNonce string `json:"nonce"` // hex-encoded
}

// FromJSON parses a decoder-facing config document: the cipher/compress
// kind names and hex-encoded key/nonce needed to rebuild the pipeline
// that produced a given file. Unlike New, this never applies ambient
// defaults for rotation or retention — a decoder never rotates or trims.
func FromJSON(data []byte) (Config, error) {
	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: %w: %v", errs.ErrParse, err)
	}

	c := Config{
		Name:       doc.Name,
		FileSuffix: DefaultFileSuffix,
		MaxSize:    DefaultMaxSize,
	}

	compress, err := parseCompressKind(doc.Compress)
	if err != nil {
		return Config{}, err
	}
	c.Compress = compress

	cipher, err := parseCipherKind(doc.Cipher)
	if err != nil {
		return Config{}, err
	}
	c.Cipher = cipher

	key, err := hex.DecodeString(doc.CipherKey)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w: key is not valid hex: %v", errs.ErrParse, err)
	}
	nonce, err := hex.DecodeString(doc.CipherNonce)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w: nonce is not valid hex: %v", errs.ErrParse, err)
	}
	if len(key) > 0 {
		c.CipherKey = key
	}
	if len(nonce) > 0 {
		c.CipherNonce = nonce
	}

	if cipher != format.CipherNone {
		if err := c.validateCipher(); err != nil {
			return Config{}, err
		}
	}

	return c, nil
}

func parseCompressKind(s string) (format.CompressKind, error) {
	switch s {
	case "", "none":
		return format.CompressNone, nil
	case "zlib":
		return format.CompressZlib, nil
	default:
		return format.CompressUnknown, fmt.Errorf("config: %w: unknown compress kind %q", errs.ErrIllegalArgument, s)
	}
}

func parseCipherKind(s string) (format.CipherKind, error) {
	switch s {
	case "", "none":
		return format.CipherNone, nil
	case "aes128gcm":
		return format.CipherAes128Gcm, nil
	case "aes256gcm":
		return format.CipherAes256Gcm, nil
	case "aes128gcmsiv":
		return format.CipherAes128GcmSiv, nil
	case "aes256gcmsiv":
		return format.CipherAes256GcmSiv, nil
	default:
		return format.CipherUnknown, fmt.Errorf("config: %w: unknown cipher kind %q", errs.ErrIllegalArgument, s)
	}
}
