// Package config defines a Logger's static configuration: where its
// files live, how big they grow, how long they're kept, and which
// compression/cipher suite protects their contents.
//
// Construction follows the functional-options idiom
// arloliu-mebo/blob/numeric_encoder_config.go uses for its WithXxx
// constructors: Option is a plain func(*Config), since every field here
// is as optional (with a sane default) as that encoder's timestamp/value
// codec choices are.
package config

import (
	"fmt"
	"time"

	"github.com/ezlog-go/ezlog/errs"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/header"
)

// DateFormat is the layout used to render and parse the date segment of
// a log file name.
const DateFormat = "2006_01_02"

const (
	// DefaultFileSuffix is used when WithFileSuffix is not supplied.
	DefaultFileSuffix = "log"
	// DefaultMaxSize is used when WithMaxSize is not supplied or supplies
	// a value below MinSize.
	DefaultMaxSize uint64 = 150 * 1024 * 1024
	// MinSize is the smallest file size Config will accept; anything
	// below it is floored to this value. Matches
	// original_source/ezlog-core/src/lib.rs's MIN_LOG_SIZE rather than
	// some larger round number, so small max_size scenarios (rotation,
	// chunking) stay reproducible instead of being silently clamped away.
	MinSize uint64 = 100
	// DefaultRetention is used when WithRetention is not supplied.
	DefaultRetention = 7 * 24 * time.Hour
	// DefaultRotateDuration is used when WithRotateEvery is not
	// supplied and WithRotateAtMidnight is not set.
	DefaultRotateDuration = 24 * time.Hour
)

// Config is the immutable configuration of one named log stream. Every
// field is set through New and the With* options; the zero Config is not
// valid.
type Config struct {
	Name             string
	DirPath          string
	FileSuffix       string
	MaxSize          uint64
	Retention        time.Duration
	RotateEvery      time.Duration
	RotateAtMidnight bool
	Level            format.Level
	Compress         format.CompressKind
	CompressLevel    format.CompressLevel
	Cipher           format.CipherKind
	CipherKey        []byte
	CipherNonce      []byte
	Extra            []byte
}

// Option configures a Config under construction. Options run in the
// order passed to New; the With* functions in this package build the
// standard ones.
type Option func(*Config)

// New builds a Config for a logger named name, writing files under dir,
// applying opts in order, then filling in defaults and validating the
// result.
func New(name, dir string, opts ...Option) (Config, error) {
	if name == "" {
		return Config{}, fmt.Errorf("config: %w: name must not be empty", errs.ErrIllegalArgument)
	}
	if dir == "" {
		return Config{}, fmt.Errorf("config: %w: dir must not be empty", errs.ErrIllegalArgument)
	}

	c := Config{
		Name:          name,
		DirPath:       dir,
		FileSuffix:    DefaultFileSuffix,
		MaxSize:       DefaultMaxSize,
		Retention:     DefaultRetention,
		RotateEvery:   DefaultRotateDuration,
		Level:         format.LevelTrace,
		Compress:      format.CompressNone,
		CompressLevel: format.CompressLevelDefault,
		Cipher:        format.CipherNone,
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.MaxSize < MinSize {
		c.MaxSize = MinSize
	}
	if uint64(header.SizeV2) >= c.MaxSize {
		return Config{}, fmt.Errorf("config: %w: max_size must exceed the header length", errs.ErrIllegalArgument)
	}

	if err := c.validateCipher(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) validateCipher() error {
	if c.Cipher == format.CipherNone {
		return nil
	}
	if c.Cipher == format.CipherUnknown {
		return fmt.Errorf("config: %w: unknown cipher kind", errs.ErrIllegalArgument)
	}
	if len(c.CipherKey) != c.Cipher.KeySize() {
		return fmt.Errorf("config: %w: %s requires a %d-byte key, got %d",
			errs.ErrIllegalArgument, c.Cipher, c.Cipher.KeySize(), len(c.CipherKey))
	}
	if len(c.CipherNonce) != c.Cipher.NonceSize() {
		return fmt.Errorf("config: %w: %s requires a %d-byte nonce, got %d",
			errs.ErrIllegalArgument, c.Cipher, c.Cipher.NonceSize(), len(c.CipherNonce))
	}

	return nil
}

// WithFileSuffix overrides the default "log" file extension.
func WithFileSuffix(suffix string) Option {
	return func(c *Config) { c.FileSuffix = suffix }
}

// WithMaxSize sets the maximum size, in bytes, a log file may grow to
// before rotation. Values below MinSize are floored there by New.
func WithMaxSize(size uint64) Option {
	return func(c *Config) { c.MaxSize = size }
}

// WithRetention sets how long a rotated file is kept before Trim deletes
// it.
func WithRetention(d time.Duration) Option {
	return func(c *Config) { c.Retention = d }
}

// WithRotateEvery sets the time-based rotation interval, measured from a
// file's header CreatedAt.
func WithRotateEvery(d time.Duration) Option {
	return func(c *Config) { c.RotateEvery = d; c.RotateAtMidnight = false }
}

// WithRotateAtMidnight switches time-based rotation to "at the next UTC
// midnight" instead of a fixed duration, matching the filename's
// one-file-per-calendar-day convention.
func WithRotateAtMidnight() Option {
	return func(c *Config) { c.RotateAtMidnight = true }
}

// WithLevel sets the maximum level a record must be at or above (in
// priority, i.e. <=) to be accepted.
func WithLevel(level format.Level) Option {
	return func(c *Config) { c.Level = level }
}

// WithCompress selects the compression kind and effort level applied to
// every block's payload.
func WithCompress(kind format.CompressKind, level format.CompressLevel) Option {
	return func(c *Config) { c.Compress = kind; c.CompressLevel = level }
}

// WithCipher selects the AEAD suite and its key/nonce. key and nonce must
// satisfy kind.KeySize()/kind.NonceSize(); New returns
// errs.ErrIllegalArgument otherwise.
func WithCipher(kind format.CipherKind, key, nonce []byte) Option {
	return func(c *Config) { c.Cipher = kind; c.CipherKey = key; c.CipherNonce = nonce }
}

// WithExtra attaches a plaintext payload written as the first block of
// every file this Config creates (spec §4.1 FlagHasExtra).
func WithExtra(extra []byte) Option {
	return func(c *Config) { c.Extra = extra }
}

// CipherHash returns the header.CipherHash fingerprint for this config's
// key and nonce, or 0 when no cipher is configured.
func (c Config) CipherHash() uint32 {
	if c.Cipher == format.CipherNone {
		return 0
	}

	return header.CipherHash(c.CipherKey, c.CipherNonce)
}

// WritableSize returns the number of payload bytes available in a file
// governed by this Config, after the V2 header.
func (c Config) WritableSize() uint64 {
	return c.MaxSize - uint64(header.SizeV2)
}
