// Package format defines the small, closed value types shared across the
// header, block, compress and cryptor packages: log levels, on-disk
// version tags, and the compression/cipher kind enums that appear in the
// file header.
package format

// Version identifies the on-disk header layout a file was written with.
//
// V1 is decode-only: new files must always be written as V2. Keeping both
// as named constants (rather than a bool) leaves room for a future V3
// without another migration of call sites.
type Version uint8

const (
	// VersionUnknown marks a header whose signature didn't match or whose
	// version byte wasn't recognized. Only signature+version inspection is
	// valid on a header in this state.
	VersionUnknown Version = 0x00
	VersionV1      Version = 0x01
	VersionV2      Version = 0x02
)

func (v Version) String() string {
	switch v {
	case VersionV1:
		return "V1"
	case VersionV2:
		return "V2"
	default:
		return "Unknown"
	}
}

// Level is a totally ordered log level. Lower values are higher priority;
// a record is accepted by a logger iff record.Level <= config.Level.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// CompressKind selects the compression algorithm applied to a block's
// payload after (V1) or before (V2) encryption. The set is closed; see
// compress.CreateCodec for the dispatch table.
type CompressKind uint8

const (
	CompressNone    CompressKind = 0x00
	CompressZlib    CompressKind = 0x01
	CompressUnknown CompressKind = 0xFF
)

func (c CompressKind) String() string {
	switch c {
	case CompressNone:
		return "None"
	case CompressZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

// CompressLevel maps to the three compression effort tiers a Codec may
// honor. Not every Codec uses all three (NoOpCodec ignores it).
type CompressLevel uint8

const (
	CompressLevelFast CompressLevel = iota
	CompressLevelDefault
	CompressLevelBest
)

// CipherKind selects the AEAD suite used to encrypt a block's payload.
// The numeric key/nonce sizes below are invariants enforced by
// config.New and by cryptor.CreateCryptor.
type CipherKind uint8

const (
	CipherNone         CipherKind = 0x00
	CipherAes128Gcm    CipherKind = 0x01
	CipherAes256Gcm    CipherKind = 0x02
	CipherAes128GcmSiv CipherKind = 0x03
	CipherAes256GcmSiv CipherKind = 0x04
	CipherUnknown      CipherKind = 0xFF
)

func (c CipherKind) String() string {
	switch c {
	case CipherNone:
		return "None"
	case CipherAes128Gcm:
		return "Aes128Gcm"
	case CipherAes256Gcm:
		return "Aes256Gcm"
	case CipherAes128GcmSiv:
		return "Aes128GcmSiv"
	case CipherAes256GcmSiv:
		return "Aes256GcmSiv"
	default:
		return "Unknown"
	}
}

// KeySize returns the required cipher key length in bytes for the suite,
// or 0 for CipherNone/CipherUnknown.
func (c CipherKind) KeySize() int {
	switch c {
	case CipherAes128Gcm, CipherAes128GcmSiv:
		return 16
	case CipherAes256Gcm, CipherAes256GcmSiv:
		return 32
	default:
		return 0
	}
}

// NonceSize returns the required nonce length in bytes for the suite, or
// 0 for CipherNone/CipherUnknown. Every supported suite uses a 12-byte
// base nonce; the per-block nonce is derived from it (see cryptor.Derive).
func (c CipherKind) NonceSize() int {
	switch c {
	case CipherAes128Gcm, CipherAes256Gcm, CipherAes128GcmSiv, CipherAes256GcmSiv:
		return 12
	default:
		return 0
	}
}

// IsSiv reports whether the cipher kind is one of the GCM-SIV variants.
func (c CipherKind) IsSiv() bool {
	return c == CipherAes128GcmSiv || c == CipherAes256GcmSiv
}
