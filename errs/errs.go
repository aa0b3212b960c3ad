// Package errs defines the sentinel error taxonomy used across ezlog.
//
// Call sites wrap a sentinel with context via fmt.Errorf("...: %w", ...)
// so callers can still match with errors.Is against the sentinels defined
// here. SizeExceeded and RotateTime are internal signals consumed by the
// logger's retry path (spec: they never surface past the logger package).
package errs

import "errors"

var (
	// ErrIO wraps filesystem or mmap failures.
	ErrIO = errors.New("ezlog: io error")

	// ErrParse marks a malformed header, filename, or block frame.
	ErrParse = errors.New("ezlog: parse error")

	// ErrCrypto marks an AEAD failure: tag mismatch or a key/nonce length
	// that doesn't match the configured cipher suite.
	ErrCrypto = errors.New("ezlog: crypto error")

	// ErrCompress marks a compressor/decompressor failure.
	ErrCompress = errors.New("ezlog: compress error")

	// ErrIllegalArgument marks a misconfigured logger or record, rejected
	// at submission time.
	ErrIllegalArgument = errors.New("ezlog: illegal argument")

	// ErrSizeExceeded signals that a block would not fit in the current
	// file. Internal to the appender/logger retry path.
	ErrSizeExceeded = errors.New("ezlog: size exceeded")

	// ErrRotateTime signals that the current time has passed the file's
	// rotation deadline. Internal to the appender/logger retry path.
	ErrRotateTime = errors.New("ezlog: rotate time exceeded")

	// ErrFFI marks a host-boundary translation failure. Reported only via
	// the event listener; ezlog's Go surface never returns it directly
	// since FFI adapters are out of scope for this core.
	ErrFFI = errors.New("ezlog: ffi error")

	// ErrChannel marks a dispatch command that could not be enqueued
	// because the command channel was full or the core was shut down.
	ErrChannel = errors.New("ezlog: channel error")

	// ErrNotInit marks an operation that requires Init to have run first.
	ErrNotInit = errors.New("ezlog: not initialized")

	// ErrLoggerNotFound marks a Record command addressed to a channel name
	// with no registered logger.
	ErrLoggerNotFound = errors.New("ezlog: logger not found")
)
