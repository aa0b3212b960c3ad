// Package record defines the structured log event ezlog stores, and the
// default formatter that renders one into the line format persisted in a
// Block payload.
//
// Grounded on original_source/ezlog-core/src/recorder.rs for the field
// set; the xxhash-based diagnostic identity is grounded on
// arloliu-mebo/internal/hash's use of xxhash for a stable fingerprint.
package record

import (
	"encoding/binary"
	"time"

	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/internal/hash"
)

// Record is one logical log event, constructed at the call site, copied
// into the dispatch command queue, and discarded after it is appended (or
// dropped).
type Record struct {
	// LogName identifies the destination Logger in the registry.
	LogName string
	Level   format.Level
	Target  string
	// Time is the event time at second precision, UTC.
	Time       time.Time
	ThreadID   uint64
	ThreadName string
	Content    string
	// File and Line are optional call-site source location; Line == 0
	// means "not set".
	File string
	Line int
}

// New constructs a Record with Time set to now (UTC, truncated to the
// second).
func New(logName string, level format.Level, target, content string) Record {
	return Record{
		LogName: logName,
		Level:   level,
		Target:  target,
		Time:    time.Now().UTC().Truncate(time.Second),
		Content: content,
	}
}

// Identity returns a diagnostic fingerprint derived from the record's
// content and timestamp. It is never persisted and never used to address
// or deduplicate records — only to correlate a record across log output
// during troubleshooting (e.g. matching a line in a crash report back to
// the record that produced it).
func (r Record) Identity() uint64 {
	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], uint64(r.Time.Unix()))

	return hash.String(r.Content) ^ hash.Bytes(tsBuf[:])
}

// WithContent returns a copy of r with Content replaced. Used by the
// logger's chunking step (spec §4.8) to split oversize content into
// sub-records that otherwise inherit every field.
func (r Record) WithContent(content string) Record {
	r.Content = content
	return r
}
