package record

import (
	"fmt"
	"time"
)

// Formatter renders a Record into the text persisted (after compress/
// encrypt) as a Block payload. Formatters must be pure functions of the
// record: no I/O, no shared mutable state.
type Formatter func(r Record) string

// DefaultFormatter renders:
//
//	"\n<rfc3339 timestamp> <LEVEL> <target> [<thread-name>:<thread-id>] <content>"
//
// The leading newline (spec §4.6) aligns multi-line decoded output when
// several formatted records are concatenated in a decoder's output
// stream.
func DefaultFormatter(r Record) string {
	return fmt.Sprintf("\n%s %s %s [%s:%d] %s",
		r.Time.Format(time.RFC3339),
		r.Level,
		r.Target,
		r.ThreadName,
		r.ThreadID,
		r.Content,
	)
}
