package ezlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ezlog-go/ezlog/events"
)

// diagnosticsOut is the writer the built-in fallback listener uses
// when no events.Listener has been installed. Swappable so embedding
// applications can redirect it (e.g. to a rotating file of their own)
// without pulling in the full event-listener interface.
var (
	diagnosticsMu  sync.Mutex
	diagnosticsOut io.Writer = os.Stderr
)

// SetDiagnosticsOutput redirects the built-in fallback diagnostics
// listener's output. Has no effect once a caller has installed its own
// events.Listener via events.SetListener.
func SetDiagnosticsOutput(w io.Writer) {
	diagnosticsMu.Lock()
	defer diagnosticsMu.Unlock()
	diagnosticsOut = w
}

func init() {
	events.SetListener(events.ListenerFunc(logDiagnostic))
}

// logDiagnostic is the zero-configuration event listener: every event
// becomes one "timestamp LEVEL event: message[: err]" line, matching the plain
// leveled-console idiom this library's own operational logging follows
// (distinct from the record-logging facade above, which writes to the
// engine's own files rather than the process's stderr).
func logDiagnostic(event events.Event, message string, err error) {
	level := "INFO"
	switch event {
	case events.CreateLoggerError, events.RecordError, events.CompressError, events.EncryptError,
		events.FlushError, events.MapFileError, events.RotateFileError, events.TrimError,
		events.RequestLogError, events.FFIError, events.ChannelError, events.Panic:
		level = "ERROR"
	case events.FrameAnomaly, events.RecordFilterOut:
		level = "WARN"
	}

	diagnosticsMu.Lock()
	out := diagnosticsOut
	diagnosticsMu.Unlock()

	if err != nil {
		fmt.Fprintf(out, "%s %s %s: %s: %v\n", time.Now().UTC().Format(time.RFC3339), level, event, message, err)
		return
	}

	fmt.Fprintf(out, "%s %s %s: %s\n", time.Now().UTC().Format(time.RFC3339), level, event, message)
}
