package ezlog

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/events"
)

func TestLogDiagnosticRedirectsToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	SetDiagnosticsOutput(&buf)
	t.Cleanup(func() { SetDiagnosticsOutput(os.Stderr) })

	logDiagnostic(events.RecordError, "append failed", errTest)

	line := buf.String()
	require.True(t, strings.Contains(line, "ERROR"))
	require.True(t, strings.Contains(line, "RecordError"))
	require.True(t, strings.Contains(line, "append failed"))
	require.True(t, strings.Contains(line, errTest.Error()))
}

func TestLogDiagnosticClassifiesLevel(t *testing.T) {
	var buf bytes.Buffer
	SetDiagnosticsOutput(&buf)
	t.Cleanup(func() { SetDiagnosticsOutput(os.Stderr) })

	logDiagnostic(events.RecordFilterOut, "dropped", nil)
	require.True(t, strings.Contains(buf.String(), "WARN"))

	buf.Reset()
	logDiagnostic(events.CreateLoggerEnd, "ready", nil)
	require.True(t, strings.Contains(buf.String(), "INFO"))
}

var errTest = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
