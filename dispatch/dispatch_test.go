package dispatch_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/dispatch"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/record"
)

type recordingCallback struct {
	mu      sync.Mutex
	success bool
	paths   []string
	failErr error
	done    chan struct{}
}

func newRecordingCallback() *recordingCallback {
	return &recordingCallback{done: make(chan struct{}, 1)}
}

func (c *recordingCallback) OnFetchSuccess(name, start, end string, paths []string) {
	c.mu.Lock()
	c.success = true
	c.paths = paths
	c.mu.Unlock()
	c.done <- struct{}{}
}

func (c *recordingCallback) OnFetchFail(name, start, end string, err error) {
	c.mu.Lock()
	c.failErr = err
	c.mu.Unlock()
	c.done <- struct{}{}
}

func newTestCore(t *testing.T) (*dispatch.Core, config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.New("app", dir)
	require.NoError(t, err)

	c := dispatch.New()
	t.Cleanup(c.Shutdown)

	require.NoError(t, c.CreateLogger(cfg))

	return c, cfg
}

func TestCreateLoggerAndForceFlush(t *testing.T) {
	c, cfg := newTestCore(t)
	_ = cfg

	require.NoError(t, c.ForceFlush("app"))
}

func TestForceFlushUnknownLoggerErrors(t *testing.T) {
	c := dispatch.New()
	defer c.Shutdown()

	err := c.ForceFlush("missing")
	require.Error(t, err)
}

func TestRecordIsFireAndForget(t *testing.T) {
	c, _ := newTestCore(t)

	require.NoError(t, c.Record(record.New("app", format.LevelInfo, "t", "hello")))
	require.NoError(t, c.ForceFlush("app"))
}

func TestRequestFetchDeliversAsyncCallback(t *testing.T) {
	c, _ := newTestCore(t)

	require.NoError(t, c.Record(record.New("app", format.LevelInfo, "t", "hello")))
	require.NoError(t, c.ForceFlush("app"))

	cb := newRecordingCallback()
	now := time.Now().UTC()
	require.NoError(t, c.RequestFetch("app", now.Add(-24*time.Hour), now.Add(24*time.Hour), cb))

	select {
	case <-cb.done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never delivered")
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	require.True(t, cb.success)
	require.Len(t, cb.paths, 1)
}

func TestRequestFetchUnknownLoggerReportsFailure(t *testing.T) {
	c := dispatch.New()
	defer c.Shutdown()

	cb := newRecordingCallback()
	now := time.Now().UTC()
	require.NoError(t, c.RequestFetch("missing", now, now, cb))

	select {
	case <-cb.done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never delivered")
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	require.Error(t, cb.failErr)
}

func TestTrimAndFlushAll(t *testing.T) {
	c, _ := newTestCore(t)

	require.NoError(t, c.FlushAll())
	require.NoError(t, c.Trim())
}
