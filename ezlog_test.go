package ezlog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/config"
)

type capturingCallback struct {
	mu    sync.Mutex
	done  chan struct{}
	paths []string
	err   error
}

func (c *capturingCallback) OnFetchSuccess(name, start, end string, paths []string) {
	c.mu.Lock()
	c.paths = paths
	c.mu.Unlock()
	c.done <- struct{}{}
}

func (c *capturingCallback) OnFetchFail(name, start, end string, err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	c.done <- struct{}{}
}

// TestFacadeLifecycle exercises the whole package-level facade against a
// single dispatch core, since coreOnce only ever runs once per process:
// Init, CreateLog, every level helper, Flush/FlushAll/Trim and
// RequestLogFiles, ending with Shutdown.
func TestFacadeLifecycle(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New("facade", dir)
	require.NoError(t, err)

	require.NoError(t, CreateLog(cfg))
	t.Cleanup(Shutdown)

	require.NoError(t, E("facade", "main", "error line"))
	require.NoError(t, W("facade", "main", "warn line"))
	require.NoError(t, I("facade", "main", "info line"))
	require.NoError(t, D("facade", "main", "debug line"))
	require.NoError(t, T("facade", "main", "trace line"))

	require.NoError(t, Flush("facade"))
	require.NoError(t, FlushAll())
	require.NoError(t, Trim())

	cb := &capturingCallback{done: make(chan struct{}, 1)}
	now := time.Now().UTC()
	require.NoError(t, RequestLogFiles("facade", now.Add(-24*time.Hour), now.Add(24*time.Hour), cb))

	select {
	case <-cb.done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never delivered")
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	require.NoError(t, cb.err)
	require.Len(t, cb.paths, 1)
}
