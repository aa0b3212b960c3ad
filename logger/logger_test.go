package logger_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/logger"
	"github.com/ezlog-go/ezlog/record"
)

func newTestLogger(t *testing.T, opts ...config.Option) (*logger.Logger, config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.New("app", dir, opts...)
	require.NoError(t, err)

	l, err := logger.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	return l, cfg
}

func TestRecordFiltersBelowLevel(t *testing.T) {
	l, _ := newTestLogger(t, config.WithLevel(format.LevelWarn))

	// Info is lower priority than Warn (LevelInfo > LevelWarn numerically),
	// so it must be dropped rather than appended.
	l.Record(record.New("app", format.LevelInfo, "t", "dropped"))
	require.NoError(t, l.Flush())
}

func TestRecordAppendsAcceptedLevel(t *testing.T) {
	l, _ := newTestLogger(t, config.WithLevel(format.LevelInfo))

	l.Record(record.New("app", format.LevelError, "t", "kept"))
	require.NoError(t, l.Flush())
}

func TestChunkSplitsOversizeContent(t *testing.T) {
	l, cfg := newTestLogger(t, config.WithMaxSize(config.MinSize))

	big := strings.Repeat("a", int(cfg.MaxSize))
	l.Record(record.New("app", format.LevelError, "t", big))
	require.NoError(t, l.Flush())
}

func TestFilesForRangeFindsCreatedFile(t *testing.T) {
	l, cfg := newTestLogger(t)

	today := time.Now().UTC()
	paths, err := l.FilesForRange(today.Add(-24*time.Hour), today.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Contains(t, paths[0], cfg.Name)
}

func TestTrimDeletesExpiredFiles(t *testing.T) {
	l, cfg := newTestLogger(t, config.WithRetention(time.Nanosecond))

	require.NoError(t, l.Flush())
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, l.Trim())

	paths, err := l.FilesForRange(time.Now().UTC().Add(-24*time.Hour), time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, err)
	require.Empty(t, paths, "file dated today has outlived a 1ns retention window and should be trimmed")
	_ = cfg
}
