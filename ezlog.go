// Package ezlog is the library's top-level facade: thin package-level
// functions that delegate to a lazily-initialized dispatch core.
//
// Mirrors arloliu-mebo's root-package convenience-wrapper pattern (a
// thin package-level API in front of the real types), generalized here
// to delegate onto a singleton rather than construct a value directly,
// since every write in this domain must be serialized through one
// dispatch worker.
package ezlog

import (
	"sync"
	"time"

	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/dispatch"
	"github.com/ezlog-go/ezlog/events"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/record"
)

var (
	coreOnce sync.Once
	core     *dispatch.Core
)

// Init starts the process-wide dispatch core. Calling it more than once
// is a no-op; every other package function calls it implicitly on first
// use, so most callers never need to call Init directly.
func Init() {
	coreOnce.Do(func() {
		core = dispatch.New()
	})
}

func ensureInit() *dispatch.Core {
	Init()
	return core
}

// CreateLog registers (or replaces) the logger named cfg.Name and opens
// its current file, blocking until the open completes.
func CreateLog(cfg config.Config) error {
	return ensureInit().CreateLogger(cfg)
}

func write(logName string, level format.Level, target, content string) error {
	return ensureInit().Record(record.New(logName, level, target, content))
}

// E logs content at Error level on the named channel.
func E(logName, target, content string) error { return write(logName, format.LevelError, target, content) }

// W logs content at Warn level on the named channel.
func W(logName, target, content string) error { return write(logName, format.LevelWarn, target, content) }

// I logs content at Info level on the named channel.
func I(logName, target, content string) error { return write(logName, format.LevelInfo, target, content) }

// D logs content at Debug level on the named channel.
func D(logName, target, content string) error { return write(logName, format.LevelDebug, target, content) }

// T logs content at Trace level on the named channel.
func T(logName, target, content string) error { return write(logName, format.LevelTrace, target, content) }

// Flush synchronizes the named logger's current file to disk.
func Flush(logName string) error {
	return ensureInit().ForceFlush(logName)
}

// FlushAll synchronizes every registered logger's current file to disk.
func FlushAll() error {
	return ensureInit().FlushAll()
}

// Trim runs the retention sweep on every registered logger.
func Trim() error {
	return ensureInit().Trim()
}

// RequestLogFiles asynchronously resolves the files a logger holds for
// [start, end], delivering the result to callback on its own goroutine.
func RequestLogFiles(logName string, start, end time.Time, callback events.FetchCallback) error {
	return ensureInit().RequestFetch(logName, start, end, callback)
}

// Shutdown stops the dispatch core. Only useful in tests; a normal
// process simply exits.
func Shutdown() {
	if core != nil {
		core.Shutdown()
	}
}
