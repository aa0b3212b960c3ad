// Package dispatch serializes every mutation of logger state onto one
// worker goroutine, so the appender/logger packages never need their own
// locking (spec §4.9, §5).
//
// Grounded on the producer/single-consumer worker-goroutine idiom; no
// example repo in the retrieval pack implements a command-queue
// dispatcher, so this follows spec.md §4.9/§9's description directly,
// matching the same "one goroutine owns mutable state, everyone else
// talks to it through a channel" shape the teacher repo's test helpers
// use for synchronization (mebo has no concurrent writer of its own —
// its structures are built once and read many times — so this package
// has no teacher file to adapt beyond that general idiom).
package dispatch

import (
	"fmt"
	"time"

	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/errs"
	"github.com/ezlog-go/ezlog/events"
	"github.com/ezlog-go/ezlog/logger"
	"github.com/ezlog-go/ezlog/record"
)

// commandQueueSize bounds the number of pending commands before
// Submit/RequestFetch start returning errs.ErrChannel.
const commandQueueSize = 1024

// Core is the process-wide dispatch singleton. All of its exported
// methods are safe for concurrent use; they only ever enqueue a command,
// never touch loggers directly.
type Core struct {
	loggers  map[string]*logger.Logger
	commands chan command
	results  chan fetchResult
	done     chan struct{}
}

type fetchResult struct {
	name       string
	start, end time.Time
	paths      []string
	err        error
	callback   events.FetchCallback
}

// New starts a Core's worker and callback goroutines. Callers normally
// reach this through the root ezlog package's lazily-initialized
// singleton rather than calling it directly.
func New() *Core {
	c := &Core{
		loggers:  make(map[string]*logger.Logger),
		commands: make(chan command, commandQueueSize),
		results:  make(chan fetchResult, commandQueueSize),
		done:     make(chan struct{}),
	}

	go c.runCallbacks()
	go c.superviseWorker()

	events.Emit(events.Init, "dispatch core started", nil)

	return c
}

// superviseWorker runs the worker loop and relaunches it if it panics,
// reporting events.Panic instead of bringing the process down (spec
// §4.9/§9, §4.13).
func (c *Core) superviseWorker() {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		c.runWorkerOnce()
	}
}

func (c *Core) runWorkerOnce() {
	defer func() {
		if r := recover(); r != nil {
			events.Emit(events.Panic, fmt.Sprintf("dispatch worker recovered: %v", r), nil)
		}
	}()

	for {
		select {
		case <-c.done:
			return
		case cmd := <-c.commands:
			cmd.run(c)
		}
	}
}

func (c *Core) runCallbacks() {
	for {
		select {
		case <-c.done:
			return
		case res := <-c.results:
			if res.callback == nil {
				continue
			}
			if res.err != nil {
				res.callback.OnFetchFail(res.name, formatDate(res.start), formatDate(res.end), res.err)
			} else {
				res.callback.OnFetchSuccess(res.name, formatDate(res.start), formatDate(res.end), res.paths)
			}
		}
	}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(config.DateFormat)
}

func (c *Core) submit(cmd command) error {
	select {
	case <-c.done:
		events.Emit(events.ChannelError, "core shut down", errs.ErrChannel)
		return fmt.Errorf("dispatch: %w: core shut down", errs.ErrChannel)
	default:
	}

	select {
	case c.commands <- cmd:
		return nil
	default:
		events.Emit(events.ChannelError, "command queue full", errs.ErrChannel)
		return fmt.Errorf("dispatch: %w", errs.ErrChannel)
	}
}

// CreateLogger enqueues logger creation for cfg and blocks until the
// worker has processed it, returning any error opening the file.
func (c *Core) CreateLogger(cfg config.Config) error {
	reply := make(chan error, 1)
	if err := c.submit(createLoggerCmd{cfg: cfg, reply: reply}); err != nil {
		return err
	}

	return <-reply
}

// Record enqueues r for the worker to filter, chunk and append. It does
// not wait for the append to complete; errors surface only through the
// event listener, matching the fire-and-forget nature of a logging call.
func (c *Core) Record(r record.Record) error {
	return c.submit(recordCmd{rec: r})
}

// ForceFlush enqueues a flush of the named logger and waits for it.
func (c *Core) ForceFlush(name string) error {
	reply := make(chan error, 1)
	if err := c.submit(forceFlushCmd{name: name, reply: reply}); err != nil {
		return err
	}

	return <-reply
}

// FlushAll enqueues a flush of every registered logger and waits for it.
func (c *Core) FlushAll() error {
	reply := make(chan error, 1)
	if err := c.submit(flushAllCmd{reply: reply}); err != nil {
		return err
	}

	return <-reply
}

// Trim enqueues a retention sweep of every registered logger and waits
// for it.
func (c *Core) Trim() error {
	reply := make(chan error, 1)
	if err := c.submit(trimCmd{reply: reply}); err != nil {
		return err
	}

	return <-reply
}

// RequestFetch enqueues a date-range file query for the named logger.
// The result is delivered asynchronously to callback on the callback
// goroutine, never on the caller's goroutine or the worker's.
func (c *Core) RequestFetch(name string, start, end time.Time, callback events.FetchCallback) error {
	return c.submit(fetchLogCmd{name: name, start: start, end: end, callback: callback})
}

// runAction executes fn on the worker goroutine and blocks until it
// completes. It is unexported; code inside this package uses it to
// observe worker-owned state without a race.
func (c *Core) runAction(fn func(c *Core)) error {
	reply := make(chan struct{})
	if err := c.submit(actionCmd{fn: fn, reply: reply}); err != nil {
		return err
	}
	<-reply

	return nil
}

// Shutdown stops the worker and callback goroutines. A Core must not be
// used afterward.
func (c *Core) Shutdown() {
	close(c.done)
}

// --- worker-goroutine-only state transitions below; never call these
// directly from outside the command.run implementations. ---

func (c *Core) createLogger(cfg config.Config) error {
	l, err := logger.New(cfg)
	if err != nil {
		return err
	}

	if existing, ok := c.loggers[cfg.Name]; ok {
		_ = existing.Close()
	}
	c.loggers[cfg.Name] = l

	return nil
}

func (c *Core) record(r record.Record) {
	l, ok := c.loggers[r.LogName]
	if !ok {
		events.Emit(events.RecordError, r.LogName, errs.ErrLoggerNotFound)
		return
	}

	l.Record(r)
}

func (c *Core) forceFlush(name string) error {
	l, ok := c.loggers[name]
	if !ok {
		return fmt.Errorf("dispatch: %w: %s", errs.ErrLoggerNotFound, name)
	}

	return l.Flush()
}

func (c *Core) flushAll() error {
	var firstErr error
	for name, l := range c.loggers {
		if err := l.Flush(); err != nil {
			events.Emit(events.FlushError, name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (c *Core) trimAll() error {
	var firstErr error
	for name, l := range c.loggers {
		if err := l.Trim(); err != nil {
			events.Emit(events.TrimError, name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (c *Core) filesForRange(name string, start, end time.Time) ([]string, error) {
	l, ok := c.loggers[name]
	if !ok {
		return nil, fmt.Errorf("dispatch: %w: %s", errs.ErrLoggerNotFound, name)
	}

	return l.FilesForRange(start, end)
}

func (c *Core) postCallback(name string, start, end time.Time, paths []string, err error, cb events.FetchCallback) {
	res := fetchResult{name: name, start: start, end: end, paths: paths, err: err, callback: cb}

	select {
	case c.results <- res:
	default:
		events.Emit(events.RequestLogError, name, errs.ErrChannel)
	}
}
