package dispatch

import (
	"time"

	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/events"
	"github.com/ezlog-go/ezlog/record"
)

// command is the closed set of operations the worker goroutine accepts
// (spec §4.9). Variants whose caller may wait for completion carry a
// reply channel the worker posts to without blocking on the caller's
// schedule; recordCmd and fetchLogCmd carry none.
type command interface {
	run(c *Core)
}

type createLoggerCmd struct {
	cfg   config.Config
	reply chan<- error
}

func (cmd createLoggerCmd) run(c *Core) {
	err := c.createLogger(cmd.cfg)
	if cmd.reply != nil {
		cmd.reply <- err
	}
}

type recordCmd struct {
	rec record.Record
}

func (cmd recordCmd) run(c *Core) {
	c.record(cmd.rec)
}

type forceFlushCmd struct {
	name  string
	reply chan<- error
}

func (cmd forceFlushCmd) run(c *Core) {
	err := c.forceFlush(cmd.name)
	if cmd.reply != nil {
		cmd.reply <- err
	}
}

type flushAllCmd struct {
	reply chan<- error
}

func (cmd flushAllCmd) run(c *Core) {
	err := c.flushAll()
	if cmd.reply != nil {
		cmd.reply <- err
	}
}

type trimCmd struct {
	reply chan<- error
}

func (cmd trimCmd) run(c *Core) {
	err := c.trimAll()
	if cmd.reply != nil {
		cmd.reply <- err
	}
}

// fetchLogCmd requests the file paths for one logger's [start, end]
// date range; the worker collects the paths and posts the result to the
// callback goroutine, so a slow FetchCallback never stalls the worker
// (spec §4.9/§4.13).
type fetchLogCmd struct {
	name       string
	start, end time.Time
	callback   events.FetchCallback
}

func (cmd fetchLogCmd) run(c *Core) {
	paths, err := c.filesForRange(cmd.name, cmd.start, cmd.end)
	c.postCallback(cmd.name, cmd.start, cmd.end, paths, err, cmd.callback)
}

// actionCmd executes an arbitrary closure on the worker goroutine. Sent
// by runAction to synchronize with the worker without sleeping.
type actionCmd struct {
	fn    func(c *Core)
	reply chan<- struct{}
}

func (cmd actionCmd) run(c *Core) {
	cmd.fn(c)
	if cmd.reply != nil {
		close(cmd.reply)
	}
}
