// Package logger owns one named log stream: its Config, its Appender,
// and the compress/cipher Pipeline built from them. It implements the
// per-record filter/chunk/encode/append sequence and the file-retention
// and range-query operations run against the directory the stream writes
// to.
//
// Grounded on original_source/ezlog-core/src/lib.rs's EZLogger::append
// (filter, chunk, encode, write-with-rotate-retry) translated into the
// teacher's dispatch-friendly "plain struct with methods called from one
// goroutine" shape rather than the Rust crate's trait-object Compress/
// Cryptor fields.
package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/ezlog-go/ezlog/appender"
	"github.com/ezlog-go/ezlog/block"
	"github.com/ezlog-go/ezlog/compress"
	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/cryptor"
	"github.com/ezlog-go/ezlog/errs"
	"github.com/ezlog-go/ezlog/events"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/pipeline"
	"github.com/ezlog-go/ezlog/record"
)

// Logger is not safe for concurrent use. The dispatch package's worker
// goroutine is the only caller; that is what makes this safe in
// practice.
type Logger struct {
	cfg       config.Config
	appender  *appender.Appender
	pipe      *pipeline.Pipeline
	formatter record.Formatter
}

// New opens cfg's current file (creating it if needed) and builds the
// compress/cipher pipeline it was configured with.
func New(cfg config.Config) (*Logger, error) {
	now := time.Now().UTC()

	app, err := appender.Open(cfg, now)
	if err != nil {
		events.Emit(events.CreateLoggerError, cfg.Name, err)
		return nil, err
	}

	codec, err := compress.CreateCodec(cfg.Compress, cfg.CompressLevel)
	if err != nil {
		app.Close()
		events.Emit(events.CreateLoggerError, cfg.Name, err)
		return nil, fmt.Errorf("logger: %w", err)
	}

	aead, err := cryptor.CreateCryptor(cfg.Cipher, cfg.CipherKey, cfg.CipherNonce)
	if err != nil {
		app.Close()
		events.Emit(events.CreateLoggerError, cfg.Name, err)
		return nil, fmt.Errorf("logger: %w", err)
	}

	pipe, err := pipeline.New(format.VersionV2, codec, aead)
	if err != nil {
		app.Close()
		events.Emit(events.CreateLoggerError, cfg.Name, err)
		return nil, fmt.Errorf("logger: %w", err)
	}

	events.Emit(events.CreateLoggerEnd, cfg.Name, nil)

	return &Logger{cfg: cfg, appender: app, pipe: pipe, formatter: record.DefaultFormatter}, nil
}

// SetFormatter overrides the default record formatter.
func (l *Logger) SetFormatter(f record.Formatter) { l.formatter = f }

// Record filters, chunks and appends r, rotating and retrying once if
// the current file has no room or has passed its rotation deadline (spec
// §4.8). Any other failure is reported through the event listener and
// swallowed — a bad record must never crash the dispatch worker.
func (l *Logger) Record(r record.Record) {
	if r.Level > l.cfg.Level {
		events.Emit(events.RecordFilterOut, r.LogName, nil)
		return
	}

	for _, sub := range l.chunk(r) {
		if err := l.appendOne(sub); err != nil {
			events.Emit(events.RecordError, r.LogName, err)
			continue
		}
		events.Emit(events.RecordEnd, r.LogName, nil)
	}
}

// chunk splits r into one or more sub-records whose content is at most
// half the file's max size, splitting only on UTF-8 character
// boundaries. The limit counts content bytes only: formatting, pipeline
// and framing overhead come on top, so in a very small file a chunk can
// still fail to fit.
func (l *Logger) chunk(r record.Record) []record.Record {
	limit := int(l.cfg.MaxSize / 2)
	if limit <= 0 || len(r.Content) <= limit {
		return []record.Record{r}
	}

	var out []record.Record
	content := r.Content
	for len(content) > 0 {
		cut := limit
		if cut > len(content) {
			cut = len(content)
		}
		for cut > 0 && cut < len(content) && !utf8.RuneStart(content[cut]) {
			cut--
		}
		if cut == 0 {
			cut = len(content)
		}

		out = append(out, r.WithContent(content[:cut]))
		content = content[cut:]
	}

	return out
}

func (l *Logger) appendOne(r record.Record) error {
	plaintext := []byte(l.formatter(r))

	err := l.tryAppend(plaintext)
	if err == nil {
		return nil
	}
	if !errIsRetryable(err) {
		return err
	}

	if rotErr := l.appender.Rotate(time.Now().UTC()); rotErr != nil {
		return rotErr
	}

	return l.tryAppend(plaintext)
}

func errIsRetryable(err error) bool {
	return errors.Is(err, errs.ErrSizeExceeded) || errors.Is(err, errs.ErrRotateTime)
}

func (l *Logger) tryAppend(plaintext []byte) error {
	hdr := l.appender.Header()

	compressed, err := l.pipe.Encode(plaintext, hdr.CreatedAt, hdr.RecorderPos)
	if err != nil {
		events.Emit(events.EncryptError, l.cfg.Name, err)
		return fmt.Errorf("logger: %w", err)
	}
	events.Emit(events.CompressEnd, l.cfg.Name, nil)

	framed := block.Encode(compressed)

	if l.appender.IsOversize(len(framed)) {
		return fmt.Errorf("logger: %w", errs.ErrSizeExceeded)
	}
	if l.appender.IsOvertime(time.Now().UTC()) {
		return fmt.Errorf("logger: %w", errs.ErrRotateTime)
	}

	if err := l.appender.Append(framed); err != nil {
		return err
	}

	return nil
}

// Flush synchronizes the current file to disk.
func (l *Logger) Flush() error {
	return l.appender.Flush()
}

// Close flushes and releases the current file mapping.
func (l *Logger) Close() error {
	flushErr := l.appender.Flush()
	if err := l.appender.Close(); err != nil {
		return err
	}

	return flushErr
}

// Trim deletes every file under the logger's directory whose name
// matches its Config and whose date has outlived the retention window.
// Malformed names are skipped; a per-file delete error is reported and
// does not stop the sweep (spec §4.8).
func (l *Logger) Trim() error {
	entries, err := os.ReadDir(l.cfg.DirPath)
	if err != nil {
		events.Emit(events.TrimError, l.cfg.DirPath, err)
		return fmt.Errorf("logger: %w: %v", errs.ErrIO, err)
	}

	now := time.Now().UTC()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		date, err := l.cfg.DateOf(e.Name())
		if err != nil {
			continue
		}
		if !l.cfg.ExpiredAt(date, now) {
			continue
		}

		path := filepath.Join(l.cfg.DirPath, e.Name())
		if err := os.Remove(path); err != nil {
			events.Emit(events.TrimError, path, err)
			continue
		}
	}

	events.Emit(events.TrimEnd, l.cfg.DirPath, nil)

	return nil
}

// FilesForRange returns the paths under the logger's directory whose
// embedded date falls within [start, end] inclusive.
func (l *Logger) FilesForRange(start, end time.Time) ([]string, error) {
	entries, err := os.ReadDir(l.cfg.DirPath)
	if err != nil {
		return nil, fmt.Errorf("logger: %w: %v", errs.ErrIO, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		date, err := l.cfg.DateOf(e.Name())
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}

		paths = append(paths, filepath.Join(l.cfg.DirPath, e.Name()))
	}

	return paths, nil
}
