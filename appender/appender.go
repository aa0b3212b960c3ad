// Package appender owns the writable memory-mapped file a Logger
// appends blocks to, including the rotation policy that replaces it with
// a fresh file.
//
// PresleyHank-go-lib/util/mmap.go maps a file read-only with plain
// syscall.Mmap to stream it through an io.Writer; this package needs a
// writable MAP_SHARED mapping instead, so it reaches for
// golang.org/x/sys/unix (attested across the retrieval pack, e.g.
// ClusterCockpit-cc-backend and moby-moby) rather than the unexported
// syscall package, and extends the same "map once, operate on the
// byte slice directly" idiom to writes, header rewrites, and msync.
package appender

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ezlog-go/ezlog/block"
	"github.com/ezlog-go/ezlog/config"
	"github.com/ezlog-go/ezlog/errs"
	"github.com/ezlog-go/ezlog/events"
	"github.com/ezlog-go/ezlog/format"
	"github.com/ezlog-go/ezlog/header"
)

// Appender owns one open, memory-mapped log file and the header at its
// start. It is not safe for concurrent use; the logger package serializes
// all access to one Appender through its single dispatch worker.
type Appender struct {
	cfg      config.Config
	path     string
	file     *os.File
	mmap     []byte
	hdr      header.Header
	nextDate time.Time // rotation deadline, per cfg.RotateEvery/RotateAtMidnight
}

// Open creates or reopens the current file for cfg at time t, mapping it
// writable. If an existing file's size or header doesn't match cfg, the
// existing file is renamed aside and a fresh one is created in its place
// (spec §4.7).
func Open(cfg config.Config, t time.Time) (*Appender, error) {
	path := cfg.FilePath(t)

	file, hdr, err := openOrCreate(cfg, path, t)
	if err != nil {
		return nil, err
	}

	mmap, err := mapFile(file, int(cfg.MaxSize))
	if err != nil {
		file.Close()
		return nil, err
	}

	a := &Appender{
		cfg:      cfg,
		path:     path,
		file:     file,
		mmap:     mmap,
		hdr:      hdr,
		nextDate: rotationDeadline(cfg, time.Unix(hdr.CreatedAt, 0).UTC()),
	}

	if hdr.RecorderPos == uint32(header.SizeV2) && cfg.Extra != nil {
		if err := a.writeExtra(cfg.Extra); err != nil {
			a.Close()
			return nil, err
		}
	}

	events.Emit(events.MapFileEnd, path, nil)

	return a, nil
}

func openOrCreate(cfg config.Config, path string, t time.Time) (*os.File, header.Header, error) {
	if err := os.MkdirAll(cfg.DirPath, 0o755); err != nil {
		return nil, header.Header{}, fmt.Errorf("appender: %w: %v", errs.ErrIO, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, header.Header{}, fmt.Errorf("appender: %w: %v", errs.ErrIO, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, header.Header{}, fmt.Errorf("appender: %w: %v", errs.ErrIO, err)
	}

	if info.Size() == 0 {
		if err := file.Truncate(int64(cfg.MaxSize)); err != nil {
			file.Close()
			return nil, header.Header{}, fmt.Errorf("appender: %w: %v", errs.ErrIO, err)
		}

		return createFreshHeader(file, cfg, t)
	}

	if uint64(info.Size()) != cfg.MaxSize {
		file.Close()
		newPath, err := config.RenameAside(path)
		if err != nil {
			return nil, header.Header{}, err
		}
		events.Emit(events.RotateFileError, "size mismatch, renamed "+newPath, nil)

		return openOrCreate(cfg, path, t)
	}

	hdr, existing, err := readExistingHeader(file, cfg)
	if err != nil {
		return nil, header.Header{}, err
	}
	if !existing {
		file.Close()
		newPath, err := config.RenameAside(path)
		if err != nil {
			return nil, header.Header{}, err
		}
		events.Emit(events.RotateFileError, "config mismatch, renamed "+newPath, nil)

		return openOrCreate(cfg, path, t)
	}

	return file, hdr, nil
}

func createFreshHeader(file *os.File, cfg config.Config, t time.Time) (*os.File, header.Header, error) {
	hdr := header.New(t.Unix(), cfg.Compress, cfg.Cipher, cfg.CipherHash(), cfg.Extra != nil)

	enc, err := header.Encode(hdr)
	if err != nil {
		file.Close()
		return nil, header.Header{}, fmt.Errorf("appender: %w", err)
	}
	if _, err := file.WriteAt(enc, 0); err != nil {
		file.Close()
		return nil, header.Header{}, fmt.Errorf("appender: %w: %v", errs.ErrIO, err)
	}

	return file, hdr, nil
}

func readExistingHeader(file *os.File, cfg config.Config) (header.Header, bool, error) {
	buf := make([]byte, header.SizeV2)
	if _, err := file.ReadAt(buf, 0); err != nil {
		return header.Header{}, false, fmt.Errorf("appender: %w: %v", errs.ErrIO, err)
	}

	hdr, err := header.Decode(buf)
	if err != nil {
		return header.Header{}, false, nil
	}

	if !hdr.IsMatch(format.VersionV2, cfg.Compress, cfg.Cipher, cfg.CipherHash()) {
		return header.Header{}, false, nil
	}

	return hdr, true, nil
}

func mapFile(file *os.File, size int) ([]byte, error) {
	mmap, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("appender: %w: mmap: %v", errs.ErrIO, err)
	}

	return mmap, nil
}

func rotationDeadline(cfg config.Config, t time.Time) time.Time {
	if cfg.RotateAtMidnight {
		next := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		return next
	}

	return t.Add(cfg.RotateEvery)
}

// Path returns the currently mapped file's path.
func (a *Appender) Path() string { return a.path }

// Header returns the currently mapped file's header.
func (a *Appender) Header() header.Header { return a.hdr }

// IsOversize reports whether appending a framed block of blockLen bytes
// would overflow the mapped file.
func (a *Appender) IsOversize(blockLen int) bool {
	return int(a.hdr.RecorderPos)+blockLen > len(a.mmap)
}

// IsOvertime reports whether t has passed this file's rotation deadline.
func (a *Appender) IsOvertime(t time.Time) bool {
	return t.After(a.nextDate)
}

// Append writes a pre-framed block at the current recorder position,
// advances it, and rewrites the header in place. A block that would not
// fit in the mapped file is not written and errs.ErrSizeExceeded is
// returned; the rotation deadline is not checked here (see IsOvertime).
func (a *Appender) Append(block []byte) error {
	start := int(a.hdr.RecorderPos)
	end := start + len(block)
	if end > len(a.mmap) {
		return fmt.Errorf("appender: %w", errs.ErrSizeExceeded)
	}

	copy(a.mmap[start:end], block)
	a.hdr.RecorderPos = uint32(end)

	return a.writeHeader()
}

// writeExtra appends extra as a framed block, like any other record, but
// with compress/encrypt skipped (spec §3, §4.7, §4.13): the decoder scans
// for the block START byte regardless of content, so an unframed extra
// payload would be consumed as leading garbage and desync every
// subsequent record's nonce-derivation position.
func (a *Appender) writeExtra(extra []byte) error {
	framed := block.Encode(extra)

	start := int(a.hdr.RecorderPos)
	end := start + len(framed)
	if end > len(a.mmap) {
		return fmt.Errorf("appender: %w", errs.ErrSizeExceeded)
	}

	copy(a.mmap[start:end], framed)
	a.hdr.RecorderPos = uint32(end)

	return a.writeHeader()
}

func (a *Appender) writeHeader() error {
	enc, err := header.Encode(a.hdr)
	if err != nil {
		return fmt.Errorf("appender: %w", err)
	}

	copy(a.mmap[:len(enc)], enc)

	return nil
}

// Flush synchronizes the mapping's dirty pages back to disk.
func (a *Appender) Flush() error {
	if err := unix.Msync(a.mmap, unix.MS_SYNC); err != nil {
		events.Emit(events.FlushError, a.path, err)
		return fmt.Errorf("appender: %w: msync: %v", errs.ErrIO, err)
	}

	events.Emit(events.FlushEnd, a.path, nil)

	return nil
}

// Close unmaps and closes the underlying file. The Appender must not be
// used afterward.
func (a *Appender) Close() error {
	if a.mmap != nil {
		_ = unix.Munmap(a.mmap)
		a.mmap = nil
	}
	if a.file != nil {
		err := a.file.Close()
		a.file = nil
		return err
	}

	return nil
}

// Rotate closes the current mapping, renames the current file aside, and
// opens (and maps) a fresh one at time t.
func (a *Appender) Rotate(t time.Time) error {
	if err := a.Flush(); err != nil {
		return err
	}
	if err := a.Close(); err != nil {
		return fmt.Errorf("appender: %w: %v", errs.ErrIO, err)
	}

	newPath, err := config.RenameAside(a.path)
	if err != nil {
		return err
	}
	events.Emit(events.RotateFileError, "rotated "+newPath, nil)

	fresh, err := Open(a.cfg, t)
	if err != nil {
		return err
	}

	*a = *fresh

	return nil
}
