package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ezlog-go/ezlog/errs"
)

// FileName returns the file name (without directory) for a fresh file
// created at t: "<name>_YYYY_MM_DD.<suffix>", grounded on
// original_source/ezlog-core/src/config.rs's now_file_name.
func (c Config) FileName(t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", c.Name, t.UTC().Format(DateFormat), c.FileSuffix)
}

// FilePath joins DirPath and FileName(t).
func (c Config) FilePath(t time.Time) string {
	return filepath.Join(c.DirPath, c.FileName(t))
}

// DateOf parses the date segment out of a file name this Config
// produced, returning an error if name doesn't start with "<name>_" or
// the date segment doesn't parse. Accepts both the undecorated name and
// a rotated "<name>_YYYY_MM_DD.N.<suffix>" name.
func (c Config) DateOf(fileName string) (time.Time, error) {
	prefix := c.Name + "_"
	if !strings.HasPrefix(fileName, prefix) {
		return time.Time{}, fmt.Errorf("config: %w: %q does not start with %q", errs.ErrParse, fileName, prefix)
	}

	rest := fileName[len(prefix):]
	if len(rest) < len("2006_01_02") {
		return time.Time{}, fmt.Errorf("config: %w: %q too short for a date segment", errs.ErrParse, fileName)
	}

	dateStr := rest[:len("2006_01_02")]
	t, err := time.ParseInLocation(DateFormat, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: %w: %q is not a valid date segment: %v", errs.ErrParse, dateStr, err)
	}

	return t, nil
}

// IsOwnFile reports whether fileName was produced by this Config: its
// name prefix matches and its date segment parses.
func (c Config) IsOwnFile(fileName string) bool {
	_, err := c.DateOf(fileName)
	return err == nil
}

// ExpiredAt reports whether a file dated fileDate has outlived
// c.Retention, measured from now.
func (c Config) ExpiredAt(fileDate, now time.Time) bool {
	return fileDate.Add(c.Retention).Before(now)
}

// RenameAside renames the file at path to the smallest-numbered unused
// "<stem>.N<ext>" sibling, making room for a fresh file at path. Grounded
// on original_source/ezlog-core/src/appender.rs's rename_current_file.
func RenameAside(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	for count := 1; ; count++ {
		candidate := stem + "." + strconv.Itoa(count) + ext
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			if err := os.Rename(path, candidate); err != nil {
				return "", fmt.Errorf("config: %w: %v", errs.ErrIO, err)
			}

			return candidate, nil
		}
	}
}
