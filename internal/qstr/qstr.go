// Package qstr renames downloaded files whose names still carry a URL query
// string, e.g. "style.css?ver=6.7.3" -> "style.css".
package qstr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"hstools/internal/logger"
)

// doubledExtensions collapse when cutting the query leaves the extension twice
var doubledExtensions = []string{".css", ".js"}

// RenameError reports one file that could not be renamed
type RenameError struct {
	From string
	To   string
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Rename is one completed rename
type Rename struct {
	From string
	To   string
}

// Report lists what Strip did
type Report struct {
	Renamed []Rename
	Failed  []*RenameError
}

// CleanName returns name without its query string. ok is false when name has
// no query string or nothing would be left of it.
func CleanName(name string) (clean string, ok bool) {
	base, _, found := strings.Cut(name, "?")
	if !found || base == "" {
		return name, false
	}

	for _, ext := range doubledExtensions {
		if strings.HasSuffix(base, ext+ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	return base, true
}

// Strip renames every file under dir whose slash-separated path relative to
// dir matches the doublestar pattern match ("" matches everything). Rename
// failures are collected in the report and the walk continues; the returned
// error is reserved for an invalid pattern or an unreadable dir.
func Strip(dir, match string, log logger.Logger) (*Report, error) {
	if log == nil {
		log = logger.Noop()
	}
	if match == "" {
		match = "**"
	}
	if !doublestar.ValidatePattern(match) {
		return nil, fmt.Errorf("invalid match pattern %q: %w", match, doublestar.ErrBadPattern)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	report := &Report{}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		clean, ok := CleanName(d.Name())
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if matched, _ := doublestar.Match(match, filepath.ToSlash(rel)); !matched {
			return nil
		}

		target := filepath.Join(filepath.Dir(path), clean)
		if err := rename(path, target); err != nil {
			rerr := &RenameError{From: path, To: target, Err: err}
			report.Failed = append(report.Failed, rerr)
			log.Warn("rename failed", "from", path, "to", target, "error", err)
			return nil
		}

		report.Renamed = append(report.Renamed, Rename{From: path, To: target})
		log.Debug("renamed", "from", path, "to", target)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	log.Info("stripped query strings", "dir", dir, "renamed", len(report.Renamed), "failed", len(report.Failed))
	return report, nil
}

// rename refuses to overwrite an existing file, which happens when two
// versions of the same asset were downloaded.
func rename(from, to string) error {
	if _, err := os.Lstat(to); err == nil {
		return fs.ErrExist
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(from, to)
}
