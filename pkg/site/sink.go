package site

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PageSink is where rendered pages land. Paths are slash-separated and
// relative to the sink root.
type PageSink interface {
	// Write stores a page atomically, creating parent directories.
	Write(path string, content []byte) error
	// ModTime reports a page's modification time and whether it exists.
	ModTime(path string) (time.Time, bool, error)
}

// DirSink writes pages under a directory on disk using temp-file + rename so
// readers never observe a half-written page.
type DirSink struct {
	Root string
}

// NewDirSink creates the root directory if needed.
func NewDirSink(root string) (*DirSink, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("sink: mkdir %s: %w", root, err)
	}
	return &DirSink{Root: root}, nil
}

func (s *DirSink) fullPath(path string) string {
	return filepath.Join(s.Root, filepath.FromSlash(path))
}

// Write stores content at path, atomically.
func (s *DirSink) Write(path string, content []byte) error {
	full := s.fullPath(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sink: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".page-tmp-*")
	if err != nil {
		return fmt.Errorf("sink: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sink: close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sink: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sink: rename %s: %w", path, err)
	}
	return nil
}

// ModTime stats a page. A missing page is not an error.
func (s *DirSink) ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(s.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("sink: stat %s: %w", path, err)
	}
	return info.ModTime(), true, nil
}
