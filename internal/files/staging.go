package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// tempPrefix marks files still being written.
const tempPrefix = ".staging-"

// ErrTooLarge is returned by Write when content exceeds the limit
var ErrTooLarge = errors.New("content exceeds size limit")

// Staging owns a directory of staged files
type Staging struct {
	dir    string
	logger *slog.Logger
}

// NewStaging creates the directory when missing.
func NewStaging(dir string, logger *slog.Logger) (*Staging, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", dir, err)
	}
	return &Staging{dir: dir, logger: logger.With(slog.String("component", "staging"))}, nil
}

// Dir returns the staging directory.
func (s *Staging) Dir() string {
	return s.dir
}

// Path returns where a file named name+ext is staged.
func (s *Staging) Path(name, ext string) string {
	return filepath.Join(s.dir, name+ext)
}

// Write copies content to name+ext, replacing any file already there.
// A limit > 0 bounds the size; exceeding it returns ErrTooLarge and leaves
// the existing file untouched.
func (s *Staging) Write(name, ext string, content io.Reader, limit int64) (string, error) {
	tmp, err := os.CreateTemp(s.dir, tempPrefix+name+"-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	src := content
	if limit > 0 {
		src = io.LimitReader(content, limit+1)
	}
	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if limit > 0 && n > limit {
		os.Remove(tmpPath)
		return "", ErrTooLarge
	}

	path := s.Path(name, ext)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("move %s into place: %w", name, err)
	}

	s.logger.Debug("file staged",
		slog.String("path", path),
		slog.Int64("size", n))
	return path, nil
}

// Remove deletes a staged file. Paths outside the directory are refused and a
// missing file is not an error.
func (s *Staging) Remove(path string) error {
	if path == "" {
		return nil
	}
	if !s.contains(path) {
		return fmt.Errorf("refusing to remove %s: outside %s", path, s.dir)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// CleanTemp removes temporary files left by interrupted writes and returns
// how many were removed.
func (s *Staging) CleanTemp() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read staging dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("removed interrupted uploads", slog.Int("count", removed))
	}
	return removed, nil
}

func (s *Staging) contains(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)
}
