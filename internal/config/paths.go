package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file system locations used by the service.
type Paths struct {
	DataDir      string
	UploadsDir   string
	LogsDir      string
	DatabaseFile string
}

// ResolvePaths turns the configured, possibly relative, paths into absolute ones.
// Uploads and the database live under the data directory unless configured
// with an absolute path.
func (c *Config) ResolvePaths() (*Paths, error) {
	dataDir, err := filepath.Abs(c.Paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir %q: %w", c.Paths.DataDir, err)
	}

	logsDir, err := filepath.Abs(c.Paths.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir %q: %w", c.Paths.LogsDir, err)
	}

	return &Paths{
		DataDir:      dataDir,
		UploadsDir:   underDir(dataDir, c.Paths.UploadsDir),
		LogsDir:      logsDir,
		DatabaseFile: underDir(dataDir, c.Persistence.DatabaseFile),
	}, nil
}

func underDir(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.UploadsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
