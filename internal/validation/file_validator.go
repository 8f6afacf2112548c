// Package validation checks input files before they are parsed.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrFileMissing    = errors.New("file does not exist")
	ErrNotAFile       = errors.New("path is a directory")
	ErrUnreadable     = errors.New("file is not readable")
	ErrNotSpreadsheet = errors.New("not a spreadsheet")
	ErrLockFile       = errors.New("temporary office lock file")
)

// SpreadsheetExtensions are the workbook formats accepted as input
var SpreadsheetExtensions = []string{".xlsx", ".xlsm", ".xls"}

// FileValidator checks that input files exist, are readable and look like workbooks
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks that path is an existing, readable regular file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Warn("File does not exist", slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrFileMissing)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Warn("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s: %w", path, ErrNotAFile)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Warn("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w: %v", path, ErrUnreadable, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks path is a readable workbook and not an office lock file.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Rejecting temporary Excel file", slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrLockFile)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range SpreadsheetExtensions {
		if ext == allowed {
			return nil
		}
	}
	v.logger.Warn("File is not an Excel file",
		slog.String("file", path),
		slog.String("extension", ext))
	return fmt.Errorf("%s (extension %q): %w", path, ext, ErrNotSpreadsheet)
}
