package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"slapulse/internal/config"
	"slapulse/internal/dataprocessing"
	apperrors "slapulse/internal/errors"
	"slapulse/internal/files"
	"slapulse/internal/infrastructure"
	"slapulse/internal/operations"
	"slapulse/internal/websocket"
	"slapulse/pkg/contracts/domain"
	"slapulse/pkg/contracts/events"
)

// UploadService stages one workbook per spreadsheet type
type UploadService struct {
	staging   *files.Staging
	maxSize   int64
	allowed   map[string]bool
	parser    *dataprocessing.Parser
	publisher websocket.Publisher
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time

	mu    sync.RWMutex
	files map[domain.FileType]*domain.UploadedFile
}

// NewUploadService creates an upload service staging files under dir and
// clears writes left over from a previous run. publisher and metrics may be nil.
func NewUploadService(dir string, cfg config.UploadConfig, parser *dataprocessing.Parser, publisher websocket.Publisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*UploadService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	staging, err := files.NewStaging(dir, logger)
	if err != nil {
		return nil, err
	}
	if _, err := staging.CleanTemp(); err != nil {
		return nil, err
	}
	if parser == nil {
		parser = dataprocessing.NewParser(logger)
	}
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	return &UploadService{
		staging:   staging,
		maxSize:   cfg.MaxFileSize,
		allowed:   allowed,
		parser:    parser,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "upload_service")),
		newID:     uuid.NewString,
		now:       time.Now,
		files:     make(map[domain.FileType]*domain.UploadedFile),
	}, nil
}

// Upload stages content as the workbook of fileType, replacing any previous
// one, and validates its columns. A workbook with missing columns is
// recorded with status error and reported as an invalid spreadsheet.
func (s *UploadService) Upload(ctx context.Context, fileType domain.FileType, filename string, content io.Reader) (*domain.UploadedFile, error) {
	if !fileType.Valid() {
		return nil, apperrors.ErrInvalidFileType
	}
	if content == nil {
		return nil, apperrors.ErrNoFileUploaded
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowed[ext] {
		s.reject(ctx, fileType, "unsupported extension")
		return nil, apperrors.ErrUnsupportedFile
	}

	path, err := s.stage(ctx, fileType, ext, content)
	if err != nil {
		if errors.Is(err, apperrors.ErrFileTooLarge) {
			s.reject(ctx, fileType, "file too large")
			return nil, err
		}
		return nil, apperrors.FileSystemError("upload", err)
	}

	res, err := s.parser.ValidateColumns(ctx, path, fileType)
	if err != nil {
		s.discard(ctx, path)
		s.reject(ctx, fileType, err.Error())
		return nil, apperrors.InvalidSpreadsheet(string(fileType), err.Error())
	}

	now := s.now()
	columns := res.Columns
	file := &domain.UploadedFile{
		ID:               s.newID(),
		Filename:         filepath.Base(filename),
		FileType:         fileType,
		Status:           domain.FileStatusCompleted,
		TotalRows:        res.TotalRows,
		ValidRows:        res.ValidRows,
		InvalidRows:      res.InvalidRows,
		UploadedAt:       now,
		ProcessedAt:      &now,
		ColumnValidation: &columns,
		Path:             path,
	}
	if !columns.Valid {
		colErr := &dataprocessing.ColumnError{FileType: fileType, Missing: columns.MissingColumns}
		file.Status = domain.FileStatusError
		file.Errors = []string{colErr.Error()}
		file.Path = ""
		s.discard(ctx, path)
	}

	s.mu.Lock()
	s.files[fileType] = file
	s.mu.Unlock()
	s.broadcast(ctx)

	if !columns.Valid {
		s.reject(ctx, fileType, file.Errors[0])
		return file, apperrors.InvalidSpreadsheet(string(fileType), file)
	}

	infrastructure.RecordUpload(ctx, s.metrics, string(fileType), true)
	s.logger.InfoContext(ctx, "upload staged",
		slog.String("file_type", string(fileType)),
		slog.String("filename", file.Filename),
		slog.Int("total_rows", file.TotalRows),
		slog.Int("valid_rows", file.ValidRows))
	return file, nil
}

// stage writes content to the staging directory and drops the previously
// staged workbook of fileType when it lived under another name.
func (s *UploadService) stage(ctx context.Context, fileType domain.FileType, ext string, content io.Reader) (string, error) {
	path, err := s.staging.Write(string(fileType), ext, content, s.maxSize)
	if errors.Is(err, files.ErrTooLarge) {
		return "", apperrors.ErrFileTooLarge
	}
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	prev := s.files[fileType]
	s.mu.RUnlock()
	if prev != nil && prev.Path != path {
		s.discard(ctx, prev.Path)
	}
	return path, nil
}

// Remove discards the staged workbook of fileType. Removing a type with
// nothing staged is not an error.
func (s *UploadService) Remove(ctx context.Context, fileType domain.FileType) error {
	if !fileType.Valid() {
		return apperrors.ErrInvalidFileType
	}
	s.removeStaged(ctx, fileType)

	s.mu.Lock()
	delete(s.files, fileType)
	s.mu.Unlock()
	s.broadcast(ctx)

	s.logger.InfoContext(ctx, "upload removed", slog.String("file_type", string(fileType)))
	return nil
}

func (s *UploadService) removeStaged(ctx context.Context, fileType domain.FileType) {
	s.mu.RLock()
	prev := s.files[fileType]
	s.mu.RUnlock()
	if prev != nil {
		s.discard(ctx, prev.Path)
	}
}

func (s *UploadService) discard(ctx context.Context, path string) {
	if err := s.staging.Remove(path); err != nil {
		s.logger.WarnContext(ctx, "failed to remove staged file",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// Files returns copies of the staged file metadata.
func (s *UploadService) Files() domain.UploadedFiles {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.UploadedFiles{
		Logmanager: copyFile(s.files[domain.FileTypeLogmanager]),
		Gestora:    copyFile(s.files[domain.FileTypeGestora]),
	}
}

// Inputs returns the staged workbook paths, or ErrMissingUploads unless both
// spreadsheets were staged and validated.
func (s *UploadService) Inputs() (operations.Inputs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logmanager := s.files[domain.FileTypeLogmanager]
	gestora := s.files[domain.FileTypeGestora]
	if !ready(logmanager) || !ready(gestora) {
		return operations.Inputs{}, apperrors.ErrMissingUploads
	}
	return operations.Inputs{LogmanagerPath: logmanager.Path, GestoraPath: gestora.Path}, nil
}

func ready(f *domain.UploadedFile) bool {
	return f != nil && f.Status == domain.FileStatusCompleted && f.Path != ""
}

func copyFile(f *domain.UploadedFile) *domain.UploadedFile {
	if f == nil {
		return nil
	}
	c := *f
	if f.ColumnValidation != nil {
		cv := *f.ColumnValidation
		c.ColumnValidation = &cv
	}
	c.Errors = append([]string(nil), f.Errors...)
	return &c
}

func (s *UploadService) reject(ctx context.Context, fileType domain.FileType, reason string) {
	infrastructure.RecordUpload(ctx, s.metrics, string(fileType), false)
	s.logger.WarnContext(ctx, "upload rejected",
		slog.String("file_type", string(fileType)),
		slog.String("reason", reason))
}

func (s *UploadService) broadcast(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.MessageTypeUploadStatus, s.Files()); err != nil {
		s.logger.WarnContext(ctx, "upload status broadcast failed", slog.String("error", err.Error()))
	}
}
