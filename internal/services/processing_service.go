package services

import (
	"context"
	"log/slog"

	apperrors "slapulse/internal/errors"
	"slapulse/internal/operations"
	api "slapulse/pkg/contracts/api/v1"
	"slapulse/pkg/contracts/domain"
)

// ProcessingService starts processing runs from the staged uploads
type ProcessingService struct {
	uploads   *UploadService
	processor *operations.Processor
	logger    *slog.Logger
}

// NewProcessingService creates a processing service.
func NewProcessingService(uploads *UploadService, processor *operations.Processor, logger *slog.Logger) *ProcessingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessingService{
		uploads:   uploads,
		processor: processor,
		logger:    logger.With(slog.String("component", "processing_service")),
	}
}

// Start launches a background run over the staged workbooks and returns its id.
func (s *ProcessingService) Start(ctx context.Context) (string, error) {
	if s.processor.Running() {
		return "", apperrors.ErrProcessingInProgress
	}
	in, err := s.uploads.Inputs()
	if err != nil {
		return "", err
	}
	runID, err := s.processor.Start(ctx, in)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "processing requested", slog.String("run_id", runID))
	return runID, nil
}

// SystemStatus returns the overall data availability.
func (s *ProcessingService) SystemStatus() domain.SystemStatus {
	return s.processor.Tracker().System()
}

// ProcessingStatus returns the status of the current or last run.
func (s *ProcessingService) ProcessingStatus() domain.ProcessingStatus {
	return s.processor.Tracker().Processing()
}

// UploadStatus reports both staged files along with the processing status.
func (s *ProcessingService) UploadStatus() api.UploadStatusResponse {
	files := s.uploads.Files()
	return api.UploadStatusResponse{
		Logmanager: files.Logmanager,
		Gestora:    files.Gestora,
		Processing: s.ProcessingStatus(),
	}
}
