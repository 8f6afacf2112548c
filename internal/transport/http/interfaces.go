package http

import (
	"context"
	"io"

	api "slapulse/pkg/contracts/api/v1"
	"slapulse/pkg/contracts/domain"
)

// DashboardService builds the dashboard views
type DashboardService interface {
	Overview(ctx context.Context) (*domain.OverviewData, error)
	SlaPerformance(ctx context.Context, criteria domain.FilterCriteria) (*domain.SlaPerformanceData, error)
	Delays(ctx context.Context) (*domain.DelaysData, error)
	Sellers(ctx context.Context) (*domain.SellersData, error)
	Zones(ctx context.Context) (*domain.ZonesData, error)
	Rankings(ctx context.Context) (*domain.RankingsData, error)
	Consolidated(ctx context.Context, page, pageSize int) (*domain.ConsolidatedData, error)
	Historical(ctx context.Context, mode string) (*domain.HistoricalData, error)
	FilterOptions(ctx context.Context) domain.FilterOptions
	ExportRecords(ctx context.Context) ([]domain.PackageRecord, error)
}

// UploadService stages the spreadsheets
type UploadService interface {
	Upload(ctx context.Context, fileType domain.FileType, filename string, content io.Reader) (*domain.UploadedFile, error)
	Remove(ctx context.Context, fileType domain.FileType) error
}

// ProcessingService runs and reports processing
type ProcessingService interface {
	Start(ctx context.Context) (string, error)
	SystemStatus() domain.SystemStatus
	UploadStatus() api.UploadStatusResponse
}

// HealthService reports service health
type HealthService interface {
	HealthCheck(ctx context.Context) api.HealthResponse
	Version() map[string]interface{}
}
