package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	apierrors "slapulse/internal/errors"
	"slapulse/internal/middleware"
	api "slapulse/pkg/contracts/api/v1"
	"slapulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(testLogger(), false)
}

func testQueries() *middleware.QueryValidator {
	return middleware.NewQueryValidator(testLogger(), testErrorHandler(), 50, 500)
}

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Overview(ctx context.Context) (*domain.OverviewData, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverviewData), args.Error(1)
}

func (m *MockDashboardService) SlaPerformance(ctx context.Context, criteria domain.FilterCriteria) (*domain.SlaPerformanceData, error) {
	args := m.Called(criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SlaPerformanceData), args.Error(1)
}

func (m *MockDashboardService) Delays(ctx context.Context) (*domain.DelaysData, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DelaysData), args.Error(1)
}

func (m *MockDashboardService) Sellers(ctx context.Context) (*domain.SellersData, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellersData), args.Error(1)
}

func (m *MockDashboardService) Zones(ctx context.Context) (*domain.ZonesData, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZonesData), args.Error(1)
}

func (m *MockDashboardService) Rankings(ctx context.Context) (*domain.RankingsData, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RankingsData), args.Error(1)
}

func (m *MockDashboardService) Consolidated(ctx context.Context, page, pageSize int) (*domain.ConsolidatedData, error) {
	args := m.Called(page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsolidatedData), args.Error(1)
}

func (m *MockDashboardService) Historical(ctx context.Context, mode string) (*domain.HistoricalData, error) {
	args := m.Called(mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoricalData), args.Error(1)
}

func (m *MockDashboardService) FilterOptions(ctx context.Context) domain.FilterOptions {
	return m.Called().Get(0).(domain.FilterOptions)
}

func (m *MockDashboardService) ExportRecords(ctx context.Context) ([]domain.PackageRecord, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PackageRecord), args.Error(1)
}

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, fileType domain.FileType, filename string, content io.Reader) (*domain.UploadedFile, error) {
	body, _ := io.ReadAll(content)
	args := m.Called(fileType, filename, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadedFile), args.Error(1)
}

func (m *MockUploadService) Remove(ctx context.Context, fileType domain.FileType) error {
	return m.Called(fileType).Error(0)
}

// MockProcessingService is a mock implementation of ProcessingService
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) Start(ctx context.Context) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockProcessingService) SystemStatus() domain.SystemStatus {
	return m.Called().Get(0).(domain.SystemStatus)
}

func (m *MockProcessingService) UploadStatus() api.UploadStatusResponse {
	return m.Called().Get(0).(api.UploadStatusResponse)
}

// MockHealthService is a mock implementation of HealthService
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	return m.Called().Get(0).(api.HealthResponse)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
