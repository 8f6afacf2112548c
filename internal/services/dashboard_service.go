package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"slapulse/internal/analytics"
	"slapulse/internal/config"
	apperrors "slapulse/internal/errors"
	"slapulse/internal/infrastructure"
	"slapulse/internal/store"
	"slapulse/pkg/contracts/domain"
)

// View names used in spans, logs and metrics.
const (
	ViewOverview       = "overview"
	ViewSlaPerformance = "sla-performance"
	ViewDelays         = "delays"
	ViewSellers        = "sellers"
	ViewZones          = "zones"
	ViewRankings       = "rankings"
	ViewConsolidated   = "consolidated"
	ViewHistorical     = "historical"
)

// DashboardService serves the dashboard views from the current snapshot
type DashboardService struct {
	store   *store.Store
	engine  *analytics.Engine
	paging  config.AnalyticsConfig
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(st *store.Store, engine *analytics.Engine, paging config.AnalyticsConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = analytics.NewEngine(analytics.WithSLATarget(paging.SLATarget))
	}
	return &DashboardService{
		store:   st,
		engine:  engine,
		paging:  paging,
		tracer:  otel.Tracer(infrastructure.ServiceName + "/dashboard"),
		metrics: metrics,
		logger:  logger.With(slog.String("component", "dashboard_service")),
	}
}

// buildView runs fn against the current snapshot inside a span and maps an
// absent view to ErrNoData.
func buildView[T any](ctx context.Context, s *DashboardService, view string, fn func([]domain.PackageRecord) (*T, bool)) (*T, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard."+view)
	defer span.End()

	snap := s.store.Current()
	span.SetAttributes(
		attribute.String("view", view),
		attribute.Int("snapshot.records", snap.Len()),
		attribute.Int64("snapshot.version", snap.Version),
	)

	start := time.Now()
	data, ok := fn(snap.Records)
	duration := time.Since(start)
	infrastructure.RecordViewMetrics(ctx, s.metrics, view, ok, duration)

	s.logger.DebugContext(ctx, "view built",
		slog.String("view", view),
		slog.Bool("found", ok),
		slog.Int("records", snap.Len()),
		slog.Duration("duration", duration))

	if !ok {
		return nil, apperrors.ErrNoData
	}
	return data, nil
}

// Overview returns the landing view.
func (s *DashboardService) Overview(ctx context.Context) (*domain.OverviewData, error) {
	return buildView(ctx, s, ViewOverview, s.engine.Overview)
}

// SlaPerformance returns the SLA trend of the records matching criteria.
func (s *DashboardService) SlaPerformance(ctx context.Context, criteria domain.FilterCriteria) (*domain.SlaPerformanceData, error) {
	return buildView(ctx, s, ViewSlaPerformance, func(records []domain.PackageRecord) (*domain.SlaPerformanceData, bool) {
		return s.engine.SlaPerformance(records, criteria)
	})
}

// Delays returns the delay breakdowns.
func (s *DashboardService) Delays(ctx context.Context) (*domain.DelaysData, error) {
	return buildView(ctx, s, ViewDelays, s.engine.Delays)
}

// Sellers returns the per-seller ranking.
func (s *DashboardService) Sellers(ctx context.Context) (*domain.SellersData, error) {
	return buildView(ctx, s, ViewSellers, s.engine.Sellers)
}

// Zones returns the per-zone and per-CEP aggregates.
func (s *DashboardService) Zones(ctx context.Context) (*domain.ZonesData, error) {
	return buildView(ctx, s, ViewZones, s.engine.Zones)
}

// Rankings returns the top lists.
func (s *DashboardService) Rankings(ctx context.Context) (*domain.RankingsData, error) {
	return buildView(ctx, s, ViewRankings, s.engine.Rankings)
}

// Consolidated returns one page of the record list. Zero values take the
// defaults and the page size is capped at the configured maximum.
func (s *DashboardService) Consolidated(ctx context.Context, page, pageSize int) (*domain.ConsolidatedData, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.paging.DefaultPageSize
	}
	if s.paging.MaxPageSize > 0 && pageSize > s.paging.MaxPageSize {
		pageSize = s.paging.MaxPageSize
	}
	return buildView(ctx, s, ViewConsolidated, func(records []domain.PackageRecord) (*domain.ConsolidatedData, bool) {
		return s.engine.Consolidated(records, page, pageSize)
	})
}

// Historical returns the period comparison.
func (s *DashboardService) Historical(ctx context.Context, mode string) (*domain.HistoricalData, error) {
	return buildView(ctx, s, ViewHistorical, func(records []domain.PackageRecord) (*domain.HistoricalData, bool) {
		return s.engine.Historical(records, mode)
	})
}

// FilterOptions lists the facet values of the current snapshot. It is never absent.
func (s *DashboardService) FilterOptions(ctx context.Context) domain.FilterOptions {
	_, span := s.tracer.Start(ctx, "dashboard.filters")
	defer span.End()
	return analytics.FilterOptions(s.store.Records())
}

// ExportRecords returns the records of the current snapshot for export.
func (s *DashboardService) ExportRecords(ctx context.Context) ([]domain.PackageRecord, error) {
	snap := s.store.Current()
	if snap.Empty() {
		return nil, apperrors.ErrNoExportData
	}
	s.logger.InfoContext(ctx, "export requested",
		slog.Int("records", snap.Len()),
		slog.Int64("version", snap.Version))
	return snap.Records, nil
}
