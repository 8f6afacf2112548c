package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"slapulse/internal/analytics"
	"slapulse/internal/config"
	"slapulse/internal/dataprocessing"
	apierrors "slapulse/internal/errors"
	"slapulse/internal/infrastructure"
	customMiddleware "slapulse/internal/middleware"
	"slapulse/internal/operations"
	"slapulse/internal/persistence"
	"slapulse/internal/services"
	"slapulse/internal/store"
	handlers "slapulse/internal/transport/http"
	ws "slapulse/internal/websocket"
	"slapulse/pkg/contracts"
)

// AppName is logged at startup.
const AppName = "SLA Pulse"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
	WebSocketHub  *ws.Hub
	Store         *store.Store
	Repository    *persistence.Repository // nil when persistence is disabled
	Processor     *operations.Processor
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard  *services.DashboardService
	Upload     *services.UploadService
	Processing *services.ProcessingService
	Health     *services.HealthService
}

// NewApplication loads configuration and logging, then builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(context.Background(), cfg, logger)
}

// New wires every component from cfg. Directories are created and the last
// saved snapshot, if any, is loaded before the router is built.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	logger.InfoContext(ctx, "Application paths",
		slog.String("data_dir", paths.DataDir),
		slog.String("uploads_dir", paths.UploadsDir),
		slog.String("logs_dir", paths.LogsDir))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(ctx); err != nil {
		app.release(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices(ctx context.Context) error {
	wsMetrics, err := ws.NewMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}
	hub := ws.NewHub(a.Logger, wsMetrics)
	hub.Start()
	a.WebSocketHub = hub

	a.Store = store.New(a.Logger)

	if a.Config.Persistence.Enabled {
		repo, err := persistence.Open(ctx, a.Paths.DatabaseFile, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		a.Repository = repo
	}

	parser := dataprocessing.NewParser(a.Logger)
	tracker := operations.NewStatusTracker(hub, a.Logger)

	opts := []operations.Option{
		operations.WithPublisher(hub),
		operations.WithMetrics(a.Metrics),
	}
	if a.Repository != nil {
		opts = append(opts, operations.WithSnapshotSaver(a.Repository))
	}
	a.Processor = operations.NewProcessor(parser, a.Store, tracker, a.Logger, opts...)

	engine := analytics.NewEngine(analytics.WithSLATarget(a.Config.Analytics.SLATarget))
	upload, err := services.NewUploadService(a.Paths.UploadsDir, a.Config.Upload, parser, hub, a.Metrics, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize upload staging: %w", err)
	}

	// a nil *Repository must not reach the interface
	var db services.Pinger
	if a.Repository != nil {
		db = a.Repository
	}

	a.Services = &ServiceContainer{
		Dashboard:  services.NewDashboardService(a.Store, engine, a.Config.Analytics, a.Metrics, a.Logger),
		Upload:     upload,
		Processing: services.NewProcessingService(upload, a.Processor, a.Logger),
		Health:     services.NewHealthService(contracts.Version, a.Store, hub, db, a.Paths.UploadsDir, a.Logger),
	}

	a.restoreSnapshot(ctx)
	return nil
}

// restoreSnapshot loads the last saved snapshot into the store. A missing or
// unreadable snapshot leaves the store empty.
func (a *Application) restoreSnapshot(ctx context.Context) {
	if a.Repository == nil {
		return
	}

	saved, err := a.Repository.LoadSnapshot(ctx)
	if errors.Is(err, persistence.ErrNoSnapshot) {
		a.Logger.InfoContext(ctx, "No saved snapshot to restore")
		return
	}
	if err != nil {
		a.Logger.WarnContext(ctx, "Failed to restore snapshot", slog.String("error", err.Error()))
		return
	}

	snap := a.Store.Replace(saved.Records, "persistence")
	a.Processor.Tracker().Restore(ctx, snap.Len(), saved.SavedAt)
	a.Logger.InfoContext(ctx, "Snapshot restored",
		slog.Int("records", snap.Len()),
		slog.Int64("saved_version", saved.Version),
		slog.Time("saved_at", saved.SavedAt))
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Middleware that does not wrap the ResponseWriter, safe for the upgrade
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	wsOpts := ws.Options{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		PingPeriod:      a.Config.WebSocket.PingPeriod,
		PongWait:        a.Config.WebSocket.PongWait,
	}
	if a.Config.Security.EnableCORS {
		wsOpts.AllowedOrigins = a.Config.Security.AllowedOrigins
	}
	r.Handle("/ws", ws.NewHandler(a.WebSocketHub, wsOpts, a.Logger))

	// Outside the middleware group so scrapes are not traced or rate limited
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	queries := customMiddleware.NewQueryValidator(a.Logger, a.ErrorHandler,
		a.Config.Analytics.DefaultPageSize, a.Config.Analytics.MaxPageSize)

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, queries, a.Logger, a.ErrorHandler)
	uploadHandler := handlers.NewUploadHandler(a.Services.Upload, a.Services.Processing,
		a.Config.Upload.MaxFileSize, a.Logger, a.ErrorHandler)
	exportHandler := handlers.NewExportHandler(a.Services.Dashboard, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// Views and status reads answer within the request timeout
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
			r.Use(customMiddleware.Compress(5))

			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/version", healthHandler.Version)
			r.Get("/system/status", uploadHandler.SystemStatus)
			r.Get("/filters", dashboardHandler.FilterOptions)
			r.Mount("/dashboard", dashboardHandler.Routes())
			r.Get("/export/consolidated", exportHandler.Consolidated)
		})

		// Uploads stream up to the size limit, bounded by the server write timeout
		r.Mount("/upload", uploadHandler.Routes())
	})
}

// getCORSConfig builds the CORS settings from the security config.
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
	if a.Config.Security.EnableCORS {
		cfg.AllowedOrigins = a.Config.Security.AllowedOrigins
	} else {
		// same origin only
		cfg.AllowedOrigins = []string{fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)}
	}
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure calls cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.Bool("persistence", a.Repository != nil))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// performStartupHealthCheck logs failing checks; none of them stop startup.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	health := a.Services.Health.HealthCheck(ctx)
	if health.Status == services.HealthOK {
		return
	}
	for name, result := range health.Checks {
		if result != services.HealthOK && result != "empty" && result != "disabled" {
			a.Logger.WarnContext(ctx, "Startup health check warning",
				slog.String("check", name),
				slog.String("result", result))
		}
	}
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	// Let an in-flight run publish its snapshot before the hub and db go away
	if err := a.Processor.Wait(shutdownCtx); err != nil {
		a.Logger.WarnContext(ctx, "Processing run still active at shutdown", slog.String("error", err.Error()))
	}

	a.release(shutdownCtx)

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// release stops the hub and closes the database and telemetry providers.
func (a *Application) release(ctx context.Context) {
	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}
	if a.Repository != nil {
		if err := a.Repository.Close(); err != nil {
			a.Logger.ErrorContext(ctx, "Error closing snapshot database", slog.String("error", err.Error()))
		}
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	// ctx is already cancelled; shutdown needs its own deadline
	return a.Stop(context.WithoutCancel(ctx))
}
