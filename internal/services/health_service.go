package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"slapulse/internal/store"
	"slapulse/pkg/contracts"
	api "slapulse/pkg/contracts/api/v1"
)

// Health check states
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HubStatus is what the health check needs from the websocket hub
type HubStatus interface {
	Running() bool
	ClientCount() int
}

// Pinger verifies a backing database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService provides health check functionality
type HealthService struct {
	version    string
	store      *store.Store
	hub        HubStatus
	db         Pinger
	uploadsDir string
	startTime  time.Time
	logger     *slog.Logger
}

// NewHealthService creates a health service. hub and db may be nil; a nil db
// reports persistence as disabled.
func NewHealthService(version string, st *store.Store, hub HubStatus, db Pinger, uploadsDir string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:    version,
		store:      st,
		hub:        hub,
		db:         db,
		uploadsDir: uploadsDir,
		startTime:  time.Now(),
		logger:     logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports the snapshot and the state of every collaborator.
// Status is degraded when any check fails; an empty snapshot is not a failure.
func (hs *HealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	snap := hs.store.Current()
	resp := api.HealthResponse{
		Status:   HealthOK,
		Version:  hs.version,
		Records:  snap.Len(),
		Snapshot: snap.Version,
		Checks:   make(map[string]string),
	}

	if snap.Empty() {
		resp.Checks["store"] = "empty"
	} else {
		resp.Checks["store"] = HealthOK
	}

	healthy := true
	check := func(name string, err error) {
		if err != nil {
			healthy = false
			resp.Checks[name] = err.Error()
			return
		}
		resp.Checks[name] = HealthOK
	}
	check("websocket", hs.checkWebSocket())
	check("uploads", hs.checkUploadsDir())
	if hs.db == nil {
		resp.Checks["persistence"] = "disabled"
	} else {
		check("persistence", hs.db.Ping(ctx))
	}

	if !healthy {
		resp.Status = HealthDegraded
		hs.logger.WarnContext(ctx, "health check degraded", slog.Any("checks", resp.Checks))
	}
	return resp
}

// Version returns build and runtime information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":     hs.version,
		"api_version": info.APIVersion,
		"build_time":  info.BuildTime,
		"git_commit":  info.GitCommit,
		"go_version":  info.GoVersion,
		"os":          info.OS,
		"arch":        info.Architecture,
		"uptime":      time.Since(hs.startTime).Seconds(),
		"start_time":  hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkWebSocket() error {
	if hs.hub == nil || !hs.hub.Running() {
		return fmt.Errorf("websocket hub not running")
	}
	return nil
}

// checkUploadsDir verifies the staging directory exists and is writable.
func (hs *HealthService) checkUploadsDir() error {
	info, err := os.Stat(hs.uploadsDir)
	if err != nil {
		return fmt.Errorf("uploads directory not found: %s", hs.uploadsDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("uploads path is not a directory: %s", hs.uploadsDir)
	}
	probe, err := os.CreateTemp(hs.uploadsDir, ".health-*")
	if err != nil {
		return fmt.Errorf("cannot write to uploads directory: %v", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}
