package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apierrors "slapulse/internal/errors"
	"slapulse/internal/exporter"
)

// ExportHandler streams the consolidated base as CSV
type ExportHandler struct {
	service      DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// Consolidated handles GET /api/export/consolidated
func (h *ExportHandler) Consolidated(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ExportRecords(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := exporter.ExportFilename(h.now())
	w.Header().Set("Content-Type", exporter.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	// Headers are sent; a failure here can only be logged.
	if err := exporter.WriteConsolidatedCSV(w, records); err != nil {
		h.logger.ErrorContext(r.Context(), "export write failed",
			slog.String("error", err.Error()),
			slog.Int("records", len(records)))
		return
	}
	h.logger.InfoContext(r.Context(), "export sent",
		slog.String("filename", filename),
		slog.Int("records", len(records)))
}
