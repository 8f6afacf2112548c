package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "slapulse/internal/errors"
	"slapulse/internal/middleware"
)

// DashboardHandler serves the dashboard views and filter options
type DashboardHandler struct {
	service      DashboardService
	queries      *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService, queries *middleware.QueryValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		queries:      queries,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api/dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/overview", h.Overview)
	r.Get("/sla-performance", h.SlaPerformance)
	r.Get("/delays", h.Delays)
	r.Get("/sellers", h.Sellers)
	r.Get("/zones", h.Zones)
	r.Get("/rankings", h.Rankings)
	r.Get("/consolidated", h.Consolidated)
	r.Get("/historical", h.Historical)
	return r
}

// respond renders data, or the error when err is set.
func (h *DashboardHandler) respond(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}

// Overview handles GET /api/dashboard/overview
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Overview(r.Context())
	h.respond(w, r, data, err)
}

// SlaPerformance handles GET /api/dashboard/sla-performance
func (h *DashboardHandler) SlaPerformance(w http.ResponseWriter, r *http.Request) {
	filters, ok := h.queries.Filters(w, r)
	if !ok {
		return
	}
	data, err := h.service.SlaPerformance(r.Context(), filters.Criteria())
	h.respond(w, r, data, err)
}

// Delays handles GET /api/dashboard/delays
func (h *DashboardHandler) Delays(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Delays(r.Context())
	h.respond(w, r, data, err)
}

// Sellers handles GET /api/dashboard/sellers
func (h *DashboardHandler) Sellers(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Sellers(r.Context())
	h.respond(w, r, data, err)
}

// Zones handles GET /api/dashboard/zones
func (h *DashboardHandler) Zones(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Zones(r.Context())
	h.respond(w, r, data, err)
}

// Rankings handles GET /api/dashboard/rankings
func (h *DashboardHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Rankings(r.Context())
	h.respond(w, r, data, err)
}

// Consolidated handles GET /api/dashboard/consolidated?page=&pageSize=
func (h *DashboardHandler) Consolidated(w http.ResponseWriter, r *http.Request) {
	page, ok := h.queries.Page(w, r)
	if !ok {
		return
	}
	data, err := h.service.Consolidated(r.Context(), page.Page, page.PageSize)
	h.respond(w, r, data, err)
}

// Historical handles GET /api/dashboard/historical?mode=week|month
func (h *DashboardHandler) Historical(w http.ResponseWriter, r *http.Request) {
	q, ok := h.queries.Historical(w, r)
	if !ok {
		return
	}
	data, err := h.service.Historical(r.Context(), q.Mode)
	h.respond(w, r, data, err)
}

// FilterOptions handles GET /api/filters
func (h *DashboardHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.FilterOptions(r.Context()))
}
