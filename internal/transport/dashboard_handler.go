package transport

import (
	"net/http"

	"turbo-warehouse/internal/middleware"
	"turbo-warehouse/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DashboardHandler handles the dashboard aggregation endpoint
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/stats", h.Stats)
	})
}

// Stats returns the dashboard roll-up
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Dashboard stats failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute dashboard stats")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
