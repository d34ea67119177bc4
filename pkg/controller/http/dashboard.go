package http

import (
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/frontend"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
)

// DashboardHandler serves the server-rendered dashboard page
type DashboardHandler struct {
	alertsUC usecase.AlertsUseCase
	config   *model.DashboardConfig
	renderer *frontend.Renderer
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(alertsUC usecase.AlertsUseCase, config *model.DashboardConfig, renderer *frontend.Renderer) *DashboardHandler {
	return &DashboardHandler{
		alertsUC: alertsUC,
		config:   config,
		renderer: renderer,
	}
}

// HandleDashboard renders the stat cards and chart sections for the
// current alert statistics
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.alertsUC.GetStats(r.Context(), &model.StatsFilter{})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	cards := h.config.BuildCards(stats)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.renderer.RenderDashboard(w, cards, stats); err != nil {
		ctxlog.From(r.Context()).Error("Failed to render dashboard", "error", err)
	}
}
