package handler

import (
	"net/http"

	"github.com/careops/platform/internal/api/middleware"
	"github.com/careops/platform/internal/api/response"
	"github.com/careops/platform/internal/service"
)

// DashboardHandler serves the workspace overview
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary returns counts and recent activity for the workspace
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	summary, err := h.dashboardService.Summary(r.Context(), workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, summary)
}
