package handler

import (
	"net/http"

	"github.com/careops/platform/internal/api/middleware"
	"github.com/careops/platform/internal/api/response"
	"github.com/careops/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AlertHandler handles alert feed requests
type AlertHandler struct {
	alertService *service.AlertService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// List returns the workspace's alerts, newest first
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	alerts, err := h.alertService.List(r.Context(), workspaceID, unreadOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, alerts)
}

// MarkRead marks a single alert as read
func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	alertID, err := uuid.Parse(chi.URLParam(r, "alertID"))
	if err != nil {
		response.BadRequest(w, "invalid alert ID")
		return
	}

	if err := h.alertService.MarkRead(r.Context(), workspaceID, alertID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}
