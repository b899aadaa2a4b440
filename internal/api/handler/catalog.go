package handler

import (
	"encoding/json"
	"net/http"

	"github.com/careops/platform/internal/api/middleware"
	"github.com/careops/platform/internal/api/response"
	"github.com/careops/platform/internal/domain"
	"github.com/careops/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CatalogHandler handles bookable service endpoints
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Create handles service creation
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	var input domain.ServiceCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	svc, err := h.catalogService.Create(r.Context(), workspaceID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, svc)
}

// List handles listing workspace services
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	services, err := h.catalogService.List(r.Context(), workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, services)
}

// Get handles getting one service
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
	if err != nil {
		response.BadRequest(w, "invalid service ID")
		return
	}

	svc, err := h.catalogService.Get(r.Context(), workspaceID, serviceID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, svc)
}

// Update handles service updates
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
	if err != nil {
		response.BadRequest(w, "invalid service ID")
		return
	}

	var input domain.ServiceUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	svc, err := h.catalogService.Update(r.Context(), workspaceID, serviceID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, svc)
}
