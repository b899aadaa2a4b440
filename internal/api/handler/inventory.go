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

// InventoryHandler handles tracked resource requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Create adds a tracked resource to the workspace
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var input domain.ResourceCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resource, err := h.inventoryService.Create(r.Context(), workspaceID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, resource)
}

// List returns the workspace's tracked resources
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	resources, err := h.inventoryService.List(r.Context(), workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, resources)
}

// Get returns a single resource
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "resourceID"))
	if err != nil {
		response.BadRequest(w, "invalid resource ID")
		return
	}

	resource, err := h.inventoryService.Get(r.Context(), workspaceID, resourceID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, resource)
}

// Update edits a resource's details or stock level
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "resourceID"))
	if err != nil {
		response.BadRequest(w, "invalid resource ID")
		return
	}

	var input domain.ResourceUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	resource, err := h.inventoryService.Update(r.Context(), workspaceID, resourceID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, resource)
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// AdjustStock applies a relative stock change
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "resourceID"))
	if err != nil {
		response.BadRequest(w, "invalid resource ID")
		return
	}

	var input adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resource, err := h.inventoryService.AdjustStock(r.Context(), workspaceID, resourceID, input.Delta)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, resource)
}

// Delete removes a resource from tracking
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "resourceID"))
	if err != nil {
		response.BadRequest(w, "invalid resource ID")
		return
	}

	if err := h.inventoryService.Delete(r.Context(), workspaceID, resourceID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}
