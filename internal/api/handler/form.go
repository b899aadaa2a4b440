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

// FormHandler handles intake form management requests
type FormHandler struct {
	formService *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formService *service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// Create adds a new form to the workspace
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var input domain.FormCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	form, err := h.formService.Create(r.Context(), workspaceID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, form)
}

// List returns the workspace's forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	forms, err := h.formService.List(r.Context(), workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, forms)
}

// Get returns a single form
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	formID, err := uuid.Parse(chi.URLParam(r, "formID"))
	if err != nil {
		response.BadRequest(w, "invalid form ID")
		return
	}

	form, err := h.formService.Get(r.Context(), workspaceID, formID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, form)
}

// Update edits a form's fields or activation
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	formID, err := uuid.Parse(chi.URLParam(r, "formID"))
	if err != nil {
		response.BadRequest(w, "invalid form ID")
		return
	}

	var input domain.FormUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	form, err := h.formService.Update(r.Context(), workspaceID, formID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, form)
}

// Submissions returns a form's completed submissions
func (h *FormHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	formID, err := uuid.Parse(chi.URLParam(r, "formID"))
	if err != nil {
		response.BadRequest(w, "invalid form ID")
		return
	}

	submissions, err := h.formService.Submissions(r.Context(), workspaceID, formID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, submissions)
}
