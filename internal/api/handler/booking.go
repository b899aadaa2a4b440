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

// BookingHandler handles staff-facing booking requests
type BookingHandler struct {
	bookingService *service.BookingService
	catalogService *service.CatalogService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService, catalogService *service.CatalogService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		catalogService: catalogService,
	}
}

// List returns the workspace's bookings, optionally filtered
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	filter := domain.BookingFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Date:   r.URL.Query().Get("date"),
	}

	bookings, err := h.bookingService.List(r.Context(), workspaceID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, bookings)
}

// Availability returns open slots for a service, for staff picking a time
// while on the phone with a customer
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
	if err != nil {
		response.BadRequest(w, "invalid service ID")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "missing date")
		return
	}

	slots, err := h.bookingService.AvailableSlots(r.Context(), serviceID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"date":  date,
		"slots": slots,
	})
}

// Get returns a single booking
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "invalid booking ID")
		return
	}

	booking, err := h.bookingService.Get(r.Context(), workspaceID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, booking)
}

// Create books a slot on a customer's behalf. Staff bookings skip the
// weekly availability template but still honor the slot uniqueness rule.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var input domain.BookingCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	// the service must belong to the caller's workspace
	if _, err := h.catalogService.Get(r.Context(), workspaceID, input.ServiceID); err != nil {
		writeError(w, err)
		return
	}

	input.Manual = true

	booking, err := h.bookingService.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, booking)
}

type updateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// UpdateStatus moves a booking through its lifecycle
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "invalid booking ID")
		return
	}

	var input updateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.bookingService.UpdateStatus(r.Context(), workspaceID, bookingID, domain.BookingStatus(input.Status)); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": input.Status})
}

// Cancel cancels a booking, freeing its slot
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "invalid booking ID")
		return
	}

	if err := h.bookingService.Cancel(r.Context(), workspaceID, bookingID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}
