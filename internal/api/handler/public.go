package handler

import (
	"encoding/json"
	"net/http"

	"github.com/careops/platform/internal/api/response"
	"github.com/careops/platform/internal/domain"
	"github.com/careops/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PublicHandler serves the unauthenticated booking page endpoints
type PublicHandler struct {
	catalogService *service.CatalogService
	bookingService *service.BookingService
	formService    *service.FormService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(
	catalogService *service.CatalogService,
	bookingService *service.BookingService,
	formService *service.FormService,
) *PublicHandler {
	return &PublicHandler{
		catalogService: catalogService,
		bookingService: bookingService,
		formService:    formService,
	}
}

// Services lists an active workspace's bookable services
func (h *PublicHandler) Services(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ws, services, err := h.catalogService.PublicServices(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"workspace": map[string]string{
			"name": ws.Name,
			"slug": ws.Slug,
		},
		"services": services,
	})
}

// Availability returns open slot start times for a service on a date
func (h *PublicHandler) Availability(w http.ResponseWriter, r *http.Request) {
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

type publicBookingRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// CreateBooking books a slot for a customer
func (h *PublicHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceID"))
	if err != nil {
		response.BadRequest(w, "invalid service ID")
		return
	}

	var input publicBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	booking, err := h.bookingService.Create(r.Context(), domain.BookingCreate{
		ServiceID: serviceID,
		Date:      input.Date,
		Time:      input.Time,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, booking)
}

type contactFormRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactForm records a website contact form submission
func (h *PublicHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var input contactFormRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.formService.SubmitContactForm(r.Context(), slug, input.Name, input.Email, input.Message); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "received"})
}

type intakeRequest struct {
	FormID    uuid.UUID      `json:"form_id" validate:"required"`
	BookingID uuid.UUID      `json:"booking_id" validate:"required"`
	Data      map[string]any `json:"data" validate:"required"`
}

// SubmitIntake stores a customer's completed intake form
func (h *PublicHandler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	var input intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	submission, err := h.formService.SubmitIntake(r.Context(), input.FormID, input.BookingID, input.Data)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, submission)
}
