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

// WebhookHandler receives payloads from external form builders
// and messaging providers
type WebhookHandler struct {
	formService  *service.FormService
	inboxService *service.InboxService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(formService *service.FormService, inboxService *service.InboxService) *WebhookHandler {
	return &WebhookHandler{
		formService:  formService,
		inboxService: inboxService,
	}
}

// ExternalForm accepts an arbitrary JSON payload from a third-party
// form builder and records it as a lead
func (h *WebhookHandler) ExternalForm(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := uuid.Parse(r.URL.Query().Get("wid"))
	if err != nil {
		response.BadRequest(w, "missing or invalid wid")
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.formService.SubmitExternal(r.Context(), workspaceID, payload); err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "received"})
}

type inboundMessageRequest struct {
	Channel    string `json:"channel" validate:"required,oneof=email sms"`
	From       string `json:"from" validate:"required,max=255"`
	SenderName string `json:"sender_name" validate:"omitempty,max=255"`
	Content    string `json:"content" validate:"required,max=10000"`
}

// InboundMessage routes a provider's inbound email or SMS into the
// workspace identified by the URL token
func (h *WebhookHandler) InboundMessage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var input inboundMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	message, err := h.inboxService.IngestInbound(r.Context(), token, domain.MessageChannel(input.Channel), input.From, input.SenderName, input.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, message)
}
