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

// InboxHandler handles conversation and message requests
type InboxHandler struct {
	inboxService *service.InboxService
}

// NewInboxHandler creates a new inbox handler
func NewInboxHandler(inboxService *service.InboxService) *InboxHandler {
	return &InboxHandler{inboxService: inboxService}
}

// List returns the workspace's conversations, newest activity first
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	channel := domain.MessageChannel(r.URL.Query().Get("channel"))

	conversations, err := h.inboxService.List(r.Context(), workspaceID, channel)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, conversations)
}

// Thread returns a conversation with its messages and marks it read
func (h *InboxHandler) Thread(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	conversation, messages, err := h.inboxService.Thread(r.Context(), workspaceID, conversationID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"conversation": conversation,
		"messages":     messages,
	})
}

type replyRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email sms"`
	Content string `json:"content" validate:"required,max=5000"`
}

// Reply sends a staff message out on the requested channel
func (h *InboxHandler) Reply(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	var input replyRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	senderName, _ := middleware.GetUserEmail(r.Context())

	message, err := h.inboxService.Reply(r.Context(), workspaceID, conversationID, domain.MessageChannel(input.Channel), input.Content, senderName)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, message)
}
