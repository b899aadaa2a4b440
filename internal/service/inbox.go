package service

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Deliverer is the raw provider side of the communications gateway, used for
// staff replies that keep their own conversation records.
type Deliverer interface {
	DeliverEmail(ctx context.Context, ws *domain.Workspace, to, subject, body, replyTo string) bool
	DeliverSMS(ctx context.Context, ws *domain.Workspace, to, body string) bool
}

// InboxService manages the omni-channel conversation inbox
type InboxService struct {
	workspaceRepo    domain.WorkspaceRepository
	contactRepo      domain.ContactRepository
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
	deliverer        Deliverer
	dispatcher       EventDispatcher
	logger           zerolog.Logger
}

// NewInboxService creates a new inbox service
func NewInboxService(
	workspaceRepo domain.WorkspaceRepository,
	contactRepo domain.ContactRepository,
	conversationRepo domain.ConversationRepository,
	messageRepo domain.MessageRepository,
	deliverer Deliverer,
	dispatcher EventDispatcher,
	logger zerolog.Logger,
) *InboxService {
	return &InboxService{
		workspaceRepo:    workspaceRepo,
		contactRepo:      contactRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		deliverer:        deliverer,
		dispatcher:       dispatcher,
		logger:           logger,
	}
}

// List returns workspace conversations, optionally filtered by the channel
// their messages travelled over.
func (s *InboxService) List(ctx context.Context, workspaceID uuid.UUID, channel domain.MessageChannel) ([]domain.Conversation, error) {
	conversations, err := s.conversationRepo.ListByWorkspace(ctx, workspaceID, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// Thread returns a conversation with its full message history and clears its
// unread counter.
func (s *InboxService) Thread(ctx context.Context, workspaceID, conversationID uuid.UUID) (*domain.Conversation, []domain.Message, error) {
	conv, err := s.getOwned(ctx, workspaceID, conversationID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list messages: %w", err)
	}

	if err := s.conversationRepo.MarkRead(ctx, conv.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to mark read: %w", err)
	}
	conv.UnreadCount = 0

	return conv, messages, nil
}

// Reply sends a staff response over the chosen channel and appends it to the
// conversation. Delivery failure surfaces as an error so staff can retry.
func (s *InboxService) Reply(ctx context.Context, workspaceID, conversationID uuid.UUID, channel domain.MessageChannel, content, senderName string) (*domain.Message, error) {
	conv, err := s.getOwned(ctx, workspaceID, conversationID)
	if err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.GetByID(ctx, conv.ContactID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}

	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil || ws == nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	var delivered bool
	switch channel {
	case domain.ChannelEmail:
		if contact.Email == "" {
			return nil, fmt.Errorf("%w: contact has no email address", domain.ErrValidation)
		}
		delivered = s.deliverer.DeliverEmail(ctx, ws, contact.Email, "New message from "+ws.Name, content, ws.ContactEmail)
	case domain.ChannelSMS:
		if contact.Phone == "" {
			return nil, fmt.Errorf("%w: contact has no phone number", domain.ErrValidation)
		}
		delivered = s.deliverer.DeliverSMS(ctx, ws, contact.Phone, content)
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", domain.ErrValidation, channel)
	}
	if !delivered {
		return nil, fmt.Errorf("failed to deliver %s reply", channel)
	}

	now := time.Now().UTC()
	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Channel:        channel,
		Direction:      domain.DirectionOutbound,
		Content:        content,
		SenderType:     domain.SenderStaff,
		SenderName:     senderName,
		Status:         domain.MessageSent,
		CreatedAt:      now,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to record reply: %w", err)
	}
	if err := s.conversationRepo.RecordMessageAt(ctx, conv.ID, now, false); err != nil {
		return nil, fmt.Errorf("failed to bump conversation: %w", err)
	}

	return msg, nil
}

// IngestInbound records a customer message arriving through a provider
// webhook. The token identifies the workspace; unknown senders get a
// placeholder contact so no message is ever dropped.
func (s *InboxService) IngestInbound(ctx context.Context, token string, channel domain.MessageChannel, from, senderName, content string) (*domain.Message, error) {
	ws, err := s.workspaceRepo.GetByInboundToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inbound token: %w", err)
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}

	contact, err := s.contactRepo.FindByAddress(ctx, ws.ID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	if contact == nil {
		name := senderName
		if name == "" {
			name = "Unknown Contact"
		}
		contact = &domain.Contact{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			Name:        name,
			Source:      domain.ContactSourceInboundMessage,
			CreatedAt:   time.Now().UTC(),
		}
		if channel == domain.ChannelSMS {
			contact.Phone = from
		} else {
			contact.Email = from
		}
		if err := s.contactRepo.Create(ctx, contact); err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
	}

	conv, err := s.conversationRepo.LatestActiveByContact(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	now := time.Now().UTC()
	if conv == nil {
		conv = &domain.Conversation{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			ContactID:   contact.ID,
			Status:      domain.ConversationActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.conversationRepo.Create(ctx, conv); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Channel:        channel,
		Direction:      domain.DirectionInbound,
		Content:        content,
		SenderType:     domain.SenderContact,
		SenderName:     contact.Name,
		Status:         domain.MessageReceived,
		CreatedAt:      now,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to record message: %w", err)
	}
	if err := s.conversationRepo.RecordMessageAt(ctx, conv.ID, now, true); err != nil {
		return nil, fmt.Errorf("failed to bump conversation: %w", err)
	}

	s.dispatcher.Dispatch(ctx, domain.MessageIncomingEvent{
		WorkspaceID:  ws.ID,
		Message:      *msg,
		Contact:      *contact,
		Conversation: *conv,
	})

	return msg, nil
}

func (s *InboxService) getOwned(ctx context.Context, workspaceID, conversationID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, domain.ErrNotFound
	}
	if conv.WorkspaceID != workspaceID {
		return nil, domain.ErrUnauthorized
	}
	return conv, nil
}
