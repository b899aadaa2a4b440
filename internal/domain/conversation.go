package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageChannel identifies the transport a message travelled over
type MessageChannel string

const (
	ChannelEmail  MessageChannel = "email"
	ChannelSMS    MessageChannel = "sms"
	ChannelSystem MessageChannel = "system"
)

// MessageDirection distinguishes customer traffic from business traffic
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Message sender types
const (
	SenderContact = "contact"
	SenderStaff   = "staff"
	SenderSystem  = "system"
)

// Message delivery statuses
const (
	MessageReceived = "received"
	MessageSent     = "sent"
)

// Conversation statuses
const (
	ConversationActive = "active"
	ConversationOpen   = "open"
)

// Conversation is an inbox thread tying a contact to a sequence of messages.
type Conversation struct {
	ID            uuid.UUID  `json:"id"`
	WorkspaceID   uuid.UUID  `json:"workspace_id"`
	ContactID     uuid.UUID  `json:"contact_id"`
	Status        string     `json:"status"`
	Subject       string     `json:"subject,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Message is one unit of communication inside a conversation. Append-only.
type Message struct {
	ID             uuid.UUID        `json:"id"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Channel        MessageChannel   `json:"channel"`
	Direction      MessageDirection `json:"direction"`
	Content        string           `json:"content"`
	SenderType     string           `json:"sender_type"`
	SenderName     string           `json:"sender_name,omitempty"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ConversationRepository defines the interface for conversation storage
type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	// FirstByContact returns the contact's oldest conversation, or nil.
	FirstByContact(ctx context.Context, contactID uuid.UUID) (*Conversation, error)
	// LatestActiveByContact returns the most recently updated active
	// conversation for a contact, or nil.
	LatestActiveByContact(ctx context.Context, contactID uuid.UUID) (*Conversation, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, channel MessageChannel) ([]Conversation, error)
	ListRecent(ctx context.Context, workspaceID uuid.UUID, limit int) ([]Conversation, error)
	// RecordMessageAt bumps last_message_at and, for inbound traffic, the
	// unread counter.
	RecordMessageAt(ctx context.Context, id uuid.UUID, at time.Time, incrementUnread bool) error
	MarkRead(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, workspaceID uuid.UUID) (int, error)
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
}
