package domain

import (
	"time"

	"github.com/google/uuid"
)

// Automation event names. The dispatcher maps this closed set to handlers;
// anything else is a no-op.
const (
	EventBookingCreated  = "booking.created"
	EventFormSubmitted   = "form.submitted"
	EventInventoryLow    = "inventory.low"
	EventMessageIncoming = "message.incoming"
)

// Event is a named occurrence routed through the automation dispatcher.
// Each concrete event carries its own typed payload.
type Event interface {
	EventName() string
	EventWorkspace() uuid.UUID
}

// BookingCreatedEvent fires after a booking row is persisted.
type BookingCreatedEvent struct {
	WorkspaceID uuid.UUID
	BookingID   uuid.UUID
	Contact     Contact
	Service     Service
	StartTime   time.Time
}

func (e BookingCreatedEvent) EventName() string { return EventBookingCreated }
func (e BookingCreatedEvent) EventWorkspace() uuid.UUID { return e.WorkspaceID }

// FormSubmittedEvent fires after a contact or external form submission is
// stored.
type FormSubmittedEvent struct {
	WorkspaceID uuid.UUID
	Contact     Contact
	Message     string
}

func (e FormSubmittedEvent) EventName() string { return EventFormSubmitted }
func (e FormSubmittedEvent) EventWorkspace() uuid.UUID { return e.WorkspaceID }

// InventoryLowEvent fires when a stock mutation lands at or below the item's
// threshold.
type InventoryLowEvent struct {
	WorkspaceID uuid.UUID
	Resource    Resource
}

func (e InventoryLowEvent) EventName() string { return EventInventoryLow }
func (e InventoryLowEvent) EventWorkspace() uuid.UUID { return e.WorkspaceID }

// MessageIncomingEvent fires after an inbound message is appended to a
// conversation.
type MessageIncomingEvent struct {
	WorkspaceID  uuid.UUID
	Message      Message
	Contact      Contact
	Conversation Conversation
}

func (e MessageIncomingEvent) EventName() string { return EventMessageIncoming }
func (e MessageIncomingEvent) EventWorkspace() uuid.UUID { return e.WorkspaceID }
