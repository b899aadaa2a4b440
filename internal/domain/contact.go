package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Contact provenance tags.
const (
	ContactSourceManual         = "manual"
	ContactSourceBooking        = "booking"
	ContactSourceContactForm    = "contact_form"
	ContactSourceExternalForm   = "external_form"
	ContactSourceInboundMessage = "inbound_message"
)

// Contact is a known customer or lead, deduplicated by email within a
// workspace. Email and Phone may be empty but never both for a usable lead.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactRepository defines the interface for contact storage
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	// FindByEmail returns the first contact in the workspace with the given
	// email, or nil when none exists.
	FindByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*Contact, error)
	// FindByAddress matches either email or phone, used by inbound message
	// ingestion where the channel decides which field the sender address is.
	FindByAddress(ctx context.Context, workspaceID uuid.UUID, address string) (*Contact, error)
	FindByPhone(ctx context.Context, workspaceID uuid.UUID, phone string) (*Contact, error)
	CountCreatedSince(ctx context.Context, workspaceID uuid.UUID, since time.Time) (int, error)
}
