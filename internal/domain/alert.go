package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Alert types produced by the automation dispatcher.
const (
	AlertLowInventory  = "low_inventory"
	AlertMissedMessage = "missed_message"
)

// Alert severities
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Alert is an internally generated staff-facing notice, distinct from
// outbound customer communication.
type Alert struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	LinkTo      string    `json:"link_to,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// AlertRepository defines the interface for alert storage
type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, unreadOnly bool) ([]Alert, error)
	MarkRead(ctx context.Context, workspaceID, id uuid.UUID) error
}
