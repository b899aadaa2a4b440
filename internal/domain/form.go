package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FormField is one typed field definition in a dynamic form. Definitions are
// parsed at the boundary; the core never passes raw serialized blobs around.
type FormField struct {
	ID       string `json:"id" validate:"required,max=64"`
	Type     string `json:"type" validate:"required,oneof=text email phone textarea number date checkbox select"`
	Label    string `json:"label" validate:"required,max=255"`
	Required bool   `json:"required"`
}

// Form is a dynamic intake or contact form owned by a workspace.
type Form struct {
	ID          uuid.UUID   `json:"id"`
	WorkspaceID uuid.UUID   `json:"workspace_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Fields      []FormField `json:"fields"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// FormCreate represents form creation data
type FormCreate struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description string      `json:"description" validate:"max=2000"`
	Fields      []FormField `json:"fields" validate:"omitempty,dive"`
}

// FormUpdate represents form update data
type FormUpdate struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Fields      []FormField `json:"fields,omitempty" validate:"omitempty,dive"`
}

// Form submission statuses
const (
	SubmissionPending   = "pending"
	SubmissionCompleted = "completed"
)

// FormSubmission is a completed intake response, optionally linked to a
// specific booking.
type FormSubmission struct {
	ID          uuid.UUID      `json:"id"`
	FormID      uuid.UUID      `json:"form_id"`
	ContactID   uuid.UUID      `json:"contact_id"`
	BookingID   *uuid.UUID     `json:"booking_id,omitempty"`
	Data        map[string]any `json:"data"`
	Status      string         `json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FormRepository defines the interface for form storage
type FormRepository interface {
	Create(ctx context.Context, form *Form) error
	GetByID(ctx context.Context, id uuid.UUID) (*Form, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Form, error)
	Update(ctx context.Context, id uuid.UUID, update *FormUpdate) error
}

// FormSubmissionRepository defines the interface for submission storage
type FormSubmissionRepository interface {
	Create(ctx context.Context, submission *FormSubmission) error
	ListByForm(ctx context.Context, formID uuid.UUID) ([]FormSubmission, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]FormSubmission, error)
}
