package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a reserved appointment. Duration is copied from the service at
// creation time so later service edits never shift past appointments.
type Booking struct {
	ID             uuid.UUID     `json:"id"`
	WorkspaceID    uuid.UUID     `json:"workspace_id"`
	ServiceID      uuid.UUID     `json:"service_id"`
	ContactID      uuid.UUID     `json:"contact_id"`
	ScheduledAt    time.Time     `json:"scheduled_at"`
	Duration       int           `json:"duration"` // minutes
	Status         BookingStatus `json:"status"`
	FormsCompleted bool          `json:"forms_completed"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BookingCreate represents a booking request from the public widget or the
// staff manual-booking form. Date and Time are the literal wall-clock values
// the caller picked; they are stored as supplied, never timezone-converted.
type BookingCreate struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string    `json:"time" validate:"required,datetime=15:04"`
	Name      string    `json:"name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email,max=255"`
	Phone     string    `json:"phone" validate:"omitempty,max=32"`
	Manual    bool      `json:"-"`
}

// BookingFilter narrows staff booking lists
type BookingFilter struct {
	Status string
	Search string
	Date   string // "2006-01-02"
}

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	// Create persists a booking; returns ErrSlotTaken when another
	// non-cancelled booking already holds (service_id, scheduled_at).
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// ListActiveByServiceBetween returns non-cancelled bookings for a service
	// with scheduled_at in [from, to].
	ListActiveByServiceBetween(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]Booking, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter BookingFilter) ([]Booking, error)
	ListRecent(ctx context.Context, workspaceID uuid.UUID, limit int) ([]Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status BookingStatus) error
	SetFormsCompleted(ctx context.Context, id uuid.UUID) error
	CountScheduledBetween(ctx context.Context, workspaceID uuid.UUID, from, to time.Time) (int, error)
	CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error)
	CountByStatus(ctx context.Context, workspaceID uuid.UUID, status BookingStatus) (int, error)
}
