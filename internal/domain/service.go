package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TimeRange is a wall-clock working range in "HH:MM" 24h format.
type TimeRange struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

// Service is a bookable offering with a fixed duration and a weekly
// availability template.
type Service struct {
	ID                  uuid.UUID   `json:"id"`
	WorkspaceID         uuid.UUID   `json:"workspace_id"`
	Name                string      `json:"name"`
	Description         string      `json:"description,omitempty"`
	Duration            int         `json:"duration"` // minutes
	AvailableDays       []string    `json:"available_days"`
	TimeSlots           []TimeRange `json:"time_slots"`
	BufferTime          int         `json:"buffer_time"` // minutes after each booking
	MaxBookingsPerDay   *int        `json:"max_bookings_per_day,omitempty"`
	Address             string      `json:"address,omitempty"`
	ArrivalInstructions string      `json:"arrival_instructions,omitempty"`
	IsActive            bool        `json:"is_active"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// ServiceCreate represents service creation data
type ServiceCreate struct {
	Name                string      `json:"name" validate:"required,max=255"`
	Description         string      `json:"description" validate:"max=2000"`
	Duration            int         `json:"duration" validate:"required,gt=0"`
	AvailableDays       []string    `json:"available_days" validate:"dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	TimeSlots           []TimeRange `json:"time_slots" validate:"dive"`
	BufferTime          int         `json:"buffer_time" validate:"gte=0"`
	MaxBookingsPerDay   *int        `json:"max_bookings_per_day" validate:"omitempty,gt=0"`
	Address             string      `json:"address" validate:"max=500"`
	ArrivalInstructions string      `json:"arrival_instructions" validate:"max=2000"`
}

// ServiceUpdate represents service update data
type ServiceUpdate struct {
	Name                *string     `json:"name,omitempty" validate:"omitempty,max=255"`
	Description         *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Duration            *int        `json:"duration,omitempty" validate:"omitempty,gt=0"`
	AvailableDays       []string    `json:"available_days,omitempty" validate:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	TimeSlots           []TimeRange `json:"time_slots,omitempty" validate:"omitempty,dive"`
	BufferTime          *int        `json:"buffer_time,omitempty" validate:"omitempty,gte=0"`
	MaxBookingsPerDay   *int        `json:"max_bookings_per_day,omitempty" validate:"omitempty,gt=0"`
	Address             *string     `json:"address,omitempty" validate:"omitempty,max=500"`
	ArrivalInstructions *string     `json:"arrival_instructions,omitempty" validate:"omitempty,max=2000"`
	IsActive            *bool       `json:"is_active,omitempty"`
}

// ServiceRepository defines the interface for service storage
type ServiceRepository interface {
	Create(ctx context.Context, service *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, activeOnly bool) ([]Service, error)
	Update(ctx context.Context, id uuid.UUID, update *ServiceUpdate) error
}
