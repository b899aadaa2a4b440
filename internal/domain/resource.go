package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Resource is an inventory item tracked by a workspace.
type Resource struct {
	ID                uuid.UUID  `json:"id"`
	WorkspaceID       uuid.UUID  `json:"workspace_id"`
	Name              string     `json:"name"`
	CurrentStock      int        `json:"current_stock"`
	LowStockThreshold int        `json:"low_stock_threshold"`
	Unit              string     `json:"unit"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsLow reports whether the item's stock sits at or below its threshold.
func (r *Resource) IsLow() bool {
	return r.CurrentStock <= r.LowStockThreshold
}

// ResourceCreate represents inventory item creation data
type ResourceCreate struct {
	Name              string     `json:"name" validate:"required,max=255"`
	CurrentStock      int        `json:"current_stock" validate:"gte=0"`
	LowStockThreshold int        `json:"low_stock_threshold" validate:"gte=0"`
	Unit              string     `json:"unit" validate:"max=32"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
}

// ResourceUpdate represents inventory item update data
type ResourceUpdate struct {
	Name              *string    `json:"name,omitempty" validate:"omitempty,max=255"`
	CurrentStock      *int       `json:"current_stock,omitempty" validate:"omitempty,gte=0"`
	LowStockThreshold *int       `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	Unit              *string    `json:"unit,omitempty" validate:"omitempty,max=32"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
}

// ResourceRepository defines the interface for inventory storage
type ResourceRepository interface {
	Create(ctx context.Context, resource *Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Resource, error)
	Update(ctx context.Context, id uuid.UUID, update *ResourceUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
