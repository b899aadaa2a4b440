package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Onboarding steps. A workspace is fully onboarded once it reaches
// OnboardingComplete; the step value only ever moves forward.
const (
	OnboardingStepWorkspace    = 1
	OnboardingStepIntegrations = 2
	OnboardingStepServices     = 3
	OnboardingStepForms        = 4
	OnboardingStepInventory    = 5
	OnboardingComplete         = 6
)

// EmailProviderConfig holds a workspace's outbound email credentials.
type EmailProviderConfig struct {
	APIKey    string `json:"api_key"`
	FromEmail string `json:"from_email"`
}

// SMSProviderConfig holds a workspace's outbound SMS credentials.
type SMSProviderConfig struct {
	AccountSID  string `json:"account_sid"`
	AuthToken   string `json:"auth_token"`
	PhoneNumber string `json:"phone_number"`
}

// Workspace represents a tenant: one service business's isolated data partition.
type Workspace struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Slug           string               `json:"slug"`
	Timezone       string               `json:"timezone"`
	ContactEmail   string               `json:"contact_email"`
	IsActive       bool                 `json:"is_active"`
	OnboardingStep int                  `json:"onboarding_step"`
	InboundToken   string               `json:"-"`
	EmailConfig    *EmailProviderConfig `json:"-"`
	SMSConfig      *SMSProviderConfig   `json:"-"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name         string `json:"name" validate:"required,max=255"`
	Slug         string `json:"slug" validate:"required,max=64,lowercase,excludesall= "`
	Timezone     string `json:"timezone" validate:"omitempty,max=64"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// WorkspaceUpdate represents workspace update data
type WorkspaceUpdate struct {
	Name           *string              `json:"name,omitempty" validate:"omitempty,max=255"`
	Timezone       *string              `json:"timezone,omitempty" validate:"omitempty,max=64"`
	ContactEmail   *string              `json:"contact_email,omitempty" validate:"omitempty,email"`
	OnboardingStep *int                 `json:"onboarding_step,omitempty" validate:"omitempty,min=1,max=6"`
	EmailConfig    *EmailProviderConfig `json:"email_config,omitempty"`
	SMSConfig      *SMSProviderConfig   `json:"sms_config,omitempty"`
}

// WorkspaceMember represents a staff user's membership in a workspace
type WorkspaceMember struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Role constants
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// WorkspaceRepository defines the interface for workspace storage
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	GetBySlug(ctx context.Context, slug string) (*Workspace, error)
	GetByInboundToken(ctx context.Context, token string) (*Workspace, error)
	Update(ctx context.Context, id uuid.UUID, update *WorkspaceUpdate) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]Workspace, error)
	AddMember(ctx context.Context, member *WorkspaceMember) error
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*WorkspaceMember, error)
	IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
}
