package service

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/careops/platform/internal/security"
	"github.com/google/uuid"
)

// WorkspaceService manages tenant lifecycle and staff membership
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// Create provisions a new workspace with the creating user as owner. New
// workspaces start inactive and go live through Launch once set up.
func (s *WorkspaceService) Create(ctx context.Context, ownerID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	existing, err := s.workspaceRepo.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: slug already in use", domain.ErrValidation)
	}

	inboundToken, err := security.GenerateToken(24)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ws := &domain.Workspace{
		ID:             uuid.New(),
		Name:           input.Name,
		Slug:           input.Slug,
		Timezone:       input.Timezone,
		ContactEmail:   input.ContactEmail,
		IsActive:       false,
		OnboardingStep: domain.OnboardingStepIntegrations,
		InboundToken:   inboundToken,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.workspaceRepo.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: ws.ID,
		UserID:      ownerID,
		Role:        domain.RoleOwner,
		CreatedAt:   now,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner: %w", err)
	}

	return ws, nil
}

// Get retrieves a workspace by ID
func (s *WorkspaceService) Get(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	ws, err := s.workspaceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}
	return ws, nil
}

// Update modifies workspace settings. Saving provider credentials completes
// the integrations onboarding step.
func (s *WorkspaceService) Update(ctx context.Context, id uuid.UUID, update domain.WorkspaceUpdate) (*domain.Workspace, error) {
	if err := s.workspaceRepo.Update(ctx, id, &update); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	if update.EmailConfig != nil || update.SMSConfig != nil {
		advanceOnboarding(ctx, s.workspaceRepo, id, domain.OnboardingStepIntegrations)
	}

	return s.Get(ctx, id)
}

// Launch flips the workspace live so its public booking page and widgets
// start serving.
func (s *WorkspaceService) Launch(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.SetActive(ctx, ws.ID, true); err != nil {
		return nil, fmt.Errorf("failed to activate workspace: %w", err)
	}

	complete := domain.OnboardingComplete
	_ = s.workspaceRepo.Update(ctx, ws.ID, &domain.WorkspaceUpdate{OnboardingStep: &complete})

	return s.Get(ctx, id)
}

// ListForUser returns the workspaces a staff user belongs to
func (s *WorkspaceService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// AddStaff grants a user access to the workspace
func (s *WorkspaceService) AddStaff(ctx context.Context, workspaceID, userID uuid.UUID) error {
	member := &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        domain.RoleStaff,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RequireMember verifies the user belongs to the workspace
func (s *WorkspaceService) RequireMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	ok, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
