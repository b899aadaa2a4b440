package service

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
)

// CatalogService manages a workspace's bookable services
type CatalogService struct {
	serviceRepo   domain.ServiceRepository
	workspaceRepo domain.WorkspaceRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(serviceRepo domain.ServiceRepository, workspaceRepo domain.WorkspaceRepository) *CatalogService {
	return &CatalogService{
		serviceRepo:   serviceRepo,
		workspaceRepo: workspaceRepo,
	}
}

// Create adds a bookable service and moves workspace onboarding past the
// services step.
func (s *CatalogService) Create(ctx context.Context, workspaceID uuid.UUID, input domain.ServiceCreate) (*domain.Service, error) {
	now := time.Now().UTC()
	svc := &domain.Service{
		ID:                  uuid.New(),
		WorkspaceID:         workspaceID,
		Name:                input.Name,
		Description:         input.Description,
		Duration:            input.Duration,
		AvailableDays:       input.AvailableDays,
		TimeSlots:           input.TimeSlots,
		BufferTime:          input.BufferTime,
		MaxBookingsPerDay:   input.MaxBookingsPerDay,
		Address:             input.Address,
		ArrivalInstructions: input.ArrivalInstructions,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	advanceOnboarding(ctx, s.workspaceRepo, workspaceID, domain.OnboardingStepServices)

	return svc, nil
}

// Get retrieves a service within the caller's workspace
func (s *CatalogService) Get(ctx context.Context, workspaceID, serviceID uuid.UUID) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	if svc.WorkspaceID != workspaceID {
		return nil, domain.ErrUnauthorized
	}
	return svc, nil
}

// List returns all of a workspace's services, active or not
func (s *CatalogService) List(ctx context.Context, workspaceID uuid.UUID) ([]domain.Service, error) {
	services, err := s.serviceRepo.ListByWorkspace(ctx, workspaceID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// Update modifies a service within the caller's workspace
func (s *CatalogService) Update(ctx context.Context, workspaceID, serviceID uuid.UUID, update domain.ServiceUpdate) (*domain.Service, error) {
	if _, err := s.Get(ctx, workspaceID, serviceID); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Update(ctx, serviceID, &update); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	return s.serviceRepo.GetByID(ctx, serviceID)
}

// PublicServices lists the active services of an active workspace for the
// public booking page.
func (s *CatalogService) PublicServices(ctx context.Context, slug string) (*domain.Workspace, []domain.Service, error) {
	ws, err := s.workspaceRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if ws == nil || !ws.IsActive {
		return nil, nil, domain.ErrNotFound
	}

	services, err := s.serviceRepo.ListByWorkspace(ctx, ws.ID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list services: %w", err)
	}
	return ws, services, nil
}

// advanceOnboarding records that an onboarding step is done by moving the
// workspace to the next one. The column update is monotonic, replays and
// out-of-order completions never move the step backwards. Failures are
// swallowed, onboarding progress is cosmetic next to the operation itself.
func advanceOnboarding(ctx context.Context, repo domain.WorkspaceRepository, workspaceID uuid.UUID, completedStep int) {
	next := completedStep + 1
	if next > domain.OnboardingComplete {
		next = domain.OnboardingComplete
	}
	_ = repo.Update(ctx, workspaceID, &domain.WorkspaceUpdate{OnboardingStep: &next})
}
