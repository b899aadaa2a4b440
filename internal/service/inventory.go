package service

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
)

// InventoryService manages stock items and raises low-stock events when a
// mutation crosses an item's threshold.
type InventoryService struct {
	resourceRepo  domain.ResourceRepository
	workspaceRepo domain.WorkspaceRepository
	dispatcher    EventDispatcher
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	resourceRepo domain.ResourceRepository,
	workspaceRepo domain.WorkspaceRepository,
	dispatcher EventDispatcher,
) *InventoryService {
	return &InventoryService{
		resourceRepo:  resourceRepo,
		workspaceRepo: workspaceRepo,
		dispatcher:    dispatcher,
	}
}

// Create adds an inventory item and moves workspace onboarding past the
// inventory step.
func (s *InventoryService) Create(ctx context.Context, workspaceID uuid.UUID, input domain.ResourceCreate) (*domain.Resource, error) {
	now := time.Now().UTC()
	resource := &domain.Resource{
		ID:                uuid.New(),
		WorkspaceID:       workspaceID,
		Name:              input.Name,
		CurrentStock:      input.CurrentStock,
		LowStockThreshold: input.LowStockThreshold,
		Unit:              input.Unit,
		ExpiryDate:        input.ExpiryDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	advanceOnboarding(ctx, s.workspaceRepo, workspaceID, domain.OnboardingStepInventory)

	return resource, nil
}

// Get retrieves an item within the caller's workspace
func (s *InventoryService) Get(ctx context.Context, workspaceID, resourceID uuid.UUID) (*domain.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	if resource == nil {
		return nil, domain.ErrNotFound
	}
	if resource.WorkspaceID != workspaceID {
		return nil, domain.ErrUnauthorized
	}
	return resource, nil
}

// List returns a workspace's inventory
func (s *InventoryService) List(ctx context.Context, workspaceID uuid.UUID) ([]domain.Resource, error) {
	resources, err := s.resourceRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

// Update modifies an item. Crossing from healthy to at-or-below threshold
// raises the low stock event; an item that was already low stays quiet so
// staff are not re-alerted on every edit.
func (s *InventoryService) Update(ctx context.Context, workspaceID, resourceID uuid.UUID, update domain.ResourceUpdate) (*domain.Resource, error) {
	before, err := s.Get(ctx, workspaceID, resourceID)
	if err != nil {
		return nil, err
	}
	wasLow := before.IsLow()

	if err := s.resourceRepo.Update(ctx, resourceID, &update); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}

	after, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload resource: %w", err)
	}
	if after == nil {
		return nil, domain.ErrNotFound
	}

	if !wasLow && after.IsLow() {
		s.dispatcher.Dispatch(ctx, domain.InventoryLowEvent{
			WorkspaceID: workspaceID,
			Resource:    *after,
		})
	}

	return after, nil
}

// AdjustStock shifts an item's stock by delta, clamped at zero
func (s *InventoryService) AdjustStock(ctx context.Context, workspaceID, resourceID uuid.UUID, delta int) (*domain.Resource, error) {
	resource, err := s.Get(ctx, workspaceID, resourceID)
	if err != nil {
		return nil, err
	}

	stock := resource.CurrentStock + delta
	if stock < 0 {
		stock = 0
	}

	return s.Update(ctx, workspaceID, resourceID, domain.ResourceUpdate{CurrentStock: &stock})
}

// Delete removes an item within the caller's workspace
func (s *InventoryService) Delete(ctx context.Context, workspaceID, resourceID uuid.UUID) error {
	if _, err := s.Get(ctx, workspaceID, resourceID); err != nil {
		return err
	}
	if err := s.resourceRepo.Delete(ctx, resourceID); err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return nil
}
