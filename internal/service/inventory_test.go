package service

import (
	"context"
	"testing"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (*InventoryService, *MockResourceRepository, *MockWorkspaceRepository, *recordingDispatcher) {
	resources := &MockResourceRepository{}
	workspaces := &MockWorkspaceRepository{}
	dispatcher := &recordingDispatcher{}
	svc := NewInventoryService(resources, workspaces, dispatcher)
	return svc, resources, workspaces, dispatcher
}

func TestInventoryUpdate_CrossingThresholdRaisesEvent(t *testing.T) {
	wsID := uuid.New()
	svc, resources, _, dispatcher := newInventoryFixture()

	before := &domain.Resource{ID: uuid.New(), WorkspaceID: wsID, Name: "Gloves", CurrentStock: 10, LowStockThreshold: 5}
	after := &domain.Resource{ID: before.ID, WorkspaceID: wsID, Name: "Gloves", CurrentStock: 4, LowStockThreshold: 5}

	resources.On("GetByID", mock.Anything, before.ID).Return(before, nil).Once()
	resources.On("Update", mock.Anything, before.ID, mock.Anything).Return(nil)
	resources.On("GetByID", mock.Anything, before.ID).Return(after, nil).Once()

	stock := 4
	got, err := svc.Update(context.Background(), wsID, before.ID, domain.ResourceUpdate{CurrentStock: &stock})

	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStock)

	events := dispatcher.named(domain.EventInventoryLow)
	require.Len(t, events, 1)
	low := events[0].(domain.InventoryLowEvent)
	assert.Equal(t, "Gloves", low.Resource.Name)
}

func TestInventoryUpdate_AlreadyLowStaysQuiet(t *testing.T) {
	wsID := uuid.New()
	svc, resources, _, dispatcher := newInventoryFixture()

	before := &domain.Resource{ID: uuid.New(), WorkspaceID: wsID, Name: "Gloves", CurrentStock: 3, LowStockThreshold: 5}
	after := &domain.Resource{ID: before.ID, WorkspaceID: wsID, Name: "Gloves", CurrentStock: 2, LowStockThreshold: 5}

	resources.On("GetByID", mock.Anything, before.ID).Return(before, nil).Once()
	resources.On("Update", mock.Anything, before.ID, mock.Anything).Return(nil)
	resources.On("GetByID", mock.Anything, before.ID).Return(after, nil).Once()

	stock := 2
	_, err := svc.Update(context.Background(), wsID, before.ID, domain.ResourceUpdate{CurrentStock: &stock})

	require.NoError(t, err)
	assert.Empty(t, dispatcher.named(domain.EventInventoryLow))
}

func TestInventoryUpdate_ForeignWorkspaceRejected(t *testing.T) {
	svc, resources, _, _ := newInventoryFixture()

	resource := &domain.Resource{ID: uuid.New(), WorkspaceID: uuid.New()}
	resources.On("GetByID", mock.Anything, resource.ID).Return(resource, nil)

	stock := 1
	_, err := svc.Update(context.Background(), uuid.New(), resource.ID, domain.ResourceUpdate{CurrentStock: &stock})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	resources.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustStock_ClampsAtZero(t *testing.T) {
	wsID := uuid.New()
	svc, resources, _, _ := newInventoryFixture()

	resource := &domain.Resource{ID: uuid.New(), WorkspaceID: wsID, Name: "Gloves", CurrentStock: 2, LowStockThreshold: 0}
	drained := &domain.Resource{ID: resource.ID, WorkspaceID: wsID, Name: "Gloves", CurrentStock: 0, LowStockThreshold: 0}

	resources.On("GetByID", mock.Anything, resource.ID).Return(resource, nil).Twice()
	resources.On("Update", mock.Anything, resource.ID, mock.MatchedBy(func(u *domain.ResourceUpdate) bool {
		return u.CurrentStock != nil && *u.CurrentStock == 0
	})).Return(nil)
	resources.On("GetByID", mock.Anything, resource.ID).Return(drained, nil)

	got, err := svc.AdjustStock(context.Background(), wsID, resource.ID, -10)

	require.NoError(t, err)
	assert.Zero(t, got.CurrentStock)
}

func TestInventoryCreate_AdvancesOnboarding(t *testing.T) {
	wsID := uuid.New()
	svc, resources, workspaces, _ := newInventoryFixture()

	resources.On("Create", mock.Anything, mock.Anything).Return(nil)
	workspaces.On("Update", mock.Anything, wsID, mock.MatchedBy(func(u *domain.WorkspaceUpdate) bool {
		return u.OnboardingStep != nil && *u.OnboardingStep == domain.OnboardingComplete
	})).Return(nil)

	_, err := svc.Create(context.Background(), wsID, domain.ResourceCreate{Name: "Gloves", CurrentStock: 10, LowStockThreshold: 2})

	require.NoError(t, err)
	workspaces.AssertExpectations(t)
}
