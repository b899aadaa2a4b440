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

func TestCatalogCreate_ActivatesAndAdvancesOnboarding(t *testing.T) {
	services := new(MockServiceRepository)
	workspaces := new(MockWorkspaceRepository)
	svc := NewCatalogService(services, workspaces)
	wsID := uuid.New()

	services.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		return s.WorkspaceID == wsID && s.IsActive
	})).Return(nil)
	workspaces.On("Update", mock.Anything, wsID, mock.MatchedBy(func(u *domain.WorkspaceUpdate) bool {
		return u.OnboardingStep != nil && *u.OnboardingStep == domain.OnboardingStepServices+1
	})).Return(nil)

	created, err := svc.Create(context.Background(), wsID, domain.ServiceCreate{
		Name:          "Initial Consultation",
		Duration:      30,
		AvailableDays: []string{"monday"},
		TimeSlots:     []domain.TimeRange{{Start: "09:00", End: "12:00"}},
	})
	require.NoError(t, err)

	assert.True(t, created.IsActive)
	workspaces.AssertExpectations(t)
}

func TestCatalogGet_ForeignWorkspaceRejected(t *testing.T) {
	services := new(MockServiceRepository)
	workspaces := new(MockWorkspaceRepository)
	svc := NewCatalogService(services, workspaces)
	serviceID := uuid.New()

	services.On("GetByID", mock.Anything, serviceID).Return(&domain.Service{
		ID:          serviceID,
		WorkspaceID: uuid.New(),
	}, nil)

	_, err := svc.Get(context.Background(), uuid.New(), serviceID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPublicServices_InactiveWorkspaceHidden(t *testing.T) {
	services := new(MockServiceRepository)
	workspaces := new(MockWorkspaceRepository)
	svc := NewCatalogService(services, workspaces)

	workspaces.On("GetBySlug", mock.Anything, "dormant-spa").Return(&domain.Workspace{
		ID:       uuid.New(),
		Slug:     "dormant-spa",
		IsActive: false,
	}, nil)

	_, _, err := svc.PublicServices(context.Background(), "dormant-spa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	services.AssertNotCalled(t, "ListByWorkspace", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublicServices_ReturnsOnlyActiveServices(t *testing.T) {
	services := new(MockServiceRepository)
	workspaces := new(MockWorkspaceRepository)
	svc := NewCatalogService(services, workspaces)
	wsID := uuid.New()

	workspaces.On("GetBySlug", mock.Anything, "glow-spa").Return(&domain.Workspace{
		ID:       wsID,
		Slug:     "glow-spa",
		IsActive: true,
	}, nil)
	services.On("ListByWorkspace", mock.Anything, wsID, true).Return([]domain.Service{
		{ID: uuid.New(), Name: "Facial", IsActive: true},
	}, nil)

	ws, list, err := svc.PublicServices(context.Background(), "glow-spa")
	require.NoError(t, err)

	assert.Equal(t, wsID, ws.ID)
	require.Len(t, list, 1)
	assert.Equal(t, "Facial", list[0].Name)
}
