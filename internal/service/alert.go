package service

import (
	"context"
	"fmt"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
)

// AlertService exposes dispatcher-created staff alerts
type AlertService struct {
	alertRepo domain.AlertRepository
}

// NewAlertService creates a new alert service
func NewAlertService(alertRepo domain.AlertRepository) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

// List returns workspace alerts, optionally only unread ones
func (s *AlertService) List(ctx context.Context, workspaceID uuid.UUID, unreadOnly bool) ([]domain.Alert, error) {
	alerts, err := s.alertRepo.ListByWorkspace(ctx, workspaceID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// MarkRead marks an alert read. Scoped to the workspace, a foreign alert ID
// is a silent no-op.
func (s *AlertService) MarkRead(ctx context.Context, workspaceID, alertID uuid.UUID) error {
	if err := s.alertRepo.MarkRead(ctx, workspaceID, alertID); err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	return nil
}
