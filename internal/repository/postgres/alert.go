package postgres

import (
	"context"
	"fmt"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
)

// AlertRepository handles staff alert data access
type AlertRepository struct {
	db *DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create creates a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alerts (id, workspace_id, type, severity, title, message, link_to, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		alert.ID,
		alert.WorkspaceID,
		alert.Type,
		alert.Severity,
		alert.Title,
		alert.Message,
		alert.LinkTo,
		alert.IsRead,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// ListByWorkspace retrieves workspace alerts newest first
func (r *AlertRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, unreadOnly bool) ([]domain.Alert, error) {
	query := `
		SELECT id, workspace_id, type, severity, title, message, link_to, is_read, created_at
		FROM alerts
		WHERE workspace_id = $1
	`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var alert domain.Alert
		if err := rows.Scan(
			&alert.ID,
			&alert.WorkspaceID,
			&alert.Type,
			&alert.Severity,
			&alert.Title,
			&alert.Message,
			&alert.LinkTo,
			&alert.IsRead,
			&alert.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, nil
}

// MarkRead marks an alert as read
func (r *AlertRepository) MarkRead(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `UPDATE alerts SET is_read = TRUE WHERE id = $1 AND workspace_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}

	return nil
}
