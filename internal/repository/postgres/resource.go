package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ResourceRepository handles inventory data access
type ResourceRepository struct {
	db *DB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// Create creates a new inventory item
func (r *ResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	query := `
		INSERT INTO resources (id, workspace_id, name, current_stock,
			low_stock_threshold, unit, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		resource.ID,
		resource.WorkspaceID,
		resource.Name,
		resource.CurrentStock,
		resource.LowStockThreshold,
		resource.Unit,
		resource.ExpiryDate,
		resource.CreatedAt,
		resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	return nil
}

// GetByID retrieves an inventory item by ID
func (r *ResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resource, error) {
	query := `
		SELECT id, workspace_id, name, current_stock, low_stock_threshold,
		       unit, expiry_date, created_at, updated_at
		FROM resources
		WHERE id = $1
	`

	var resource domain.Resource
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&resource.ID,
		&resource.WorkspaceID,
		&resource.Name,
		&resource.CurrentStock,
		&resource.LowStockThreshold,
		&resource.Unit,
		&resource.ExpiryDate,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	return &resource, nil
}

// ListByWorkspace retrieves all inventory items for a workspace
func (r *ResourceRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Resource, error) {
	query := `
		SELECT id, workspace_id, name, current_stock, low_stock_threshold,
		       unit, expiry_date, created_at, updated_at
		FROM resources
		WHERE workspace_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		var resource domain.Resource
		if err := rows.Scan(
			&resource.ID,
			&resource.WorkspaceID,
			&resource.Name,
			&resource.CurrentStock,
			&resource.LowStockThreshold,
			&resource.Unit,
			&resource.ExpiryDate,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, resource)
	}

	return resources, nil
}

// Update updates an inventory item
func (r *ResourceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.ResourceUpdate) error {
	query := `
		UPDATE resources
		SET name = COALESCE($2, name),
		    current_stock = COALESCE($3, current_stock),
		    low_stock_threshold = COALESCE($4, low_stock_threshold),
		    unit = COALESCE($5, unit),
		    expiry_date = COALESCE($6, expiry_date),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id,
		update.Name, update.CurrentStock, update.LowStockThreshold,
		update.Unit, update.ExpiryDate)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}

	return nil
}

// Delete removes an inventory item
func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM resources WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	return nil
}
