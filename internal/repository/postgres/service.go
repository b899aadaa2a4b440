package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ServiceRepository handles bookable service data access
type ServiceRepository struct {
	db *DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create creates a new service
func (r *ServiceRepository) Create(ctx context.Context, service *domain.Service) error {
	availableDays, err := json.Marshal(service.AvailableDays)
	if err != nil {
		return fmt.Errorf("failed to marshal available days: %w", err)
	}
	timeSlots, err := json.Marshal(service.TimeSlots)
	if err != nil {
		return fmt.Errorf("failed to marshal time slots: %w", err)
	}

	query := `
		INSERT INTO services (id, workspace_id, name, description, duration,
			available_days, time_slots, buffer_time, max_bookings_per_day,
			address, arrival_instructions, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		service.ID,
		service.WorkspaceID,
		service.Name,
		service.Description,
		service.Duration,
		availableDays,
		timeSlots,
		service.BufferTime,
		service.MaxBookingsPerDay,
		service.Address,
		service.ArrivalInstructions,
		service.IsActive,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// GetByID retrieves a service by ID
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	query := `
		SELECT id, workspace_id, name, description, duration, available_days,
		       time_slots, buffer_time, max_bookings_per_day, address,
		       arrival_instructions, is_active, created_at, updated_at
		FROM services
		WHERE id = $1
	`

	service, err := scanService(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	return service, nil
}

// ListByWorkspace retrieves services for a workspace
func (r *ServiceRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, activeOnly bool) ([]domain.Service, error) {
	query := `
		SELECT id, workspace_id, name, description, duration, available_days,
		       time_slots, buffer_time, max_bookings_per_day, address,
		       arrival_instructions, is_active, created_at, updated_at
		FROM services
		WHERE workspace_id = $1
	`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, *service)
	}

	return services, nil
}

// Update updates a service
func (r *ServiceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.ServiceUpdate) error {
	var availableDays, timeSlots []byte
	var err error
	if update.AvailableDays != nil {
		if availableDays, err = json.Marshal(update.AvailableDays); err != nil {
			return fmt.Errorf("failed to marshal available days: %w", err)
		}
	}
	if update.TimeSlots != nil {
		if timeSlots, err = json.Marshal(update.TimeSlots); err != nil {
			return fmt.Errorf("failed to marshal time slots: %w", err)
		}
	}

	query := `
		UPDATE services
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    duration = COALESCE($4, duration),
		    available_days = COALESCE($5, available_days),
		    time_slots = COALESCE($6, time_slots),
		    buffer_time = COALESCE($7, buffer_time),
		    max_bookings_per_day = COALESCE($8, max_bookings_per_day),
		    address = COALESCE($9, address),
		    arrival_instructions = COALESCE($10, arrival_instructions),
		    is_active = COALESCE($11, is_active),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err = r.db.Pool.Exec(ctx, query, id,
		update.Name, update.Description, update.Duration,
		availableDays, timeSlots,
		update.BufferTime, update.MaxBookingsPerDay,
		update.Address, update.ArrivalInstructions, update.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var service domain.Service
	var availableDays, timeSlots []byte

	err := row.Scan(
		&service.ID,
		&service.WorkspaceID,
		&service.Name,
		&service.Description,
		&service.Duration,
		&availableDays,
		&timeSlots,
		&service.BufferTime,
		&service.MaxBookingsPerDay,
		&service.Address,
		&service.ArrivalInstructions,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(availableDays) > 0 {
		if err := json.Unmarshal(availableDays, &service.AvailableDays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal available days: %w", err)
		}
	}
	if len(timeSlots) > 0 {
		if err := json.Unmarshal(timeSlots, &service.TimeSlots); err != nil {
			return nil, fmt.Errorf("failed to unmarshal time slots: %w", err)
		}
	}

	return &service, nil
}
