package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// BookingRepository handles booking data access
type BookingRepository struct {
	db *DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, workspace_id, service_id, contact_id, scheduled_at,
	duration, status, forms_completed, created_at, updated_at`

// Create persists a booking. A partial unique index on
// (service_id, scheduled_at) over non-cancelled rows closes the race between
// the availability check and the insert; a violation surfaces as ErrSlotTaken.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		booking.ID,
		booking.WorkspaceID,
		booking.ServiceID,
		booking.ContactID,
		booking.ScheduledAt,
		booking.Duration,
		booking.Status,
		booking.FormsCompleted,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking domain.Booking
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.WorkspaceID,
		&booking.ServiceID,
		&booking.ContactID,
		&booking.ScheduledAt,
		&booking.Duration,
		&booking.Status,
		&booking.FormsCompleted,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// ListActiveByServiceBetween returns non-cancelled bookings for a service
// scheduled within [from, to].
func (r *BookingRepository) ListActiveByServiceBetween(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE service_id = $1
		  AND scheduled_at >= $2 AND scheduled_at <= $3
		  AND status <> 'cancelled'
		ORDER BY scheduled_at ASC
	`

	return r.list(ctx, query, serviceID, from, to)
}

// ListByWorkspace retrieves workspace bookings with optional filters
func (r *BookingRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, filter domain.BookingFilter) ([]domain.Booking, error) {
	query := `
		SELECT b.id, b.workspace_id, b.service_id, b.contact_id, b.scheduled_at,
		       b.duration, b.status, b.forms_completed, b.created_at, b.updated_at
		FROM bookings b
		JOIN contacts c ON c.id = b.contact_id
		WHERE b.workspace_id = $1
	`
	args := []any{workspaceID}

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.email ILIKE $%d)", len(args), len(args))
	}
	if filter.Date != "" {
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date filter: %w", err)
		}
		args = append(args, day, day.Add(24*time.Hour))
		query += fmt.Sprintf(" AND b.scheduled_at >= $%d AND b.scheduled_at < $%d", len(args)-1, len(args))
	}

	query += " ORDER BY b.scheduled_at DESC"

	return r.list(ctx, query, args...)
}

// ListRecent retrieves the most recently created bookings for a workspace
func (r *BookingRepository) ListRecent(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE workspace_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return r.list(ctx, query, workspaceID, limit)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.WorkspaceID,
			&booking.ServiceID,
			&booking.ContactID,
			&booking.ScheduledAt,
			&booking.Duration,
			&booking.Status,
			&booking.FormsCompleted,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

// UpdateStatus sets a booking's status
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	return nil
}

// SetFormsCompleted marks a booking's intake paperwork as done
func (r *BookingRepository) SetFormsCompleted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE bookings SET forms_completed = TRUE, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark forms completed: %w", err)
	}

	return nil
}

// CountScheduledBetween counts workspace bookings scheduled within [from, to]
func (r *BookingRepository) CountScheduledBetween(ctx context.Context, workspaceID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE workspace_id = $1 AND scheduled_at >= $2 AND scheduled_at <= $3
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, workspaceID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// CountByWorkspace counts all bookings in a workspace
func (r *BookingRepository) CountByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE workspace_id = $1`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// CountByStatus counts workspace bookings in a given status
func (r *BookingRepository) CountByStatus(ctx context.Context, workspaceID uuid.UUID, status domain.BookingStatus) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE workspace_id = $1 AND status = $2`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, workspaceID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}
