package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ContactRepository handles contact data access
type ContactRepository struct {
	db *DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create creates a new contact
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, workspace_id, name, email, phone, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		contact.ID,
		contact.WorkspaceID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Source,
		contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return r.getBy(ctx, `id = $1`, id)
}

// FindByEmail returns the first contact with the given email in the workspace
func (r *ContactRepository) FindByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*domain.Contact, error) {
	return r.getBy(ctx, `workspace_id = $1 AND email = $2 AND email <> ''`, workspaceID, email)
}

// FindByPhone returns the first contact with the given phone in the workspace
func (r *ContactRepository) FindByPhone(ctx context.Context, workspaceID uuid.UUID, phone string) (*domain.Contact, error) {
	return r.getBy(ctx, `workspace_id = $1 AND phone = $2 AND phone <> ''`, workspaceID, phone)
}

// FindByAddress matches a sender address against either email or phone
func (r *ContactRepository) FindByAddress(ctx context.Context, workspaceID uuid.UUID, address string) (*domain.Contact, error) {
	return r.getBy(ctx, `workspace_id = $1 AND $2 <> '' AND (email = $2 OR phone = $2)`, workspaceID, address)
}

func (r *ContactRepository) getBy(ctx context.Context, where string, args ...any) (*domain.Contact, error) {
	query := `
		SELECT id, workspace_id, name, email, phone, source, created_at
		FROM contacts
		WHERE ` + where + `
		ORDER BY created_at ASC
		LIMIT 1
	`

	var contact domain.Contact
	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&contact.ID,
		&contact.WorkspaceID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Source,
		&contact.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

// CountCreatedSince counts workspace contacts created after the given time
func (r *ContactRepository) CountCreatedSince(ctx context.Context, workspaceID uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM contacts WHERE workspace_id = $1 AND created_at >= $2`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, workspaceID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	return count, nil
}
