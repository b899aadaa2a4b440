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

// FormRepository handles dynamic form data access
type FormRepository struct {
	db *DB
}

// NewFormRepository creates a new form repository
func NewFormRepository(db *DB) *FormRepository {
	return &FormRepository{db: db}
}

// Create creates a new form
func (r *FormRepository) Create(ctx context.Context, form *domain.Form) error {
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	query := `
		INSERT INTO forms (id, workspace_id, name, description, fields, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		form.ID,
		form.WorkspaceID,
		form.Name,
		form.Description,
		fields,
		form.IsActive,
		form.CreatedAt,
		form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}

	return nil
}

// GetByID retrieves a form by ID
func (r *FormRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	query := `
		SELECT id, workspace_id, name, description, fields, is_active, created_at, updated_at
		FROM forms
		WHERE id = $1
	`

	form, err := scanForm(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	return form, nil
}

// ListByWorkspace retrieves all forms for a workspace
func (r *FormRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Form, error) {
	query := `
		SELECT id, workspace_id, name, description, fields, is_active, created_at, updated_at
		FROM forms
		WHERE workspace_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	defer rows.Close()

	var forms []domain.Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		forms = append(forms, *form)
	}

	return forms, nil
}

// Update updates a form
func (r *FormRepository) Update(ctx context.Context, id uuid.UUID, update *domain.FormUpdate) error {
	var fields []byte
	var err error
	if update.Fields != nil {
		if fields, err = json.Marshal(update.Fields); err != nil {
			return fmt.Errorf("failed to marshal fields: %w", err)
		}
	}

	query := `
		UPDATE forms
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    fields = COALESCE($4, fields),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err = r.db.Pool.Exec(ctx, query, id, update.Name, update.Description, fields)
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}

	return nil
}

func scanForm(row rowScanner) (*domain.Form, error) {
	var form domain.Form
	var fields []byte

	err := row.Scan(
		&form.ID,
		&form.WorkspaceID,
		&form.Name,
		&form.Description,
		&fields,
		&form.IsActive,
		&form.CreatedAt,
		&form.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &form.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
		}
	}

	return &form, nil
}

// FormSubmissionRepository handles intake submission data access
type FormSubmissionRepository struct {
	db *DB
}

// NewFormSubmissionRepository creates a new submission repository
func NewFormSubmissionRepository(db *DB) *FormSubmissionRepository {
	return &FormSubmissionRepository{db: db}
}

// Create creates a new form submission
func (r *FormSubmissionRepository) Create(ctx context.Context, submission *domain.FormSubmission) error {
	data, err := json.Marshal(submission.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal submission data: %w", err)
	}

	query := `
		INSERT INTO form_submissions (id, form_id, contact_id, booking_id, data, status, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		submission.ID,
		submission.FormID,
		submission.ContactID,
		submission.BookingID,
		data,
		submission.Status,
		submission.CompletedAt,
		submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form submission: %w", err)
	}

	return nil
}

// ListByForm retrieves submissions for a form
func (r *FormSubmissionRepository) ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.FormSubmission, error) {
	return r.list(ctx, `form_id = $1`, formID)
}

// ListByBooking retrieves submissions linked to a booking
func (r *FormSubmissionRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.FormSubmission, error) {
	return r.list(ctx, `booking_id = $1`, bookingID)
}

func (r *FormSubmissionRepository) list(ctx context.Context, where string, arg any) ([]domain.FormSubmission, error) {
	query := `
		SELECT id, form_id, contact_id, booking_id, data, status, completed_at, created_at
		FROM form_submissions
		WHERE ` + where + `
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list form submissions: %w", err)
	}
	defer rows.Close()

	var submissions []domain.FormSubmission
	for rows.Next() {
		var submission domain.FormSubmission
		var data []byte
		if err := rows.Scan(
			&submission.ID,
			&submission.FormID,
			&submission.ContactID,
			&submission.BookingID,
			&data,
			&submission.Status,
			&submission.CompletedAt,
			&submission.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan form submission: %w", err)
		}

		if len(data) > 0 {
			if err := json.Unmarshal(data, &submission.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal submission data: %w", err)
			}
		}

		submissions = append(submissions, submission)
	}

	return submissions, nil
}
