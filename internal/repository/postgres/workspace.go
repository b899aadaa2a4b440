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

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

const workspaceColumns = `id, name, slug, timezone, contact_email, is_active,
	onboarding_step, inbound_token, email_config, sms_config, created_at, updated_at`

// Create creates a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	emailConfig, smsConfig, err := marshalConfigs(workspace)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workspaces (` + workspaceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		workspace.ID,
		workspace.Name,
		workspace.Slug,
		workspace.Timezone,
		workspace.ContactEmail,
		workspace.IsActive,
		workspace.OnboardingStep,
		workspace.InboundToken,
		emailConfig,
		smsConfig,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetBySlug retrieves a workspace by its public URL segment
func (r *WorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	return r.getBy(ctx, "slug = $1", slug)
}

// GetByInboundToken resolves a workspace from its inbound webhook token
func (r *WorkspaceRepository) GetByInboundToken(ctx context.Context, token string) (*domain.Workspace, error) {
	return r.getBy(ctx, "inbound_token = $1", token)
}

func (r *WorkspaceRepository) getBy(ctx context.Context, where string, arg any) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE ` + where

	var workspace domain.Workspace
	var emailConfig, smsConfig []byte

	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Slug,
		&workspace.Timezone,
		&workspace.ContactEmail,
		&workspace.IsActive,
		&workspace.OnboardingStep,
		&workspace.InboundToken,
		&emailConfig,
		&smsConfig,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	if err := unmarshalConfigs(&workspace, emailConfig, smsConfig); err != nil {
		return nil, err
	}

	return &workspace, nil
}

// Update updates a workspace. The onboarding step only moves forward.
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	var emailConfig, smsConfig []byte
	var err error
	if update.EmailConfig != nil {
		if emailConfig, err = json.Marshal(update.EmailConfig); err != nil {
			return fmt.Errorf("failed to marshal email config: %w", err)
		}
	}
	if update.SMSConfig != nil {
		if smsConfig, err = json.Marshal(update.SMSConfig); err != nil {
			return fmt.Errorf("failed to marshal sms config: %w", err)
		}
	}

	query := `
		UPDATE workspaces
		SET name = COALESCE($2, name),
		    timezone = COALESCE($3, timezone),
		    contact_email = COALESCE($4, contact_email),
		    onboarding_step = GREATEST(onboarding_step, COALESCE($5, onboarding_step)),
		    email_config = COALESCE($6, email_config),
		    sms_config = COALESCE($7, sms_config),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err = r.db.Pool.Exec(ctx, query, id,
		update.Name, update.Timezone, update.ContactEmail, update.OnboardingStep,
		emailConfig, smsConfig)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	return nil
}

// SetActive toggles a workspace's active flag
func (r *WorkspaceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE workspaces SET is_active = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set workspace active: %w", err)
	}

	return nil
}

// ListByUserID retrieves all workspaces a staff user belongs to
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	query := `
		SELECT w.id, w.name, w.slug, w.timezone, w.contact_email, w.is_active,
		       w.onboarding_step, w.inbound_token, w.email_config, w.sms_config,
		       w.created_at, w.updated_at
		FROM workspaces w
		INNER JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		var workspace domain.Workspace
		var emailConfig, smsConfig []byte

		if err := rows.Scan(
			&workspace.ID,
			&workspace.Name,
			&workspace.Slug,
			&workspace.Timezone,
			&workspace.ContactEmail,
			&workspace.IsActive,
			&workspace.OnboardingStep,
			&workspace.InboundToken,
			&emailConfig,
			&smsConfig,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}

		if err := unmarshalConfigs(&workspace, emailConfig, smsConfig); err != nil {
			return nil, err
		}

		workspaces = append(workspaces, workspace)
	}

	return workspaces, nil
}

// AddMember adds a staff member to a workspace
func (r *WorkspaceRepository) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	query := `
		INSERT INTO workspace_members (workspace_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = $3
	`

	_, err := r.db.Pool.Exec(ctx, query,
		member.WorkspaceID,
		member.UserID,
		member.Role,
		member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// GetMember retrieves a workspace member
func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	query := `
		SELECT workspace_id, user_id, role, created_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`

	var member domain.WorkspaceMember
	err := r.db.Pool.QueryRow(ctx, query, workspaceID, userID).Scan(
		&member.WorkspaceID,
		&member.UserID,
		&member.Role,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &member, nil
}

// IsMember checks if a staff user is a member of a workspace
func (r *WorkspaceRepository) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM workspace_members
			WHERE workspace_id = $1 AND user_id = $2
		)
	`

	var exists bool
	err := r.db.Pool.QueryRow(ctx, query, workspaceID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return exists, nil
}

func marshalConfigs(workspace *domain.Workspace) (emailConfig, smsConfig []byte, err error) {
	if workspace.EmailConfig != nil {
		if emailConfig, err = json.Marshal(workspace.EmailConfig); err != nil {
			return nil, nil, fmt.Errorf("failed to marshal email config: %w", err)
		}
	}
	if workspace.SMSConfig != nil {
		if smsConfig, err = json.Marshal(workspace.SMSConfig); err != nil {
			return nil, nil, fmt.Errorf("failed to marshal sms config: %w", err)
		}
	}
	return emailConfig, smsConfig, nil
}

func unmarshalConfigs(workspace *domain.Workspace, emailConfig, smsConfig []byte) error {
	if len(emailConfig) > 0 {
		workspace.EmailConfig = &domain.EmailProviderConfig{}
		if err := json.Unmarshal(emailConfig, workspace.EmailConfig); err != nil {
			return fmt.Errorf("failed to unmarshal email config: %w", err)
		}
	}
	if len(smsConfig) > 0 {
		workspace.SMSConfig = &domain.SMSProviderConfig{}
		if err := json.Unmarshal(smsConfig, workspace.SMSConfig); err != nil {
			return fmt.Errorf("failed to unmarshal sms config: %w", err)
		}
	}
	return nil
}
