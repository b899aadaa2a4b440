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

// ConversationRepository handles conversation data access
type ConversationRepository struct {
	db *DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const conversationColumns = `id, workspace_id, contact_id, status, subject,
	last_message_at, unread_count, created_at, updated_at`

// Create creates a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	query := `
		INSERT INTO conversations (` + conversationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		conversation.ID,
		conversation.WorkspaceID,
		conversation.ContactID,
		conversation.Status,
		conversation.Subject,
		conversation.LastMessageAt,
		conversation.UnreadCount,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

// GetByID retrieves a conversation by ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	return r.getBy(ctx, `id = $1`, "created_at ASC", id)
}

// FirstByContact returns the contact's oldest conversation, if any
func (r *ConversationRepository) FirstByContact(ctx context.Context, contactID uuid.UUID) (*domain.Conversation, error) {
	return r.getBy(ctx, `contact_id = $1`, "created_at ASC", contactID)
}

// LatestActiveByContact returns the most recently updated active conversation
func (r *ConversationRepository) LatestActiveByContact(ctx context.Context, contactID uuid.UUID) (*domain.Conversation, error) {
	return r.getBy(ctx, `contact_id = $1 AND status = 'active'`, "updated_at DESC", contactID)
}

func (r *ConversationRepository) getBy(ctx context.Context, where, order string, args ...any) (*domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE ` + where + `
		ORDER BY ` + order + `
		LIMIT 1
	`

	conversation, err := scanConversation(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conversation, nil
}

// ListByWorkspace retrieves workspace conversations, optionally filtered to
// those containing messages on a given channel.
func (r *ConversationRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, channel domain.MessageChannel) ([]domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE workspace_id = $1
	`
	args := []any{workspaceID}

	if channel != "" {
		args = append(args, channel)
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM messages m WHERE m.conversation_id = conversations.id AND m.channel = $%d
		)`, len(args))
	}

	query += ` ORDER BY updated_at DESC`

	return r.listConversations(ctx, query, args...)
}

// ListRecent retrieves the conversations with the latest message activity
func (r *ConversationRepository) ListRecent(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE workspace_id = $1
		ORDER BY last_message_at DESC NULLS LAST
		LIMIT $2
	`

	return r.listConversations(ctx, query, workspaceID, limit)
}

func (r *ConversationRepository) listConversations(ctx context.Context, query string, args ...any) ([]domain.Conversation, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, *conversation)
	}

	return conversations, nil
}

// RecordMessageAt bumps conversation activity metadata after a message is
// appended. Inbound messages also increment the unread counter.
func (r *ConversationRepository) RecordMessageAt(ctx context.Context, id uuid.UUID, at time.Time, incrementUnread bool) error {
	query := `
		UPDATE conversations
		SET last_message_at = $2,
		    unread_count = unread_count + CASE WHEN $3 THEN 1 ELSE 0 END,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, at, incrementUnread)
	if err != nil {
		return fmt.Errorf("failed to record message activity: %w", err)
	}

	return nil
}

// MarkRead clears the unread counter
func (r *ConversationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE conversations SET unread_count = 0, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}

	return nil
}

// CountUnread counts conversations with unread messages
func (r *ConversationRepository) CountUnread(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM conversations WHERE workspace_id = $1 AND unread_count > 0`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, workspaceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread conversations: %w", err)
	}

	return count, nil
}

func scanConversation(row rowScanner) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := row.Scan(
		&conversation.ID,
		&conversation.WorkspaceID,
		&conversation.ContactID,
		&conversation.Status,
		&conversation.Subject,
		&conversation.LastMessageAt,
		&conversation.UnreadCount,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
