package comms

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/platform/internal/config"
	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gateway sends outbound email and SMS on behalf of a workspace and mirrors
// every send into the contact's conversation history. Workspace provider
// credentials take precedence over the platform defaults; when neither is
// configured the send is skipped and reported as false, never as an error.
type Gateway struct {
	email         EmailProvider
	sms           SMSProvider
	defaults      config.ProvidersConfig
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	logger        zerolog.Logger
}

// NewGateway creates a new communications gateway
func NewGateway(
	email EmailProvider,
	sms SMSProvider,
	defaults config.ProvidersConfig,
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	logger zerolog.Logger,
) *Gateway {
	return &Gateway{
		email:         email,
		sms:           sms,
		defaults:      defaults,
		conversations: conversations,
		messages:      messages,
		logger:        logger,
	}
}

// DeliverEmail pushes an email to the provider without touching the inbox.
// Callers that maintain their own conversation records use this directly.
func (g *Gateway) DeliverEmail(ctx context.Context, ws *domain.Workspace, to, subject, body, replyTo string) bool {
	apiKey := g.defaults.Resend.APIKey
	from := g.defaults.Resend.FromEmail
	if ws.EmailConfig != nil {
		apiKey = ws.EmailConfig.APIKey
		from = ws.EmailConfig.FromEmail
	}
	if apiKey == "" || from == "" {
		g.logger.Warn().
			Str("workspace_id", ws.ID.String()).
			Msg("skipping email, no provider credentials configured")
		return false
	}

	err := g.email.Send(ctx, apiKey, Email{
		From:    from,
		To:      to,
		ReplyTo: replyTo,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		g.logger.Error().Err(err).
			Str("workspace_id", ws.ID.String()).
			Msg("email send failed")
		return false
	}

	return true
}

// SendEmail sends an email to the contact and records it in their
// conversation history. Returns whether the provider accepted the send.
func (g *Gateway) SendEmail(ctx context.Context, ws *domain.Workspace, contact *domain.Contact, subject, body, replyTo string) bool {
	if contact.Email == "" {
		g.logger.Debug().
			Str("workspace_id", ws.ID.String()).
			Str("contact_id", contact.ID.String()).
			Msg("skipping email, contact has no address")
		return false
	}

	if !g.DeliverEmail(ctx, ws, contact.Email, subject, body, replyTo) {
		return false
	}

	g.mirror(ctx, ws, contact, domain.ChannelEmail, fmt.Sprintf("%s\n\n%s", subject, body))
	return true
}

// NotifyOwner emails the workspace's own contact address. Owner traffic does
// not belong in the customer inbox, so nothing is mirrored.
func (g *Gateway) NotifyOwner(ctx context.Context, ws *domain.Workspace, subject, body, replyTo string) bool {
	if ws.ContactEmail == "" {
		g.logger.Debug().
			Str("workspace_id", ws.ID.String()).
			Msg("skipping owner email, workspace has no contact address")
		return false
	}

	return g.DeliverEmail(ctx, ws, ws.ContactEmail, subject, body, replyTo)
}

// DeliverSMS pushes a text message to the provider without touching the inbox.
func (g *Gateway) DeliverSMS(ctx context.Context, ws *domain.Workspace, to, body string) bool {
	sid := g.defaults.Twilio.AccountSID
	token := g.defaults.Twilio.AuthToken
	from := g.defaults.Twilio.PhoneNumber
	if ws.SMSConfig != nil {
		sid = ws.SMSConfig.AccountSID
		token = ws.SMSConfig.AuthToken
		from = ws.SMSConfig.PhoneNumber
	}
	if sid == "" || token == "" || from == "" {
		g.logger.Warn().
			Str("workspace_id", ws.ID.String()).
			Msg("skipping sms, no provider credentials configured")
		return false
	}

	err := g.sms.Send(ctx, sid, token, SMS{
		From: from,
		To:   to,
		Body: body,
	})
	if err != nil {
		g.logger.Error().Err(err).
			Str("workspace_id", ws.ID.String()).
			Msg("sms send failed")
		return false
	}

	return true
}

// SendSMS sends a text message to the contact and records it in their
// conversation history. Returns whether the provider accepted the send.
func (g *Gateway) SendSMS(ctx context.Context, ws *domain.Workspace, contact *domain.Contact, body string) bool {
	if contact.Phone == "" {
		g.logger.Debug().
			Str("workspace_id", ws.ID.String()).
			Str("contact_id", contact.ID.String()).
			Msg("skipping sms, contact has no phone number")
		return false
	}

	if !g.DeliverSMS(ctx, ws, contact.Phone, body) {
		return false
	}

	g.mirror(ctx, ws, contact, domain.ChannelSMS, body)
	return true
}

// mirror appends the sent content to the contact's oldest conversation,
// starting one when the contact has none yet. Mirroring failures are logged
// and swallowed, the send itself already happened.
func (g *Gateway) mirror(ctx context.Context, ws *domain.Workspace, contact *domain.Contact, channel domain.MessageChannel, content string) {
	now := time.Now().UTC()

	conv, err := g.conversations.FirstByContact(ctx, contact.ID)
	if err != nil {
		g.logger.Error().Err(err).
			Str("contact_id", contact.ID.String()).
			Msg("failed to look up conversation for mirror")
		return
	}
	if conv == nil {
		conv = &domain.Conversation{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			ContactID:   contact.ID,
			Status:      domain.ConversationActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := g.conversations.Create(ctx, conv); err != nil {
			g.logger.Error().Err(err).
				Str("contact_id", contact.ID.String()).
				Msg("failed to create conversation for mirror")
			return
		}
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Channel:        channel,
		Direction:      domain.DirectionOutbound,
		Content:        content,
		SenderType:     domain.SenderSystem,
		Status:         domain.MessageSent,
		CreatedAt:      now,
	}
	if err := g.messages.Create(ctx, msg); err != nil {
		g.logger.Error().Err(err).
			Str("conversation_id", conv.ID.String()).
			Msg("failed to mirror sent message")
		return
	}

	if err := g.conversations.RecordMessageAt(ctx, conv.ID, now, false); err != nil {
		g.logger.Error().Err(err).
			Str("conversation_id", conv.ID.String()).
			Msg("failed to bump conversation timestamp")
	}
}
