package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recognized payload key stems for external form webhooks, checked in order.
// Keys are normalized (lowercased, punctuation stripped) and matched by
// substring, so "Your_Email-Address" still lands on "email".
var (
	externalNameKeys    = []string{"fullname", "username", "firstname", "name"}
	externalEmailKeys   = []string{"email", "mail"}
	externalMessageKeys = []string{"message", "msg", "body", "comments", "description", "content", "note", "enquiry", "inquiry"}
)

// FormService manages intake forms, the public contact form, and external
// form webhooks.
type FormService struct {
	formRepo         domain.FormRepository
	submissionRepo   domain.FormSubmissionRepository
	contactRepo      domain.ContactRepository
	bookingRepo      domain.BookingRepository
	workspaceRepo    domain.WorkspaceRepository
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
	dispatcher       EventDispatcher
	logger           zerolog.Logger
}

// NewFormService creates a new form service
func NewFormService(
	formRepo domain.FormRepository,
	submissionRepo domain.FormSubmissionRepository,
	contactRepo domain.ContactRepository,
	bookingRepo domain.BookingRepository,
	workspaceRepo domain.WorkspaceRepository,
	conversationRepo domain.ConversationRepository,
	messageRepo domain.MessageRepository,
	dispatcher EventDispatcher,
	logger zerolog.Logger,
) *FormService {
	return &FormService{
		formRepo:         formRepo,
		submissionRepo:   submissionRepo,
		contactRepo:      contactRepo,
		bookingRepo:      bookingRepo,
		workspaceRepo:    workspaceRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		dispatcher:       dispatcher,
		logger:           logger,
	}
}

// Create adds a form definition and moves workspace onboarding past the
// forms step.
func (s *FormService) Create(ctx context.Context, workspaceID uuid.UUID, input domain.FormCreate) (*domain.Form, error) {
	now := time.Now().UTC()
	form := &domain.Form{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Description: input.Description,
		Fields:      input.Fields,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	advanceOnboarding(ctx, s.workspaceRepo, workspaceID, domain.OnboardingStepForms)

	return form, nil
}

// Get retrieves a form within the caller's workspace
func (s *FormService) Get(ctx context.Context, workspaceID, formID uuid.UUID) (*domain.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil {
		return nil, domain.ErrNotFound
	}
	if form.WorkspaceID != workspaceID {
		return nil, domain.ErrUnauthorized
	}
	return form, nil
}

// List returns a workspace's forms
func (s *FormService) List(ctx context.Context, workspaceID uuid.UUID) ([]domain.Form, error) {
	forms, err := s.formRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, nil
}

// Update modifies a form within the caller's workspace
func (s *FormService) Update(ctx context.Context, workspaceID, formID uuid.UUID, update domain.FormUpdate) (*domain.Form, error) {
	if _, err := s.Get(ctx, workspaceID, formID); err != nil {
		return nil, err
	}

	if err := s.formRepo.Update(ctx, formID, &update); err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}

	return s.formRepo.GetByID(ctx, formID)
}

// Submissions lists a form's submissions within the caller's workspace
func (s *FormService) Submissions(ctx context.Context, workspaceID, formID uuid.UUID) ([]domain.FormSubmission, error) {
	if _, err := s.Get(ctx, workspaceID, formID); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// SubmitContactForm handles the public website contact form: the lead lands
// in contacts, their message lands in the inbox, and the acknowledgement
// automation fires.
func (s *FormService) SubmitContactForm(ctx context.Context, slug, name, email, message string) error {
	ws, err := s.workspaceRepo.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if ws == nil || !ws.IsActive {
		return domain.ErrNotFound
	}

	return s.recordLead(ctx, ws, name, email, message, domain.ContactSourceContactForm)
}

// SubmitExternal handles webhooks from third-party form builders. Payload
// shapes vary by vendor, so fields are matched fuzzily by key name. An email
// field is required to dedupe the lead; missing name and message fall back to
// placeholders.
func (s *FormService) SubmitExternal(ctx context.Context, workspaceID uuid.UUID, payload map[string]any) error {
	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if ws == nil {
		return domain.ErrNotFound
	}

	email := extractField(payload, externalEmailKeys)
	if email == "" {
		return fmt.Errorf("%w: no email field found in payload", domain.ErrValidation)
	}
	name := extractField(payload, externalNameKeys)
	if name == "" {
		name = "External Lead"
	}
	message := extractField(payload, externalMessageKeys)
	if message == "" {
		message = "Submitted via external form"
	}

	return s.recordLead(ctx, ws, name, email, message, domain.ContactSourceExternalForm)
}

// SubmitIntake stores a completed intake response against its booking and
// marks the booking's paperwork done.
func (s *FormService) SubmitIntake(ctx context.Context, formID, bookingID uuid.UUID, data map[string]any) (*domain.FormSubmission, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil || !form.IsActive {
		return nil, domain.ErrNotFound
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	if booking.WorkspaceID != form.WorkspaceID {
		return nil, domain.ErrUnauthorized
	}

	for _, field := range form.Fields {
		if !field.Required {
			continue
		}
		if v, ok := data[field.ID]; !ok || v == nil || fmt.Sprint(v) == "" {
			return nil, fmt.Errorf("%w: missing required field %q", domain.ErrValidation, field.Label)
		}
	}

	now := time.Now().UTC()
	submission := &domain.FormSubmission{
		ID:          uuid.New(),
		FormID:      form.ID,
		ContactID:   booking.ContactID,
		BookingID:   &booking.ID,
		Data:        data,
		Status:      domain.SubmissionCompleted,
		CompletedAt: &now,
		CreatedAt:   now,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	if err := s.bookingRepo.SetFormsCompleted(ctx, booking.ID); err != nil {
		return nil, fmt.Errorf("failed to flag booking: %w", err)
	}

	return submission, nil
}

// recordLead dedups the contact by email, drops the message into the inbox,
// and raises the submission event.
func (s *FormService) recordLead(ctx context.Context, ws *domain.Workspace, name, email, message, source string) error {
	var contact *domain.Contact
	var err error
	if email != "" {
		contact, err = s.contactRepo.FindByEmail(ctx, ws.ID, email)
		if err != nil {
			return fmt.Errorf("failed to find contact: %w", err)
		}
	}
	if contact == nil {
		contact = &domain.Contact{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			Name:        name,
			Email:       email,
			Source:      source,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.contactRepo.Create(ctx, contact); err != nil {
			return fmt.Errorf("failed to create contact: %w", err)
		}
	}

	conv, err := s.conversationRepo.LatestActiveByContact(ctx, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to find conversation: %w", err)
	}
	now := time.Now().UTC()
	if conv == nil {
		conv = &domain.Conversation{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			ContactID:   contact.ID,
			Status:      domain.ConversationActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.conversationRepo.Create(ctx, conv); err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Channel:        domain.ChannelSystem,
		Direction:      domain.DirectionInbound,
		Content:        message,
		SenderType:     domain.SenderContact,
		SenderName:     contact.Name,
		Status:         domain.MessageReceived,
		CreatedAt:      now,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to record message: %w", err)
	}
	if err := s.conversationRepo.RecordMessageAt(ctx, conv.ID, now, true); err != nil {
		return fmt.Errorf("failed to bump conversation: %w", err)
	}

	s.dispatcher.Dispatch(ctx, domain.FormSubmittedEvent{
		WorkspaceID: ws.ID,
		Contact:     *contact,
		Message:     message,
	})

	return nil
}

// extractField returns the first non-empty string value whose normalized key
// contains one of the candidate stems. Exact stem matches win over substring
// matches so a payload with both "email" and "confirm_email" picks the former.
func extractField(payload map[string]any, stems []string) string {
	for _, exact := range []bool{true, false} {
		for _, stem := range stems {
			for k, v := range payload {
				key := normalizeKey(k)
				if exact && key != stem {
					continue
				}
				if !exact && !strings.Contains(key, stem) {
					continue
				}
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

// normalizeKey lowercases a payload key and strips everything that is not a
// letter or digit.
func normalizeKey(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
