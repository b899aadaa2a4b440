package comms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careops/platform/internal/config"
	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeEmailProvider struct {
	err    error
	calls  int
	apiKey string
	last   Email
}

func (f *fakeEmailProvider) Send(_ context.Context, apiKey string, msg Email) error {
	f.calls++
	f.apiKey = apiKey
	f.last = msg
	return f.err
}

type fakeSMSProvider struct {
	err   error
	calls int
	sid   string
	last  SMS
}

func (f *fakeSMSProvider) Send(_ context.Context, accountSID, _ string, msg SMS) error {
	f.calls++
	f.sid = accountSID
	f.last = msg
	return f.err
}

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) Create(ctx context.Context, conversation *domain.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) FirstByContact(ctx context.Context, contactID uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) LatestActiveByContact(ctx context.Context, contactID uuid.UUID) (*domain.Conversation, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, channel domain.MessageChannel) ([]domain.Conversation, error) {
	args := m.Called(ctx, workspaceID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) ListRecent(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Conversation, error) {
	args := m.Called(ctx, workspaceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) RecordMessageAt(ctx context.Context, id uuid.UUID, at time.Time, incrementUnread bool) error {
	args := m.Called(ctx, id, at, incrementUnread)
	return args.Error(0)
}

func (m *mockConversationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockConversationRepo) CountUnread(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func newTestGateway(email EmailProvider, sms SMSProvider, defaults config.ProvidersConfig, convs *mockConversationRepo, msgs *mockMessageRepo) *Gateway {
	return NewGateway(email, sms, defaults, convs, msgs, zerolog.Nop())
}

func testWorkspace() *domain.Workspace {
	return &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", Slug: "shine-cleaning"}
}

func testContact(ws *domain.Workspace) *domain.Contact {
	return &domain.Contact{
		ID:          uuid.New(),
		WorkspaceID: ws.ID,
		Name:        "Dana Fields",
		Email:       "dana@example.com",
		Phone:       "+15550001111",
	}
}

func TestSendEmail_NoCredentials(t *testing.T) {
	email := &fakeEmailProvider{}
	gw := newTestGateway(email, &fakeSMSProvider{}, config.ProvidersConfig{}, &mockConversationRepo{}, &mockMessageRepo{})

	ws := testWorkspace()
	ok := gw.SendEmail(context.Background(), ws, testContact(ws), "Hello", "body", "")

	assert.False(t, ok)
	assert.Zero(t, email.calls)
}

func TestSendEmail_ContactWithoutAddress(t *testing.T) {
	email := &fakeEmailProvider{}
	defaults := config.ProvidersConfig{
		Resend: config.ResendConfig{APIKey: "re_test", FromEmail: "CareOps <onboarding@resend.dev>"},
	}
	gw := newTestGateway(email, &fakeSMSProvider{}, defaults, &mockConversationRepo{}, &mockMessageRepo{})

	ws := testWorkspace()
	contact := testContact(ws)
	contact.Email = ""

	ok := gw.SendEmail(context.Background(), ws, contact, "Hello", "body", "")

	assert.False(t, ok)
	assert.Zero(t, email.calls)
}

func TestSendEmail_WorkspaceConfigOverridesDefaults(t *testing.T) {
	email := &fakeEmailProvider{}
	convs := &mockConversationRepo{}
	msgs := &mockMessageRepo{}
	defaults := config.ProvidersConfig{
		Resend: config.ResendConfig{APIKey: "re_platform", FromEmail: "CareOps <onboarding@resend.dev>"},
	}
	gw := newTestGateway(email, &fakeSMSProvider{}, defaults, convs, msgs)

	ws := testWorkspace()
	ws.EmailConfig = &domain.EmailProviderConfig{APIKey: "re_workspace", FromEmail: "Shine <hello@shine.example>"}
	contact := testContact(ws)

	conv := &domain.Conversation{ID: uuid.New(), WorkspaceID: ws.ID, ContactID: contact.ID}
	convs.On("FirstByContact", mock.Anything, contact.ID).Return(conv, nil)
	msgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	convs.On("RecordMessageAt", mock.Anything, conv.ID, mock.Anything, false).Return(nil)

	ok := gw.SendEmail(context.Background(), ws, contact, "Booking confirmed", "See you soon", "owner@shine.example")

	require.True(t, ok)
	assert.Equal(t, "re_workspace", email.apiKey)
	assert.Equal(t, "Shine <hello@shine.example>", email.last.From)
	assert.Equal(t, "owner@shine.example", email.last.ReplyTo)
	convs.AssertExpectations(t)
	msgs.AssertExpectations(t)
}

func TestSendEmail_ProviderFailureReturnsFalse(t *testing.T) {
	email := &fakeEmailProvider{err: errors.New("rate limited")}
	convs := &mockConversationRepo{}
	msgs := &mockMessageRepo{}
	defaults := config.ProvidersConfig{
		Resend: config.ResendConfig{APIKey: "re_test", FromEmail: "CareOps <onboarding@resend.dev>"},
	}
	gw := newTestGateway(email, &fakeSMSProvider{}, defaults, convs, msgs)

	ws := testWorkspace()
	ok := gw.SendEmail(context.Background(), ws, testContact(ws), "Hello", "body", "")

	assert.False(t, ok)
	msgs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendEmail_StartsConversationWhenNoneExists(t *testing.T) {
	email := &fakeEmailProvider{}
	convs := &mockConversationRepo{}
	msgs := &mockMessageRepo{}
	defaults := config.ProvidersConfig{
		Resend: config.ResendConfig{APIKey: "re_test", FromEmail: "CareOps <onboarding@resend.dev>"},
	}
	gw := newTestGateway(email, &fakeSMSProvider{}, defaults, convs, msgs)

	ws := testWorkspace()
	contact := testContact(ws)

	convs.On("FirstByContact", mock.Anything, contact.ID).Return(nil, nil)
	convs.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Conversation) bool {
		return c.WorkspaceID == ws.ID && c.ContactID == contact.ID && c.Status == domain.ConversationActive
	})).Return(nil)
	msgs.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		return m.Direction == domain.DirectionOutbound && m.SenderType == domain.SenderSystem
	})).Return(nil)
	convs.On("RecordMessageAt", mock.Anything, mock.Anything, mock.Anything, false).Return(nil)

	ok := gw.SendEmail(context.Background(), ws, contact, "Hello", "body", "")

	assert.True(t, ok)
	convs.AssertExpectations(t)
	msgs.AssertExpectations(t)
}

func TestSendSMS_NoCredentials(t *testing.T) {
	sms := &fakeSMSProvider{}
	gw := newTestGateway(&fakeEmailProvider{}, sms, config.ProvidersConfig{}, &mockConversationRepo{}, &mockMessageRepo{})

	ws := testWorkspace()
	ok := gw.SendSMS(context.Background(), ws, testContact(ws), "Your cleaner is on the way")

	assert.False(t, ok)
	assert.Zero(t, sms.calls)
}

func TestSendSMS_MirrorsToConversation(t *testing.T) {
	sms := &fakeSMSProvider{}
	convs := &mockConversationRepo{}
	msgs := &mockMessageRepo{}
	defaults := config.ProvidersConfig{
		Twilio: config.TwilioConfig{AccountSID: "AC123", AuthToken: "token", PhoneNumber: "+15559990000"},
	}
	gw := newTestGateway(&fakeEmailProvider{}, sms, defaults, convs, msgs)

	ws := testWorkspace()
	contact := testContact(ws)

	conv := &domain.Conversation{ID: uuid.New(), WorkspaceID: ws.ID, ContactID: contact.ID}
	convs.On("FirstByContact", mock.Anything, contact.ID).Return(conv, nil)
	msgs.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		return m.Channel == domain.ChannelSMS && m.Content == "Your cleaner is on the way"
	})).Return(nil)
	convs.On("RecordMessageAt", mock.Anything, conv.ID, mock.Anything, false).Return(nil)

	ok := gw.SendSMS(context.Background(), ws, contact, "Your cleaner is on the way")

	require.True(t, ok)
	assert.Equal(t, "AC123", sms.sid)
	assert.Equal(t, "+15559990000", sms.last.From)
	assert.Equal(t, contact.Phone, sms.last.To)
	convs.AssertExpectations(t)
	msgs.AssertExpectations(t)
}
