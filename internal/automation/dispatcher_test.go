package automation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to      string
	subject string
	body    string
	replyTo string
}

type fakeSender struct {
	mu          sync.Mutex
	emails      []sentEmail
	smsBodies   []string
	ownerMails  []sentEmail
	failAll     bool
	panicOnSend bool
	panicOnSMS  bool
}

func (f *fakeSender) SendEmail(_ context.Context, _ *domain.Workspace, contact *domain.Contact, subject, body, replyTo string) bool {
	if f.panicOnSend {
		panic("provider exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, sentEmail{to: contact.Email, subject: subject, body: body, replyTo: replyTo})
	return !f.failAll
}

func (f *fakeSender) SendSMS(_ context.Context, _ *domain.Workspace, _ *domain.Contact, body string) bool {
	if f.panicOnSMS {
		panic("sms provider exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.smsBodies = append(f.smsBodies, body)
	return !f.failAll
}

func (f *fakeSender) NotifyOwner(_ context.Context, ws *domain.Workspace, subject, body, replyTo string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerMails = append(f.ownerMails, sentEmail{to: ws.ContactEmail, subject: subject, body: body, replyTo: replyTo})
	return !f.failAll
}

type mockWorkspaceRepo struct {
	mock.Mock
}

func (m *mockWorkspaceRepo) Create(ctx context.Context, ws *domain.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *mockWorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *mockWorkspaceRepo) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *mockWorkspaceRepo) GetByInboundToken(ctx context.Context, token string) (*domain.Workspace, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *mockWorkspaceRepo) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *mockWorkspaceRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockWorkspaceRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *mockWorkspaceRepo) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *mockWorkspaceRepo) GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}

func (m *mockWorkspaceRepo) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, workspaceID, userID)
	return args.Bool(0), args.Error(1)
}

type mockFormRepo struct {
	mock.Mock
}

func (m *mockFormRepo) Create(ctx context.Context, form *domain.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *mockFormRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form), args.Error(1)
}

func (m *mockFormRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Form, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Form), args.Error(1)
}

func (m *mockFormRepo) Update(ctx context.Context, id uuid.UUID, update *domain.FormUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

type mockAlertRepo struct {
	mock.Mock
}

func (m *mockAlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *mockAlertRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, unreadOnly bool) ([]domain.Alert, error) {
	args := m.Called(ctx, workspaceID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *mockAlertRepo) MarkRead(ctx context.Context, workspaceID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func newTestDispatcher(sender Sender, workspaces *mockWorkspaceRepo, forms *mockFormRepo, alerts *mockAlertRepo) *Dispatcher {
	return NewDispatcher(sender, workspaces, forms, alerts, "https://careops.example", zerolog.Nop())
}

func bookingEvent(ws *domain.Workspace) domain.BookingCreatedEvent {
	return domain.BookingCreatedEvent{
		WorkspaceID: ws.ID,
		BookingID:   uuid.New(),
		Contact: domain.Contact{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			Name:        "Dana Fields",
			Email:       "dana@example.com",
			Phone:       "+15550001111",
		},
		Service: domain.Service{
			ID:          uuid.New(),
			WorkspaceID: ws.ID,
			Name:        "Deep Clean",
			Address:     "12 Main St",
		},
		StartTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestDispatch_BookingCreatedSendsAllNotifications(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", ContactEmail: "owner@shine.example"}
	sender := &fakeSender{}
	workspaces := &mockWorkspaceRepo{}
	forms := &mockFormRepo{}

	workspaces.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	forms.On("ListByWorkspace", mock.Anything, ws.ID).Return([]domain.Form{
		{ID: uuid.New(), WorkspaceID: ws.ID, Name: "Intake Questionnaire", IsActive: true},
	}, nil)

	d := newTestDispatcher(sender, workspaces, forms, &mockAlertRepo{})
	d.Dispatch(context.Background(), bookingEvent(ws))

	require.Len(t, sender.ownerMails, 1)
	assert.Equal(t, "New Booking: Deep Clean", sender.ownerMails[0].subject)
	assert.Equal(t, "dana@example.com", sender.ownerMails[0].replyTo)

	require.Len(t, sender.emails, 2)
	subjects := []string{sender.emails[0].subject, sender.emails[1].subject}
	assert.Contains(t, subjects, "Booking Confirmed: Deep Clean")
	assert.Contains(t, subjects, "Before your appointment: Intake Questionnaire")

	require.Len(t, sender.smsBodies, 1)
	assert.Contains(t, sender.smsBodies[0], "Deep Clean")
}

func TestDispatch_BookingCreatedIntakeLinkCarriesBookingID(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", ContactEmail: "owner@shine.example"}
	sender := &fakeSender{}
	workspaces := &mockWorkspaceRepo{}
	forms := &mockFormRepo{}

	form := domain.Form{ID: uuid.New(), WorkspaceID: ws.ID, Name: "Intake", IsActive: true}
	workspaces.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	forms.On("ListByWorkspace", mock.Anything, ws.ID).Return([]domain.Form{form}, nil)

	d := newTestDispatcher(sender, workspaces, forms, &mockAlertRepo{})
	event := bookingEvent(ws)
	d.Dispatch(context.Background(), event)

	var intake *sentEmail
	for i := range sender.emails {
		if strings.HasPrefix(sender.emails[i].subject, "Before your appointment") {
			intake = &sender.emails[i]
		}
	}
	require.NotNil(t, intake)
	assert.Contains(t, intake.body, "https://careops.example/forms/intake?b="+event.BookingID.String())
	assert.Contains(t, intake.body, "f="+form.ID.String())
}

func TestDispatch_BookingCreatedSkipsInactiveForms(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", ContactEmail: "owner@shine.example"}
	sender := &fakeSender{}
	workspaces := &mockWorkspaceRepo{}
	forms := &mockFormRepo{}

	workspaces.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	forms.On("ListByWorkspace", mock.Anything, ws.ID).Return([]domain.Form{
		{ID: uuid.New(), WorkspaceID: ws.ID, Name: "Old Intake", IsActive: false},
	}, nil)

	d := newTestDispatcher(sender, workspaces, forms, &mockAlertRepo{})
	d.Dispatch(context.Background(), bookingEvent(ws))

	require.Len(t, sender.emails, 1)
	assert.Equal(t, "Booking Confirmed: Deep Clean", sender.emails[0].subject)
}

func TestDispatch_SenderFailuresDoNotStopOtherSends(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", ContactEmail: "owner@shine.example"}
	sender := &fakeSender{failAll: true}
	workspaces := &mockWorkspaceRepo{}
	forms := &mockFormRepo{}

	workspaces.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	forms.On("ListByWorkspace", mock.Anything, ws.ID).Return([]domain.Form{}, nil)

	d := newTestDispatcher(sender, workspaces, forms, &mockAlertRepo{})
	d.Dispatch(context.Background(), bookingEvent(ws))

	assert.Len(t, sender.ownerMails, 1)
	assert.Len(t, sender.emails, 1)
	assert.Len(t, sender.smsBodies, 1)
}

func TestDispatch_HandlerPanicIsRecovered(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", ContactEmail: "owner@shine.example"}
	sender := &fakeSender{panicOnSend: true}
	workspaces := &mockWorkspaceRepo{}

	workspaces.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)

	d := newTestDispatcher(sender, workspaces, &mockFormRepo{}, &mockAlertRepo{})

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), domain.FormSubmittedEvent{
			WorkspaceID: ws.ID,
			Contact:     domain.Contact{ID: uuid.New(), Name: "Dana", Email: "dana@example.com"},
			Message:     "hi",
		})
	})
}

func TestDispatch_BookingCreatedSendPanicIsContained(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", ContactEmail: "owner@shine.example"}
	sender := &fakeSender{panicOnSMS: true}
	workspaces := &mockWorkspaceRepo{}
	forms := &mockFormRepo{}

	workspaces.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	forms.On("ListByWorkspace", mock.Anything, ws.ID).Return([]domain.Form{}, nil)

	d := newTestDispatcher(sender, workspaces, forms, &mockAlertRepo{})

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), bookingEvent(ws))
	})

	assert.Len(t, sender.ownerMails, 1)
	assert.Len(t, sender.emails, 1)
	assert.Empty(t, sender.smsBodies)
}

func TestDispatch_FormSubmittedSendsAcknowledgement(t *testing.T) {
	ws := &domain.Workspace{ID: uuid.New(), Name: "Shine Cleaning", ContactEmail: "owner@shine.example"}
	sender := &fakeSender{}
	workspaces := &mockWorkspaceRepo{}

	workspaces.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)

	d := newTestDispatcher(sender, workspaces, &mockFormRepo{}, &mockAlertRepo{})
	d.Dispatch(context.Background(), domain.FormSubmittedEvent{
		WorkspaceID: ws.ID,
		Contact:     domain.Contact{ID: uuid.New(), Name: "Dana", Email: "dana@example.com"},
		Message:     "Do you serve my area?",
	})

	require.Len(t, sender.emails, 1)
	assert.Equal(t, "Thanks for reaching out to Shine Cleaning", sender.emails[0].subject)
	assert.Equal(t, "owner@shine.example", sender.emails[0].replyTo)
}

func TestDispatch_InventoryLowCreatesAlert(t *testing.T) {
	wsID := uuid.New()
	alerts := &mockAlertRepo{}

	alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Alert) bool {
		return a.WorkspaceID == wsID &&
			a.Type == domain.AlertLowInventory &&
			a.Severity == domain.SeverityWarning &&
			a.Title == "Low Stock: Cleaning Solution" &&
			a.LinkTo == "/dashboard/inventory"
	})).Return(nil)

	d := newTestDispatcher(&fakeSender{}, &mockWorkspaceRepo{}, &mockFormRepo{}, alerts)
	d.Dispatch(context.Background(), domain.InventoryLowEvent{
		WorkspaceID: wsID,
		Resource:    domain.Resource{Name: "Cleaning Solution", CurrentStock: 2, LowStockThreshold: 5},
	})

	alerts.AssertExpectations(t)
}

func TestDispatch_MessageIncomingTruncatesPreview(t *testing.T) {
	wsID := uuid.New()
	alerts := &mockAlertRepo{}

	long := strings.Repeat("café ", 30) // 150 runes, multibyte
	alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Alert) bool {
		return a.Type == domain.AlertMissedMessage &&
			a.Severity == domain.SeverityWarning &&
			utf8.ValidString(a.Message) &&
			a.Message == string([]rune(long)[:100])+"..." &&
			a.LinkTo == "/dashboard/inbox"
	})).Return(nil)

	d := newTestDispatcher(&fakeSender{}, &mockWorkspaceRepo{}, &mockFormRepo{}, alerts)
	d.Dispatch(context.Background(), domain.MessageIncomingEvent{
		WorkspaceID: wsID,
		Message:     domain.Message{Content: long},
		Contact:     domain.Contact{Name: "Dana"},
	})

	alerts.AssertExpectations(t)
}

func TestDispatch_AlertRepoErrorIsSwallowed(t *testing.T) {
	alerts := &mockAlertRepo{}
	alerts.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	d := newTestDispatcher(&fakeSender{}, &mockWorkspaceRepo{}, &mockFormRepo{}, alerts)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), domain.InventoryLowEvent{
			WorkspaceID: uuid.New(),
			Resource:    domain.Resource{Name: "Gloves"},
		})
	})
}

type unknownEvent struct{ ws uuid.UUID }

func (e unknownEvent) EventName() string         { return "booking.rescheduled" }
func (e unknownEvent) EventWorkspace() uuid.UUID { return e.ws }

func TestDispatch_UnknownEventIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	alerts := &mockAlertRepo{}

	d := newTestDispatcher(sender, &mockWorkspaceRepo{}, &mockFormRepo{}, alerts)
	d.Dispatch(context.Background(), unknownEvent{ws: uuid.New()})

	assert.Empty(t, sender.emails)
	assert.Empty(t, sender.smsBodies)
	alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
