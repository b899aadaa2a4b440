package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sender is the outbound side of the communications gateway
type Sender interface {
	SendEmail(ctx context.Context, ws *domain.Workspace, contact *domain.Contact, subject, body, replyTo string) bool
	SendSMS(ctx context.Context, ws *domain.Workspace, contact *domain.Contact, body string) bool
	NotifyOwner(ctx context.Context, ws *domain.Workspace, subject, body, replyTo string) bool
}

// Dispatcher routes domain events to their automation handlers. Dispatch
// never fails the operation that raised the event: handler errors, missing
// credentials, and even panics are logged and swallowed.
type Dispatcher struct {
	sender     Sender
	workspaces domain.WorkspaceRepository
	forms      domain.FormRepository
	alerts     domain.AlertRepository
	baseURL    string
	logger     zerolog.Logger
}

// NewDispatcher creates a new automation dispatcher
func NewDispatcher(
	sender Sender,
	workspaces domain.WorkspaceRepository,
	forms domain.FormRepository,
	alerts domain.AlertRepository,
	baseURL string,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		sender:     sender,
		workspaces: workspaces,
		forms:      forms,
		alerts:     alerts,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Dispatch routes an event to its handler. Unknown event names are a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("event", event.EventName()).
				Interface("panic", r).
				Msg("automation handler panicked")
		}
	}()

	switch e := event.(type) {
	case domain.BookingCreatedEvent:
		d.handleBookingCreated(ctx, e)
	case domain.FormSubmittedEvent:
		d.handleFormSubmitted(ctx, e)
	case domain.InventoryLowEvent:
		d.handleInventoryLow(ctx, e)
	case domain.MessageIncomingEvent:
		d.handleMessageIncoming(ctx, e)
	default:
		d.logger.Debug().
			Str("event", event.EventName()).
			Str("workspace_id", event.EventWorkspace().String()).
			Msg("no handler for event")
	}
}

func (d *Dispatcher) handleBookingCreated(ctx context.Context, e domain.BookingCreatedEvent) {
	ws, err := d.workspaces.GetByID(ctx, e.WorkspaceID)
	if err != nil || ws == nil {
		d.logger.Error().Err(err).
			Str("workspace_id", e.WorkspaceID.String()).
			Msg("failed to load workspace for booking automation")
		return
	}

	when := e.StartTime.Format("Monday, January 2 at 3:04 PM")

	// The sends are independent of each other, one failing or panicking must
	// not stop the rest.
	var wg sync.WaitGroup

	wg.Add(1)
	go d.safely(&wg, e.EventName(), func() {
		body := fmt.Sprintf(
			"You have a new booking.\n\nService: %s\nWhen: %s\nCustomer: %s\nEmail: %s\nPhone: %s",
			e.Service.Name, when, e.Contact.Name, e.Contact.Email, e.Contact.Phone,
		)
		d.sender.NotifyOwner(ctx, ws, "New Booking: "+e.Service.Name, body, e.Contact.Email)
	})

	wg.Add(1)
	go d.safely(&wg, e.EventName(), func() {
		body := fmt.Sprintf("Hi %s,\n\nYour %s appointment is confirmed for %s.", e.Contact.Name, e.Service.Name, when)
		if e.Service.Address != "" {
			body += "\n\nLocation: " + e.Service.Address
		}
		if e.Service.ArrivalInstructions != "" {
			body += "\n\n" + e.Service.ArrivalInstructions
		}
		d.sender.SendEmail(ctx, ws, &e.Contact, "Booking Confirmed: "+e.Service.Name, body, ws.ContactEmail)
	})

	wg.Add(1)
	go d.safely(&wg, e.EventName(), func() {
		d.sendIntakeLink(ctx, ws, e)
	})

	wg.Add(1)
	go d.safely(&wg, e.EventName(), func() {
		d.sender.SendSMS(ctx, ws, &e.Contact, fmt.Sprintf("Your %s appointment on %s is confirmed.", e.Service.Name, when))
	})

	wg.Wait()
}

// safely runs one fan-out send in its own goroutine-local recover. The
// recover in Dispatch only shields its own goroutine, so a panicking sender
// inside the fan-out would otherwise take the process down.
func (d *Dispatcher) safely(wg *sync.WaitGroup, event string, fn func()) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("event", event).
				Interface("panic", r).
				Msg("automation send panicked")
		}
	}()
	fn()
}

// sendIntakeLink emails the booking's intake form link when the workspace has
// an active form to fill out.
func (d *Dispatcher) sendIntakeLink(ctx context.Context, ws *domain.Workspace, e domain.BookingCreatedEvent) {
	forms, err := d.forms.ListByWorkspace(ctx, ws.ID)
	if err != nil {
		d.logger.Error().Err(err).
			Str("workspace_id", ws.ID.String()).
			Msg("failed to list forms for intake link")
		return
	}

	for _, form := range forms {
		if !form.IsActive {
			continue
		}
		link := fmt.Sprintf("%s/forms/intake?b=%s&f=%s", d.baseURL, e.BookingID, form.ID)
		body := fmt.Sprintf(
			"Hi %s,\n\nPlease complete the %s before your appointment:\n%s",
			e.Contact.Name, form.Name, link,
		)
		d.sender.SendEmail(ctx, ws, &e.Contact, "Before your appointment: "+form.Name, body, ws.ContactEmail)
		return
	}
}

func (d *Dispatcher) handleFormSubmitted(ctx context.Context, e domain.FormSubmittedEvent) {
	ws, err := d.workspaces.GetByID(ctx, e.WorkspaceID)
	if err != nil || ws == nil {
		d.logger.Error().Err(err).
			Str("workspace_id", e.WorkspaceID.String()).
			Msg("failed to load workspace for form automation")
		return
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for reaching out to %s. We received your message and will get back to you shortly.",
		e.Contact.Name, ws.Name,
	)
	d.sender.SendEmail(ctx, ws, &e.Contact, "Thanks for reaching out to "+ws.Name, body, ws.ContactEmail)
}

func (d *Dispatcher) handleInventoryLow(ctx context.Context, e domain.InventoryLowEvent) {
	alert := &domain.Alert{
		ID:          uuid.New(),
		WorkspaceID: e.WorkspaceID,
		Type:        domain.AlertLowInventory,
		Severity:    domain.SeverityWarning,
		Title:       "Low Stock: " + e.Resource.Name,
		Message: fmt.Sprintf("%s is down to %d (threshold %d)",
			e.Resource.Name, e.Resource.CurrentStock, e.Resource.LowStockThreshold),
		LinkTo:    "/dashboard/inventory",
		CreatedAt: time.Now().UTC(),
	}
	if err := d.alerts.Create(ctx, alert); err != nil {
		d.logger.Error().Err(err).
			Str("workspace_id", e.WorkspaceID.String()).
			Msg("failed to create low stock alert")
	}
}

func (d *Dispatcher) handleMessageIncoming(ctx context.Context, e domain.MessageIncomingEvent) {
	preview := e.Message.Content
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100]) + "..."
	}

	alert := &domain.Alert{
		ID:          uuid.New(),
		WorkspaceID: e.WorkspaceID,
		Type:        domain.AlertMissedMessage,
		Severity:    domain.SeverityWarning,
		Title:       "New message from " + e.Contact.Name,
		Message:     preview,
		LinkTo:      "/dashboard/inbox",
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.alerts.Create(ctx, alert); err != nil {
		d.logger.Error().Err(err).
			Str("workspace_id", e.WorkspaceID.String()).
			Msg("failed to create new message alert")
	}
}
