package service

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/careops/platform/internal/scheduling"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventDispatcher routes domain events into the automation pipeline. Dispatch
// never returns an error; automation outcomes cannot fail the operation that
// raised the event.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}

// BookingService orchestrates the public booking flow: availability,
// slot-conflict handling, contact dedup, and the created event.
type BookingService struct {
	serviceRepo domain.ServiceRepository
	bookingRepo domain.BookingRepository
	contactRepo domain.ContactRepository
	dispatcher  EventDispatcher
	logger      zerolog.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	serviceRepo domain.ServiceRepository,
	bookingRepo domain.BookingRepository,
	contactRepo domain.ContactRepository,
	dispatcher EventDispatcher,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		serviceRepo: serviceRepo,
		bookingRepo: bookingRepo,
		contactRepo: contactRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// AvailableSlots computes the open "HH:MM" start times for a service on a
// date. The date is the literal calendar day, no timezone conversion happens.
func (s *BookingService) AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) ([]string, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", domain.ErrValidation)
	}

	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil || !svc.IsActive {
		return nil, domain.ErrNotFound
	}

	existing, err := s.dayBookings(ctx, serviceID, day)
	if err != nil {
		return nil, err
	}

	slots := scheduling.AvailableSlots(svc, day, existing)
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

// Create books a slot. Public requests re-check availability right before
// insert; staff manual bookings skip the weekly template but still hit the
// uniqueness constraint, so a true double-book surfaces as ErrSlotTaken
// either way.
func (s *BookingService) Create(ctx context.Context, input domain.BookingCreate) (*domain.Booking, error) {
	svc, err := s.serviceRepo.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil || (!svc.IsActive && !input.Manual) {
		return nil, domain.ErrNotFound
	}

	day, err := time.ParseInLocation("2006-01-02", input.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", domain.ErrValidation)
	}
	clock, err := time.Parse("15:04", input.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time", domain.ErrValidation)
	}
	scheduledAt := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)

	if !input.Manual {
		existing, err := s.dayBookings(ctx, input.ServiceID, day)
		if err != nil {
			return nil, err
		}
		if !containsSlot(scheduling.AvailableSlots(svc, day, existing), input.Time) {
			return nil, domain.ErrSlotTaken
		}
	}

	contact, err := s.findOrCreateContact(ctx, svc.WorkspaceID, input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:          uuid.New(),
		WorkspaceID: svc.WorkspaceID,
		ServiceID:   svc.ID,
		ContactID:   contact.ID,
		ScheduledAt: scheduledAt,
		Duration:    svc.Duration,
		Status:      domain.BookingConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", booking.ID.String()).
		Str("workspace_id", booking.WorkspaceID.String()).
		Str("service_id", svc.ID.String()).
		Time("scheduled_at", scheduledAt).
		Msg("booking created")

	s.dispatcher.Dispatch(ctx, domain.BookingCreatedEvent{
		WorkspaceID: svc.WorkspaceID,
		BookingID:   booking.ID,
		Contact:     *contact,
		Service:     *svc,
		StartTime:   scheduledAt,
	})

	return booking, nil
}

// Cancel marks a booking cancelled, freeing its slot. Cancelling an already
// cancelled booking is a no-op.
func (s *BookingService) Cancel(ctx context.Context, workspaceID, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return domain.ErrNotFound
	}
	if booking.WorkspaceID != workspaceID {
		return domain.ErrUnauthorized
	}
	if booking.Status == domain.BookingCancelled {
		return nil
	}

	return s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingCancelled)
}

// UpdateStatus moves a booking through its staff-facing lifecycle
func (s *BookingService) UpdateStatus(ctx context.Context, workspaceID, bookingID uuid.UUID, status domain.BookingStatus) error {
	switch status {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCompleted:
	case domain.BookingCancelled:
		return s.Cancel(ctx, workspaceID, bookingID)
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return domain.ErrNotFound
	}
	if booking.WorkspaceID != workspaceID {
		return domain.ErrUnauthorized
	}

	return s.bookingRepo.UpdateStatus(ctx, bookingID, status)
}

// Get retrieves a booking within the caller's workspace
func (s *BookingService) Get(ctx context.Context, workspaceID, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	if booking.WorkspaceID != workspaceID {
		return nil, domain.ErrUnauthorized
	}
	return booking, nil
}

// List returns workspace bookings matching the filter
func (s *BookingService) List(ctx context.Context, workspaceID uuid.UUID, filter domain.BookingFilter) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.ListByWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) dayBookings(ctx context.Context, serviceID uuid.UUID, day time.Time) ([]domain.Booking, error) {
	from := day
	to := day.Add(24*time.Hour - time.Nanosecond)
	existing, err := s.bookingRepo.ListActiveByServiceBetween(ctx, serviceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list day bookings: %w", err)
	}
	return existing, nil
}

// findOrCreateContact dedups by email within the workspace so repeat
// customers keep a single contact row.
func (s *BookingService) findOrCreateContact(ctx context.Context, workspaceID uuid.UUID, input domain.BookingCreate) (*domain.Contact, error) {
	contact, err := s.contactRepo.FindByEmail(ctx, workspaceID, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	if contact != nil {
		return contact, nil
	}

	source := domain.ContactSourceBooking
	if input.Manual {
		source = domain.ContactSourceManual
	}
	contact = &domain.Contact{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Source:      source,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
