package service

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const recentLimit = 5

// StatsCache is a short-lived cache for dashboard counters
type StatsCache interface {
	Get(ctx context.Context, workspaceID uuid.UUID) (*domain.DashboardStats, error)
	Set(ctx context.Context, workspaceID uuid.UUID, stats *domain.DashboardStats) error
}

// DashboardService aggregates workspace activity for the staff home screen
type DashboardService struct {
	bookingRepo      domain.BookingRepository
	contactRepo      domain.ContactRepository
	conversationRepo domain.ConversationRepository
	cache            StatsCache
	logger           zerolog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	bookingRepo domain.BookingRepository,
	contactRepo domain.ContactRepository,
	conversationRepo domain.ConversationRepository,
	cache StatsCache,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		bookingRepo:      bookingRepo,
		contactRepo:      contactRepo,
		conversationRepo: conversationRepo,
		cache:            cache,
		logger:           logger,
	}
}

// Summary returns the dashboard counters plus recent activity. Counters are
// served from cache when fresh; recent lists are always live.
func (s *DashboardService) Summary(ctx context.Context, workspaceID uuid.UUID) (*domain.DashboardSummary, error) {
	stats, err := s.stats(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListRecent(ctx, workspaceID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bookings: %w", err)
	}

	conversations, err := s.conversationRepo.ListRecent(ctx, workspaceID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent conversations: %w", err)
	}

	return &domain.DashboardSummary{
		Stats:               *stats,
		RecentBookings:      bookings,
		RecentConversations: conversations,
	}, nil
}

func (s *DashboardService) stats(ctx context.Context, workspaceID uuid.UUID) (*domain.DashboardStats, error) {
	if cached, err := s.cache.Get(ctx, workspaceID); err == nil && cached != nil {
		return cached, nil
	}

	now := time.Now().UTC()
	dayStart := now.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	today, err := s.bookingRepo.CountScheduledBetween(ctx, workspaceID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's bookings: %w", err)
	}
	total, err := s.bookingRepo.CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	pending, err := s.bookingRepo.CountByStatus(ctx, workspaceID, domain.BookingPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending bookings: %w", err)
	}
	leads, err := s.contactRepo.CountCreatedSince(ctx, workspaceID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to count new leads: %w", err)
	}
	unread, err := s.conversationRepo.CountUnread(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread conversations: %w", err)
	}

	stats := &domain.DashboardStats{
		BookingsToday:       today,
		TotalBookings:       total,
		PendingBookings:     pending,
		NewLeadsThisWeek:    leads,
		UnreadConversations: unread,
	}

	if err := s.cache.Set(ctx, workspaceID, stats); err != nil {
		s.logger.Warn().Err(err).
			Str("workspace_id", workspaceID.String()).
			Msg("failed to cache dashboard stats")
	}

	return stats, nil
}
