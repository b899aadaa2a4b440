// Package scheduling computes bookable time slots for a service on a given
// day. It is pure: callers load the service configuration and the day's
// existing bookings, and every call recomputes from that state. Results are
// never cached because staleness directly causes double-booking.
package scheduling

import (
	"strings"
	"time"

	"github.com/careops/platform/internal/domain"
)

// minStep is the minimum cursor advance between candidate slots. Short
// services would otherwise explode into dozens of near-identical slots.
const minStep = 30 * time.Minute

// AvailableSlots returns the bookable start times for svc on date as "HH:MM"
// strings, ascending, duplicates impossible by construction. existing must be
// the service's non-cancelled bookings whose scheduled_at falls on date;
// cancelled bookings must not be passed in, so cancelling immediately frees
// capacity on the next call.
func AvailableSlots(svc *domain.Service, date time.Time, existing []domain.Booking) []string {
	dayName := strings.ToLower(date.Weekday().String())
	if !containsDay(svc.AvailableDays, dayName) {
		return nil
	}

	if svc.MaxBookingsPerDay != nil && len(existing) >= *svc.MaxBookingsPerDay {
		return nil
	}

	duration := time.Duration(svc.Duration) * time.Minute
	buffer := time.Duration(svc.BufferTime) * time.Minute
	block := duration + buffer

	step := block
	if step < minStep {
		step = minStep
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var slots []string
	for _, rng := range svc.TimeSlots {
		start, ok := atClock(midnight, rng.Start)
		if !ok {
			continue
		}
		end, ok := atClock(midnight, rng.End)
		if !ok {
			continue
		}

		// Ranges with start >= end silently produce zero slots.
		for cursor := start; !cursor.Add(duration).After(end); cursor = cursor.Add(step) {
			if !taken(cursor, cursor.Add(block), existing, buffer) {
				slots = append(slots, cursor.Format("15:04"))
			}
		}
	}

	return slots
}

// taken reports whether the candidate footprint [slotStart, slotBlockEnd)
// overlaps any existing booking's footprint [scheduled_at, scheduled_at +
// duration + buffer), using the open-interval test
// (startA < endB) && (endA > startB).
func taken(slotStart, slotBlockEnd time.Time, existing []domain.Booking, buffer time.Duration) bool {
	for _, b := range existing {
		bStart := b.ScheduledAt
		bEnd := b.ScheduledAt.Add(time.Duration(b.Duration)*time.Minute + buffer)
		if slotStart.Before(bEnd) && slotBlockEnd.After(bStart) {
			return true
		}
	}
	return false
}

// atClock places an "HH:MM" wall-clock value onto the given midnight.
func atClock(midnight time.Time, clock string) (time.Time, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return midnight.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}
