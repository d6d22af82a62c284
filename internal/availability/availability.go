// Package availability holds the pure slot and booking-window rules of the
// appointment domain. It has no persistence or transport dependencies.
package availability

import (
	"fmt"
	"time"
)

// BookingWindowDays is how far ahead of today a booking may be placed,
// inclusive of the final day.
const BookingWindowDays = 30

// Slots is the fixed set of bookable start times in a day, local clock,
// minute aligned.
var Slots = []string{
	"09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00",
}

// ValidSlot reports whether value is a member of the slot set.
func ValidSlot(value string) bool {
	for _, slot := range Slots {
		if slot == value {
			return true
		}
	}
	return false
}

// Combine joins a calendar day with a slot into the appointment timestamp:
// the day at local midnight plus the slot's hour and minute, with no seconds
// component.
func Combine(day time.Time, slot string) (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(slot, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("invalid slot %q: %w", slot, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable second of t's calendar day, so a
// closed range [StartOfDay, EndOfDay] covers the whole day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// WithinWindow reports whether day falls inside the booking window anchored
// at now: from today through today+BookingWindowDays, both inclusive. Only
// the calendar date matters.
func WithinWindow(day, now time.Time) bool {
	candidate := StartOfDay(day)
	first := StartOfDay(now)
	last := first.AddDate(0, 0, BookingWindowDays)
	return !candidate.Before(first) && !candidate.After(last)
}

// Overlaps reports whether the half-open intervals [aStart, aStart+aDuration)
// and [bStart, bStart+bDuration) intersect. Durations are in minutes.
func Overlaps(aStart time.Time, aDuration int, bStart time.Time, bDuration int) bool {
	aEnd := aStart.Add(time.Duration(aDuration) * time.Minute)
	bEnd := bStart.Add(time.Duration(bDuration) * time.Minute)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
