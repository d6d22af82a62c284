// Package analytics derives dashboard metrics from in-memory snapshots of
// the appointment collection. Everything is recomputed from scratch on each
// call; at dashboard scale that is cheap, and it keeps the functions pure.
// A high-volume deployment would maintain incremental counters instead.
package analytics

import (
	"math"
	"sort"
	"time"
)

// Appointment is the view of an appointment record the aggregations need.
type Appointment struct {
	ServiceName string
	Date        time.Time
	Status      string
}

// Lifecycle status labels as stored on appointment records.
const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusCancelled = "Cancelled"
)

// Summary bundles the headline dashboard metrics.
type Summary struct {
	Total             int
	Today             int
	ThisWeek          int
	Pending           int
	Approved          int
	Cancelled         int
	MostBookedService string
	MostBookedCount   int
	ConversionRate    float64
	PendingRate       float64
	AvgDailyThisWeek  float64
}

// Summarize computes the headline metrics for the snapshot relative to now.
// Weeks start on Monday.
func Summarize(appointments []Appointment, now time.Time) Summary {
	summary := Summary{
		Total:             len(appointments),
		MostBookedService: "None",
	}

	weekStart := StartOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	for _, appointment := range appointments {
		if sameDay(appointment.Date, now) {
			summary.Today++
		}
		if !appointment.Date.Before(weekStart) && appointment.Date.Before(weekEnd) {
			summary.ThisWeek++
		}
		switch appointment.Status {
		case StatusPending:
			summary.Pending++
		case StatusApproved:
			summary.Approved++
		case StatusCancelled:
			summary.Cancelled++
		}
	}

	summary.MostBookedService, summary.MostBookedCount = mostBooked(appointments)
	summary.ConversionRate = Rate(summary.Approved, summary.Total)
	summary.PendingRate = Rate(summary.Pending, summary.Total)
	if summary.ThisWeek > 0 {
		summary.AvgDailyThisWeek = round1(float64(summary.ThisWeek) / 7)
	}
	return summary
}

// StatusCounts tallies appointments per lifecycle status. Unknown status
// labels are ignored, so the three counts always sum to at most the total.
func StatusCounts(appointments []Appointment) map[string]int {
	counts := map[string]int{
		StatusPending:   0,
		StatusApproved:  0,
		StatusCancelled: 0,
	}
	for _, appointment := range appointments {
		if _, known := counts[appointment.Status]; known {
			counts[appointment.Status]++
		}
	}
	return counts
}

// ServiceBreakdown tallies one service's appointments by status.
type ServiceBreakdown struct {
	Name        string
	Total       int
	Approved    int
	Pending     int
	Cancelled   int
	SuccessRate float64
}

// ByService groups the snapshot by denormalized service name and returns the
// breakdown sorted by total descending. Ties keep first-encountered order.
// Appointments with an empty service name are skipped.
func ByService(appointments []Appointment) []ServiceBreakdown {
	index := make(map[string]int)
	var breakdowns []ServiceBreakdown

	for _, appointment := range appointments {
		if appointment.ServiceName == "" {
			continue
		}
		i, seen := index[appointment.ServiceName]
		if !seen {
			i = len(breakdowns)
			index[appointment.ServiceName] = i
			breakdowns = append(breakdowns, ServiceBreakdown{Name: appointment.ServiceName})
		}
		breakdowns[i].Total++
		switch appointment.Status {
		case StatusApproved:
			breakdowns[i].Approved++
		case StatusPending:
			breakdowns[i].Pending++
		case StatusCancelled:
			breakdowns[i].Cancelled++
		}
	}

	for i := range breakdowns {
		breakdowns[i].SuccessRate = Rate(breakdowns[i].Approved, breakdowns[i].Total)
	}

	sort.SliceStable(breakdowns, func(i, j int) bool {
		return breakdowns[i].Total > breakdowns[j].Total
	})
	return breakdowns
}

// mostBooked returns the service name with the highest appointment count.
// Ties are broken by first encounter in a single left-to-right scan; an
// empty snapshot yields ("None", 0).
func mostBooked(appointments []Appointment) (string, int) {
	counts := make(map[string]int)
	var order []string
	for _, appointment := range appointments {
		if appointment.ServiceName == "" {
			continue
		}
		if _, seen := counts[appointment.ServiceName]; !seen {
			order = append(order, appointment.ServiceName)
		}
		counts[appointment.ServiceName]++
	}

	name, max := "None", 0
	for _, candidate := range order {
		if counts[candidate] > max {
			max = counts[candidate]
			name = candidate
		}
	}
	return name, max
}

// Rate computes part/total as a percentage rounded to one decimal place,
// returning 0 when total is zero.
func Rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Range selects the slice of time a dashboard aggregates over.
type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
	RangeAll   Range = "all"
)

// ValidRange reports whether r is a known range selector.
func ValidRange(r Range) bool {
	switch r {
	case RangeToday, RangeWeek, RangeMonth, RangeYear, RangeAll:
		return true
	}
	return false
}

// FilterRange narrows the snapshot to appointments dated within the selected
// range relative to now. RangeAll returns the input unchanged.
func FilterRange(appointments []Appointment, r Range, now time.Time) []Appointment {
	if r == RangeAll || r == "" {
		return appointments
	}

	var from, to time.Time
	switch r {
	case RangeToday:
		from = startOfDay(now)
		to = from.AddDate(0, 0, 1)
	case RangeWeek:
		from = StartOfWeek(now)
		to = from.AddDate(0, 0, 7)
	case RangeMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, 0)
	case RangeYear:
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(1, 0, 0)
	default:
		return appointments
	}

	filtered := make([]Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if !appointment.Date.Before(from) && appointment.Date.Before(to) {
			filtered = append(filtered, appointment)
		}
	}
	return filtered
}

// StartOfWeek returns local midnight of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	start := startOfDay(t)
	// Monday is the start of the week; Go numbers Sunday as 0.
	offset := (int(start.Weekday()) + 6) % 7
	return start.AddDate(0, 0, -offset)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
