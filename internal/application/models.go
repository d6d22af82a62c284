package application

import (
	"time"

	"github.com/example/appointment-hub/internal/analytics"
	"github.com/example/appointment-hub/internal/docstore"
)

// Principal represents the authenticated identity invoking a service method.
// IsAdmin reflects the server-held role claim on the session (or the user's
// stored admin flag), never a client-supplied value.
type Principal struct {
	UserID  string
	Email   string
	Name    string
	IsAdmin bool
}

// SignUpParams captures the data required to register an account.
type SignUpParams struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// SignInParams captures the data required to authenticate.
type SignInParams struct {
	Email    string
	Password string
}

// AuthResult bundles the outcome of a successful sign-up or sign-in.
type AuthResult struct {
	User    docstore.User
	Session docstore.Session
}

// ServiceInput captures caller provided catalog fields. Availability is
// optional and defaults to true on creation.
type ServiceInput struct {
	Title        string
	Description  string
	Duration     int
	Availability *bool
}

// CreateServiceParams wraps the data required to create a catalog entry.
type CreateServiceParams struct {
	Principal Principal
	Input     ServiceInput
}

// UpdateServiceParams wraps the data required to update a catalog entry.
type UpdateServiceParams struct {
	Principal Principal
	ServiceID string
	Input     ServiceInput
}

// BookingInput captures the caller's slot selection. Day carries only the
// calendar date; Slot is one of the fixed start times ("09:00".."16:00").
type BookingInput struct {
	ServiceID string
	Day       time.Time
	Slot      string
	Notes     string
}

// BookAppointmentParams wraps the data required to request a booking.
type BookAppointmentParams struct {
	Principal Principal
	Input     BookingInput
}

// SlotInfo describes one bookable start time for a day.
type SlotInfo struct {
	Time      string
	Start     time.Time
	Available bool
}

// DashboardStats is the admin landing summary: headline counters plus
// today's schedule and the next few upcoming appointments.
type DashboardStats struct {
	Summary  analytics.Summary
	Today    []docstore.Appointment
	Upcoming []docstore.Appointment
}

// AnalyticsReport is the full analytics surface for a selected range.
type AnalyticsReport struct {
	Range         analytics.Range
	Summary       analytics.Summary
	StatusCounts  map[string]int
	ByService     []analytics.ServiceBreakdown
	TotalServices int
}
