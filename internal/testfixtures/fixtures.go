package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/appointment-hub/internal/docstore"
)

var (
	userCounter        uint64
	serviceCounter     uint64
	appointmentCounter uint64
)

var referenceTime = time.Date(2026, time.March, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday so week aggregation tests read naturally.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user record.
type UserOption func(*docstore.User)

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) docstore.User {
	idx := atomic.AddUint64(&userCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := docstore.User{
		ID:        fmt.Sprintf("user-%03d", idx),
		Name:      fmt.Sprintf("User %03d", idx),
		Email:     fmt.Sprintf("user-%03d@example.com", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(u *docstore.User) { u.ID = id }
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(u *docstore.User) { u.Email = email }
}

// WithUserAdmin sets the admin flag on the generated record.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(u *docstore.User) { u.IsAdmin = isAdmin }
}

// ServiceOption configures a generated catalog entry.
type ServiceOption func(*docstore.Service)

// NewService returns a deterministic catalog entry with optional overrides.
func NewService(opts ...ServiceOption) docstore.Service {
	idx := atomic.AddUint64(&serviceCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	service := docstore.Service{
		ID:           fmt.Sprintf("service-%03d", idx),
		Title:        fmt.Sprintf("Service %03d", idx),
		Description:  fmt.Sprintf("Description for service %03d", idx),
		Duration:     30,
		Availability: true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&service)
	}
	return service
}

// WithServiceID overrides the generated service ID.
func WithServiceID(id string) ServiceOption {
	return func(s *docstore.Service) { s.ID = id }
}

// WithServiceTitle overrides the generated title.
func WithServiceTitle(title string) ServiceOption {
	return func(s *docstore.Service) { s.Title = title }
}

// WithServiceDuration overrides the generated duration in minutes.
func WithServiceDuration(minutes int) ServiceOption {
	return func(s *docstore.Service) { s.Duration = minutes }
}

// WithServiceAvailability sets the availability flag.
func WithServiceAvailability(available bool) ServiceOption {
	return func(s *docstore.Service) { s.Availability = available }
}

// AppointmentOption configures a generated appointment record.
type AppointmentOption func(*docstore.Appointment)

// NewAppointment returns a deterministic appointment with optional overrides.
// Each generated record lands on a distinct day at 09:00 so ordering
// assertions stay unambiguous.
func NewAppointment(opts ...AppointmentOption) docstore.Appointment {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	day := referenceTime.AddDate(0, 0, int(idx))
	appointment := docstore.Appointment{
		ID:          fmt.Sprintf("appointment-%03d", idx),
		ServiceID:   fmt.Sprintf("service-%03d", idx),
		ServiceName: fmt.Sprintf("Service %03d", idx),
		UserID:      fmt.Sprintf("user-%03d", idx),
		UserName:    fmt.Sprintf("User %03d", idx),
		UserEmail:   fmt.Sprintf("user-%03d@example.com", idx),
		Date:        time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC),
		Status:      docstore.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&appointment)
	}
	return appointment
}

// WithAppointmentID overrides the generated appointment ID.
func WithAppointmentID(id string) AppointmentOption {
	return func(a *docstore.Appointment) { a.ID = id }
}

// WithAppointmentUser sets the denormalized user fields.
func WithAppointmentUser(user docstore.User) AppointmentOption {
	return func(a *docstore.Appointment) {
		a.UserID = user.ID
		a.UserName = user.Name
		a.UserEmail = user.Email
	}
}

// WithAppointmentService sets the denormalized service fields.
func WithAppointmentService(service docstore.Service) AppointmentOption {
	return func(a *docstore.Appointment) {
		a.ServiceID = service.ID
		a.ServiceName = service.Title
	}
}

// WithAppointmentDate overrides the scheduled start.
func WithAppointmentDate(date time.Time) AppointmentOption {
	return func(a *docstore.Appointment) { a.Date = date }
}

// WithAppointmentStatus overrides the lifecycle status.
func WithAppointmentStatus(status docstore.AppointmentStatus) AppointmentOption {
	return func(a *docstore.Appointment) { a.Status = status }
}
