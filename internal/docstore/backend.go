package docstore

import (
	"context"
	"time"
)

// Backend is the collection-store surface the Store builds on. The reference
// implementation lives in the sqlite subpackage; implementations are expected
// to behave like a managed document database: equality and range filters are
// always served, but an ordered listing whose filter/order combination lacks
// a declared index fails with *MissingIndexError instead of being served.
type Backend interface {
	// Users
	InsertUser(ctx context.Context, user User, passwordHash string) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)

	// Services
	InsertService(ctx context.Context, service Service) error
	UpdateService(ctx context.Context, id string, patch ServicePatch, updatedAt time.Time) error
	DeleteService(ctx context.Context, id string) error
	GetService(ctx context.Context, id string) (Service, error)
	ListServices(ctx context.Context, order ServiceOrder) ([]Service, error)

	// Appointments
	InsertAppointment(ctx context.Context, appointment Appointment) error
	UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus, updatedAt time.Time) error
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter, order AppointmentOrder) ([]Appointment, error)

	// Sessions
	InsertSession(ctx context.Context, session Session) error
	UpdateSession(ctx context.Context, session Session) error
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
