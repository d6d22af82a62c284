package docstore

import "time"

// Collection names used by the record store.
const (
	CollectionUsers        = "users"
	CollectionServices     = "services"
	CollectionAppointments = "appointments"
)

// User represents an account document bound to an auth identity.
type User struct {
	ID        string
	Email     string
	Name      string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserCredentials bundles a user with their stored password hash.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Service represents a bookable catalog entry.
type Service struct {
	ID           string
	Title        string
	Description  string
	Duration     int
	Availability bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ServicePatch carries a partial service update. Nil fields are left unchanged.
type ServicePatch struct {
	Title        *string
	Description  *string
	Duration     *int
	Availability *bool
}

// AppointmentStatus enumerates the appointment lifecycle states.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusApproved  AppointmentStatus = "Approved"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// Appointment represents a booking request. Service and user attributes are
// denormalized copies taken at booking time and are not kept in sync with
// later edits to their source documents.
type Appointment struct {
	ID          string
	ServiceID   string
	ServiceName string
	UserID      string
	UserName    string
	UserEmail   string
	Date        time.Time
	Status      AppointmentStatus
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session represents an authenticated session with a server-held role claim.
type Session struct {
	ID        string
	UserID    string
	Token     string
	Role      SessionRole
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionRole is the role claim attached to a session record.
type SessionRole string

const (
	RoleUser  SessionRole = "user"
	RoleAdmin SessionRole = "admin"
)
