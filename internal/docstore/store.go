package docstore

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Store is the data-access layer consumed by the application services. It
// wraps a Backend with the behavior the rest of the system relies on:
// creation/update markers on every write, the missing-index query fallback,
// merge-style user upserts, and change notifications feeding the live
// subscription hub.
type Store struct {
	backend     Backend
	hub         *Hub
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewStore wires a Store around the provided backend.
func NewStore(backend Backend, idGenerator func() string, now func() time.Time, logger *slog.Logger) *Store {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend:     backend,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
	s.hub = newHub(s, logger)
	return s
}

// Close tears down all live subscriptions.
func (s *Store) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.close()
}

// --- Users ---

// CreateUser inserts a new user document with its credential hash.
func (s *Store) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	now := s.now()
	if user.ID == "" {
		user.ID = s.idGenerator()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := s.backend.InsertUser(ctx, user, passwordHash); err != nil {
		return User{}, err
	}
	s.hub.notify(CollectionUsers)
	return user, nil
}

// SaveUser merges the provided attributes into the stored user document,
// creating it when absent. The creation marker is attached only on first
// write; subsequent saves refresh the update marker alone. Credentials are
// never touched by this path.
func (s *Store) SaveUser(ctx context.Context, user User) (User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	existing, err := s.backend.GetUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.CreateUser(ctx, user, "")
		}
		return User{}, err
	}

	merged := existing
	if user.Email != "" {
		merged.Email = user.Email
	}
	if user.Name != "" {
		merged.Name = user.Name
	}
	merged.IsAdmin = existing.IsAdmin || user.IsAdmin
	merged.UpdatedAt = s.now()

	if err := s.backend.UpdateUser(ctx, merged); err != nil {
		return User{}, err
	}
	s.hub.notify(CollectionUsers)
	return merged, nil
}

// GetUser fetches a user document by id.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	return s.backend.GetUser(ctx, id)
}

// GetUserCredentialsByEmail fetches a user together with their password hash.
func (s *Store) GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error) {
	return s.backend.GetUserCredentialsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// --- Services ---

// InsertService creates a catalog entry with fresh markers.
func (s *Store) InsertService(ctx context.Context, service Service) (Service, error) {
	now := s.now()
	if service.ID == "" {
		service.ID = s.idGenerator()
	}
	service.CreatedAt = now
	service.UpdatedAt = now
	if err := s.backend.InsertService(ctx, service); err != nil {
		return Service{}, err
	}
	s.hub.notify(CollectionServices)
	return service, nil
}

// UpdateService applies a partial update and refreshes the update marker.
func (s *Store) UpdateService(ctx context.Context, id string, patch ServicePatch) (Service, error) {
	if err := s.backend.UpdateService(ctx, id, patch, s.now()); err != nil {
		return Service{}, err
	}
	updated, err := s.backend.GetService(ctx, id)
	if err != nil {
		return Service{}, err
	}
	s.hub.notify(CollectionServices)
	return updated, nil
}

// DeleteService removes a catalog entry. Appointments referencing it keep
// their denormalized snapshot.
func (s *Store) DeleteService(ctx context.Context, id string) error {
	if err := s.backend.DeleteService(ctx, id); err != nil {
		return err
	}
	s.hub.notify(CollectionServices)
	return nil
}

// GetService fetches a catalog entry by id.
func (s *Store) GetService(ctx context.Context, id string) (Service, error) {
	return s.backend.GetService(ctx, id)
}

// ListServices returns catalog entries in the requested order, falling back
// to an unordered fetch plus in-memory sort when the backend reports a
// missing index.
func (s *Store) ListServices(ctx context.Context, order ServiceOrder) ([]Service, error) {
	services, err := s.backend.ListServices(ctx, order)
	if err == nil || !IsMissingIndex(err) {
		return services, err
	}

	s.logger.WarnContext(ctx, "ordered query missing index, sorting client-side",
		"collection", CollectionServices, "error", err)

	services, err = s.backend.ListServices(ctx, ServiceOrderNone)
	if err != nil {
		return nil, err
	}
	SortServices(services, order)
	return services, nil
}

// --- Appointments ---

// InsertAppointment creates an appointment document with fresh markers.
func (s *Store) InsertAppointment(ctx context.Context, appointment Appointment) (Appointment, error) {
	now := s.now()
	if appointment.ID == "" {
		appointment.ID = s.idGenerator()
	}
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	if err := s.backend.InsertAppointment(ctx, appointment); err != nil {
		return Appointment{}, err
	}
	s.hub.notify(CollectionAppointments)
	return appointment, nil
}

// UpdateAppointmentStatus rewrites the status field and the update marker.
// The write is unconditional: re-applying the current status is a no-op from
// the caller's perspective.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) (Appointment, error) {
	if err := s.backend.UpdateAppointmentStatus(ctx, id, status, s.now()); err != nil {
		return Appointment{}, err
	}
	updated, err := s.backend.GetAppointment(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	s.hub.notify(CollectionAppointments)
	return updated, nil
}

// GetAppointment fetches an appointment by id.
func (s *Store) GetAppointment(ctx context.Context, id string) (Appointment, error) {
	return s.backend.GetAppointment(ctx, id)
}

// ListAppointments returns appointments matching the filter in the requested
// order. When the backend classifies the ordered query as lacking an index,
// the same query is replayed without the order clause and sorted in memory
// with the comparator the ordered path would have used.
func (s *Store) ListAppointments(ctx context.Context, filter AppointmentFilter, order AppointmentOrder) ([]Appointment, error) {
	appointments, err := s.backend.ListAppointments(ctx, filter, order)
	if err == nil || !IsMissingIndex(err) {
		return appointments, err
	}

	s.logger.WarnContext(ctx, "ordered query missing index, sorting client-side",
		"collection", CollectionAppointments, "error", err)

	appointments, err = s.backend.ListAppointments(ctx, filter, AppointmentOrderNone)
	if err != nil {
		return nil, err
	}
	SortAppointments(appointments, order)
	return appointments, nil
}

// --- Sessions ---

// CreateSession persists a freshly issued session.
func (s *Store) CreateSession(ctx context.Context, session Session) (Session, error) {
	now := s.now()
	if session.ID == "" {
		session.ID = s.idGenerator()
	}
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := s.backend.InsertSession(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// UpdateSession rewrites a session record, refreshing its update marker.
func (s *Store) UpdateSession(ctx context.Context, session Session) (Session, error) {
	session.UpdatedAt = s.now()
	if err := s.backend.UpdateSession(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// GetSessionByToken fetches a session by its opaque token.
func (s *Store) GetSessionByToken(ctx context.Context, token string) (Session, error) {
	return s.backend.GetSessionByToken(ctx, token)
}

// DeleteExpiredSessions prunes sessions that expired before the reference time.
func (s *Store) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return s.backend.DeleteExpiredSessions(ctx, reference)
}

// --- Subscriptions ---

// SubscribeAppointments registers a live query over the appointments
// collection. The callback receives the full re-evaluated snapshot once on
// registration and again after every mutation, in commit order, until the
// returned subscription is cancelled.
func (s *Store) SubscribeAppointments(ctx context.Context, filter AppointmentFilter, order AppointmentOrder, fn func([]Appointment)) (*Subscription, error) {
	return s.hub.subscribe(ctx, CollectionAppointments, func(ctx context.Context) error {
		appointments, err := s.ListAppointments(ctx, filter, order)
		if err != nil {
			return err
		}
		fn(appointments)
		return nil
	})
}

// SubscribeServices registers a live query over the services collection with
// the same delivery contract as SubscribeAppointments.
func (s *Store) SubscribeServices(ctx context.Context, order ServiceOrder, fn func([]Service)) (*Subscription, error) {
	return s.hub.subscribe(ctx, CollectionServices, func(ctx context.Context) error {
		services, err := s.ListServices(ctx, order)
		if err != nil {
			return err
		}
		fn(services)
		return nil
	})
}
