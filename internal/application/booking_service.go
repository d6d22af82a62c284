package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/appointment-hub/internal/availability"
	"github.com/example/appointment-hub/internal/docstore"
)

// BookingStore exposes the appointment-collection operations the booking
// engine needs.
type BookingStore interface {
	InsertAppointment(ctx context.Context, appointment docstore.Appointment) (docstore.Appointment, error)
	ListAppointments(ctx context.Context, filter docstore.AppointmentFilter, order docstore.AppointmentOrder) ([]docstore.Appointment, error)
}

// ServiceCatalog is the catalog lookup the booking engine depends on.
type ServiceCatalog interface {
	GetService(ctx context.Context, id string) (docstore.Service, error)
}

// BookingService validates slot selections and creates Pending appointments.
type BookingService struct {
	appointments  BookingStore
	catalog       ServiceCatalog
	now           func() time.Time
	conflictCheck bool
	logger        *slog.Logger
}

// NewBookingService wires dependencies for booking operations. When
// conflictCheck is enabled, bookings overlapping an Approved or Pending
// appointment of the same service are rejected; the observed product ran
// with it off.
func NewBookingService(appointments BookingStore, catalog ServiceCatalog, now func() time.Time, conflictCheck bool, logger *slog.Logger) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		appointments:  appointments,
		catalog:       catalog,
		now:           now,
		conflictCheck: conflictCheck,
		logger:        defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// Book validates the requested date and slot and inserts a new appointment.
// The stored status is always Pending regardless of anything the caller
// supplies; denormalized service and user fields are copied in at this
// moment and never synced afterwards.
func (s *BookingService) Book(ctx context.Context, params BookAppointmentParams) (result docstore.Appointment, err error) {
	if s == nil || s.appointments == nil || s.catalog == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	input := params.Input
	logger := s.loggerWith(ctx, "Book",
		"service_id", input.ServiceID,
		"user_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("appointment_id", result.ID).InfoContext(ctx, "appointment requested")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	if input.Day.IsZero() {
		vErr.add("date", "please select a date")
	}
	if input.Slot == "" {
		vErr.add("time", "please select a time")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if !availability.ValidSlot(input.Slot) {
		vErr.add("time", "time must be one of the offered slots")
	}
	if !availability.WithinWindow(input.Day, s.now()) {
		vErr.add("date", fmt.Sprintf("date must be within the next %d days", availability.BookingWindowDays))
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	service, svcErr := s.catalog.GetService(ctx, input.ServiceID)
	if svcErr != nil {
		if errors.Is(svcErr, docstore.ErrNotFound) {
			err = ErrNotFound
			return
		}
		err = svcErr
		return
	}
	if !service.Availability {
		vErr.add("service", "service is not available for booking")
		err = vErr
		return
	}

	start, combineErr := availability.Combine(input.Day, input.Slot)
	if combineErr != nil {
		vErr.add("time", "time must be one of the offered slots")
		err = vErr
		return
	}

	if s.conflictCheck {
		var occupied bool
		occupied, err = s.slotOccupied(ctx, service, start)
		if err != nil {
			return
		}
		if occupied {
			vErr.add("time", "this time slot is already booked")
			err = vErr
			return
		}
	}

	result, err = s.appointments.InsertAppointment(ctx, docstore.Appointment{
		ServiceID:   service.ID,
		ServiceName: service.Title,
		UserID:      params.Principal.UserID,
		UserName:    params.Principal.Name,
		UserEmail:   params.Principal.Email,
		Date:        start,
		Status:      docstore.StatusPending,
		Notes:       strings.TrimSpace(input.Notes),
	})
	return
}

// DaySlots enumerates the slot set for a service on a day, marking each slot
// available or occupied. Without conflict checking every slot is available,
// matching the observed product.
func (s *BookingService) DaySlots(ctx context.Context, serviceID string, day time.Time) ([]SlotInfo, error) {
	if s == nil || s.catalog == nil {
		return nil, fmt.Errorf("booking service not configured")
	}

	service, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var booked []docstore.Appointment
	if s.conflictCheck {
		booked, err = s.dayBookings(ctx, service.ID, day)
		if err != nil {
			return nil, err
		}
	}

	slots := make([]SlotInfo, 0, len(availability.Slots))
	for _, slot := range availability.Slots {
		start, err := availability.Combine(day, slot)
		if err != nil {
			return nil, err
		}
		info := SlotInfo{Time: slot, Start: start, Available: true}
		for _, appointment := range booked {
			if availability.Overlaps(start, service.Duration, appointment.Date, service.Duration) {
				info.Available = false
				break
			}
		}
		slots = append(slots, info)
	}
	return slots, nil
}

// ListMine returns the caller's appointments, most recent first.
func (s *BookingService) ListMine(ctx context.Context, principal Principal) ([]docstore.Appointment, error) {
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	return s.appointments.ListAppointments(ctx, docstore.AppointmentFilter{
		UserID: principal.UserID,
	}, docstore.AppointmentOrderDateDesc)
}

// ListAll returns every appointment for administrators, most recent first.
func (s *BookingService) ListAll(ctx context.Context, principal Principal) ([]docstore.Appointment, error) {
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	return s.appointments.ListAppointments(ctx, docstore.AppointmentFilter{}, docstore.AppointmentOrderDateDesc)
}

// ListByDay returns the appointments scheduled on a calendar day for
// administrators, earliest first.
func (s *BookingService) ListByDay(ctx context.Context, principal Principal, day time.Time) ([]docstore.Appointment, error) {
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	from := availability.StartOfDay(day)
	to := availability.EndOfDay(day)
	return s.appointments.ListAppointments(ctx, docstore.AppointmentFilter{
		From: &from,
		To:   &to,
	}, docstore.AppointmentOrderDateAsc)
}

func (s *BookingService) slotOccupied(ctx context.Context, service docstore.Service, start time.Time) (bool, error) {
	bookings, err := s.dayBookings(ctx, service.ID, start)
	if err != nil {
		return false, err
	}
	for _, appointment := range bookings {
		if availability.Overlaps(start, service.Duration, appointment.Date, service.Duration) {
			return true, nil
		}
	}
	return false, nil
}

// dayBookings lists the service's Approved and Pending appointments for the
// calendar day containing t.
func (s *BookingService) dayBookings(ctx context.Context, serviceID string, t time.Time) ([]docstore.Appointment, error) {
	from := availability.StartOfDay(t)
	to := availability.EndOfDay(t)
	appointments, err := s.appointments.ListAppointments(ctx, docstore.AppointmentFilter{
		ServiceID: serviceID,
		From:      &from,
		To:        &to,
	}, docstore.AppointmentOrderDateAsc)
	if err != nil {
		return nil, err
	}

	active := appointments[:0]
	for _, appointment := range appointments {
		if appointment.Status == docstore.StatusApproved || appointment.Status == docstore.StatusPending {
			active = append(active, appointment)
		}
	}
	return active, nil
}
