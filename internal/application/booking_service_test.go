package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/appointment-hub/internal/docstore"
)

type bookingStoreStub struct {
	inserted     docstore.Appointment
	insertErr    error
	appointments []docstore.Appointment
	listErr      error
	lastFilter   docstore.AppointmentFilter
	lastOrder    docstore.AppointmentOrder
}

func (s *bookingStoreStub) InsertAppointment(ctx context.Context, appointment docstore.Appointment) (docstore.Appointment, error) {
	if s.insertErr != nil {
		return docstore.Appointment{}, s.insertErr
	}
	appointment.ID = "appt-1"
	s.inserted = appointment
	return appointment, nil
}

func (s *bookingStoreStub) ListAppointments(ctx context.Context, filter docstore.AppointmentFilter, order docstore.AppointmentOrder) ([]docstore.Appointment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.lastFilter = filter
	s.lastOrder = order
	matched := make([]docstore.Appointment, 0, len(s.appointments))
	for _, appointment := range s.appointments {
		if filter.Matches(appointment) {
			matched = append(matched, appointment)
		}
	}
	return matched, nil
}

type serviceCatalogStub struct {
	services map[string]docstore.Service
}

func (s *serviceCatalogStub) GetService(ctx context.Context, id string) (docstore.Service, error) {
	service, ok := s.services[id]
	if !ok {
		return docstore.Service{}, docstore.ErrNotFound
	}
	return service, nil
}

// bookingTestNow is a Monday; the booking window extends to April 1.
var bookingTestNow = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

func newTestBookingService(store *bookingStoreStub, conflictCheck bool) *BookingService {
	catalog := &serviceCatalogStub{services: map[string]docstore.Service{
		"svc-1": {ID: "svc-1", Title: "Consultation Session", Duration: 60, Availability: true},
		"svc-2": {ID: "svc-2", Title: "Legacy Audit", Duration: 60, Availability: false},
	}}
	return NewBookingService(store, catalog, func() time.Time { return bookingTestNow }, conflictCheck, nil)
}

func TestBookingService_Book(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	principal := Principal{UserID: "user-1", Name: "Dana", Email: "dana@example.com"}

	t.Run("requires an authenticated principal", func(t *testing.T) {
		svc := newTestBookingService(&bookingStoreStub{}, false)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Input: BookingInput{ServiceID: "svc-1", Day: day, Slot: "10:00"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("reports missing date and time together", func(t *testing.T) {
		svc := newTestBookingService(&bookingStoreStub{}, false)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["date"] != "please select a date" {
			t.Fatalf("unexpected date message: %q", vErr.FieldErrors["date"])
		}
		if vErr.FieldErrors["time"] != "please select a time" {
			t.Fatalf("unexpected time message: %q", vErr.FieldErrors["time"])
		}
	})

	t.Run("rejects a time outside the offered slots", func(t *testing.T) {
		svc := newTestBookingService(&bookingStoreStub{}, false)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1", Day: day, Slot: "17:30"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["time"] != "time must be one of the offered slots" {
			t.Fatalf("unexpected message: %q", vErr.FieldErrors["time"])
		}
	})

	t.Run("rejects dates beyond the booking window", func(t *testing.T) {
		svc := newTestBookingService(&bookingStoreStub{}, false)
		tooFar := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1", Day: tooFar, Slot: "10:00"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["date"] != "date must be within the next 30 days" {
			t.Fatalf("unexpected message: %q", vErr.FieldErrors["date"])
		}
	})

	t.Run("accepts the final day of the window", func(t *testing.T) {
		store := &bookingStoreStub{}
		svc := newTestBookingService(store, false)
		lastDay := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1", Day: lastDay, Slot: "09:00"},
		})
		if err != nil {
			t.Fatalf("Book returned error: %v", err)
		}
	})

	t.Run("unknown service maps to not found", func(t *testing.T) {
		svc := newTestBookingService(&bookingStoreStub{}, false)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-missing", Day: day, Slot: "10:00"},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unavailable service is rejected", func(t *testing.T) {
		svc := newTestBookingService(&bookingStoreStub{}, false)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-2", Day: day, Slot: "10:00"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["service"] != "service is not available for booking" {
			t.Fatalf("unexpected message: %q", vErr.FieldErrors["service"])
		}
	})

	t.Run("stores a pending appointment with denormalized fields", func(t *testing.T) {
		store := &bookingStoreStub{}
		svc := newTestBookingService(store, false)

		result, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1", Day: day, Slot: "10:00", Notes: "  first visit  "},
		})
		if err != nil {
			t.Fatalf("Book returned error: %v", err)
		}
		if store.inserted.Status != docstore.StatusPending {
			t.Fatalf("status must be forced to pending, got %q", store.inserted.Status)
		}
		if store.inserted.ServiceName != "Consultation Session" {
			t.Fatalf("missing service snapshot: %+v", store.inserted)
		}
		if store.inserted.UserName != "Dana" || store.inserted.UserEmail != "dana@example.com" {
			t.Fatalf("missing user snapshot: %+v", store.inserted)
		}
		if store.inserted.Notes != "first visit" {
			t.Fatalf("notes must be trimmed, got %q", store.inserted.Notes)
		}
		want := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
		if !store.inserted.Date.Equal(want) {
			t.Fatalf("unexpected start time: %v", store.inserted.Date)
		}
		if result.ID != "appt-1" {
			t.Fatalf("expected stored appointment back, got %+v", result)
		}
	})
}

func TestBookingService_ConflictCheck(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	principal := Principal{UserID: "user-1", Name: "Dana", Email: "dana@example.com"}
	occupied := docstore.Appointment{
		ID:        "appt-existing",
		ServiceID: "svc-1",
		Date:      time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
		Status:    docstore.StatusApproved,
	}

	t.Run("off by default, double booking is allowed", func(t *testing.T) {
		store := &bookingStoreStub{appointments: []docstore.Appointment{occupied}}
		svc := newTestBookingService(store, false)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1", Day: day, Slot: "10:00"},
		})
		if err != nil {
			t.Fatalf("Book returned error: %v", err)
		}
	})

	t.Run("enabled, an overlapping slot is rejected", func(t *testing.T) {
		store := &bookingStoreStub{appointments: []docstore.Appointment{occupied}}
		svc := newTestBookingService(store, true)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1", Day: day, Slot: "10:00"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["time"] != "this time slot is already booked" {
			t.Fatalf("unexpected message: %q", vErr.FieldErrors["time"])
		}
	})

	t.Run("enabled, a cancelled booking does not block the slot", func(t *testing.T) {
		cancelled := occupied
		cancelled.Status = docstore.StatusCancelled
		store := &bookingStoreStub{appointments: []docstore.Appointment{cancelled}}
		svc := newTestBookingService(store, true)

		_, err := svc.Book(context.Background(), BookAppointmentParams{
			Principal: principal,
			Input:     BookingInput{ServiceID: "svc-1", Day: day, Slot: "10:00"},
		})
		if err != nil {
			t.Fatalf("Book returned error: %v", err)
		}
	})
}

func TestBookingService_DaySlots(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("every fixed slot is offered", func(t *testing.T) {
		svc := newTestBookingService(&bookingStoreStub{}, false)

		slots, err := svc.DaySlots(context.Background(), "svc-1", day)
		if err != nil {
			t.Fatalf("DaySlots returned error: %v", err)
		}
		if len(slots) != 8 {
			t.Fatalf("expected 8 hourly slots, got %d", len(slots))
		}
		if slots[0].Time != "09:00" || slots[len(slots)-1].Time != "16:00" {
			t.Fatalf("unexpected slot bounds: %q .. %q", slots[0].Time, slots[len(slots)-1].Time)
		}
		for _, slot := range slots {
			if !slot.Available {
				t.Fatalf("without conflict checking every slot is available, got %+v", slot)
			}
		}
	})

	t.Run("conflict checking marks booked slots", func(t *testing.T) {
		store := &bookingStoreStub{appointments: []docstore.Appointment{{
			ID:        "appt-existing",
			ServiceID: "svc-1",
			Date:      time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC),
			Status:    docstore.StatusPending,
		}}}
		svc := newTestBookingService(store, true)

		slots, err := svc.DaySlots(context.Background(), "svc-1", day)
		if err != nil {
			t.Fatalf("DaySlots returned error: %v", err)
		}
		for _, slot := range slots {
			if slot.Time == "11:00" && slot.Available {
				t.Fatal("11:00 should be occupied")
			}
			// A 60 minute service ending at 12:00 leaves 12:00 free.
			if slot.Time == "12:00" && !slot.Available {
				t.Fatal("12:00 should stay available")
			}
		}
	})
}

func TestBookingService_Listings(t *testing.T) {
	store := &bookingStoreStub{appointments: []docstore.Appointment{
		{ID: "a1", UserID: "user-1", Date: time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)},
		{ID: "a2", UserID: "user-2", Date: time.Date(2026, time.March, 6, 9, 0, 0, 0, time.UTC)},
	}}
	svc := newTestBookingService(store, false)

	t.Run("mine filters by the caller and orders recent first", func(t *testing.T) {
		mine, err := svc.ListMine(context.Background(), Principal{UserID: "user-1"})
		if err != nil {
			t.Fatalf("ListMine returned error: %v", err)
		}
		if len(mine) != 1 || mine[0].ID != "a1" {
			t.Fatalf("unexpected result: %+v", mine)
		}
		if store.lastOrder != docstore.AppointmentOrderDateDesc {
			t.Fatalf("expected date-desc order, got %v", store.lastOrder)
		}
	})

	t.Run("admin listings are gated", func(t *testing.T) {
		if _, err := svc.ListAll(context.Background(), Principal{UserID: "user-1"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		all, err := svc.ListAll(context.Background(), Principal{UserID: "admin", IsAdmin: true})
		if err != nil {
			t.Fatalf("ListAll returned error: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected both appointments, got %d", len(all))
		}
	})

	t.Run("by-day scopes the filter to the calendar day", func(t *testing.T) {
		day := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
		appointments, err := svc.ListByDay(context.Background(), Principal{UserID: "admin", IsAdmin: true}, day)
		if err != nil {
			t.Fatalf("ListByDay returned error: %v", err)
		}
		if len(appointments) != 1 || appointments[0].ID != "a1" {
			t.Fatalf("unexpected result: %+v", appointments)
		}
		if store.lastOrder != docstore.AppointmentOrderDateAsc {
			t.Fatalf("expected date-asc order, got %v", store.lastOrder)
		}
	})
}
