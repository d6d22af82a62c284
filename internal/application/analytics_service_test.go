package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/appointment-hub/internal/analytics"
	"github.com/example/appointment-hub/internal/docstore"
)

type analyticsStoreStub struct {
	appointments []docstore.Appointment
	services     []docstore.Service
	listErr      error
}

func (s *analyticsStoreStub) ListAppointments(ctx context.Context, filter docstore.AppointmentFilter, order docstore.AppointmentOrder) ([]docstore.Appointment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.appointments, nil
}

func (s *analyticsStoreStub) ListServices(ctx context.Context, order docstore.ServiceOrder) ([]docstore.Service, error) {
	return s.services, nil
}

// analyticsTestNow is a Wednesday at noon.
var analyticsTestNow = time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)

func analyticsFixtures() []docstore.Appointment {
	return []docstore.Appointment{
		{ID: "a1", ServiceName: "Consultation Session", Date: analyticsTestNow.Add(-48 * time.Hour), Status: docstore.StatusApproved},
		{ID: "a2", ServiceName: "Consultation Session", Date: analyticsTestNow.Add(-2 * time.Hour), Status: docstore.StatusPending},
		{ID: "a3", ServiceName: "Technical Support", Date: analyticsTestNow.Add(3 * time.Hour), Status: docstore.StatusApproved},
		{ID: "a4", ServiceName: "Technical Support", Date: analyticsTestNow.Add(26 * time.Hour), Status: docstore.StatusCancelled},
		{ID: "a5", ServiceName: "Training Session", Date: analyticsTestNow.Add(50 * time.Hour), Status: docstore.StatusPending},
		{ID: "a6", ServiceName: "Training Session", Date: analyticsTestNow.Add(80 * time.Hour), Status: docstore.StatusApproved},
		{ID: "a7", ServiceName: "Training Session", Date: analyticsTestNow.Add(120 * time.Hour), Status: docstore.StatusPending},
	}
}

func newTestAnalyticsService(store *analyticsStoreStub) *AnalyticsService {
	return NewAnalyticsService(store, func() time.Time { return analyticsTestNow }, nil)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	store := &analyticsStoreStub{appointments: analyticsFixtures()}
	svc := newTestAnalyticsService(store)

	t.Run("admin only", func(t *testing.T) {
		if _, err := svc.Dashboard(context.Background(), memberPrincipal); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("compiles today's schedule and the upcoming list", func(t *testing.T) {
		stats, err := svc.Dashboard(context.Background(), adminPrincipal)
		if err != nil {
			t.Fatalf("Dashboard returned error: %v", err)
		}
		if stats.Summary.Total != 7 {
			t.Fatalf("expected 7 total, got %d", stats.Summary.Total)
		}
		if len(stats.Today) != 2 {
			t.Fatalf("expected 2 appointments today, got %d", len(stats.Today))
		}
		// Future entries minus the cancelled one: a3, a5, a6, a7.
		if len(stats.Upcoming) != 4 {
			t.Fatalf("expected 4 upcoming, got %d", len(stats.Upcoming))
		}
		for _, appointment := range stats.Upcoming {
			if appointment.Status == docstore.StatusCancelled {
				t.Fatalf("cancelled appointment leaked into upcoming: %+v", appointment)
			}
			if !appointment.Date.After(analyticsTestNow) {
				t.Fatalf("non-future appointment in upcoming: %+v", appointment)
			}
		}
	})

	t.Run("upcoming list is capped", func(t *testing.T) {
		many := make([]docstore.Appointment, 0, 10)
		for i := 0; i < 10; i++ {
			many = append(many, docstore.Appointment{
				ID:     "b" + string(rune('0'+i)),
				Date:   analyticsTestNow.Add(time.Duration(i+1) * time.Hour),
				Status: docstore.StatusPending,
			})
		}
		svc := newTestAnalyticsService(&analyticsStoreStub{appointments: many})

		stats, err := svc.Dashboard(context.Background(), adminPrincipal)
		if err != nil {
			t.Fatalf("Dashboard returned error: %v", err)
		}
		if len(stats.Upcoming) != 5 {
			t.Fatalf("expected the upcoming list capped at 5, got %d", len(stats.Upcoming))
		}
	})
}

func TestAnalyticsService_Report(t *testing.T) {
	store := &analyticsStoreStub{
		appointments: analyticsFixtures(),
		services: []docstore.Service{
			{ID: "svc-1", Title: "Consultation Session"},
			{ID: "svc-2", Title: "Technical Support"},
			{ID: "svc-3", Title: "Training Session"},
			{ID: "svc-4", Title: "Product Demo"},
		},
	}
	svc := newTestAnalyticsService(store)

	t.Run("admin only", func(t *testing.T) {
		if _, err := svc.Report(context.Background(), memberPrincipal, analytics.RangeAll); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects an unknown range", func(t *testing.T) {
		_, err := svc.Report(context.Background(), adminPrincipal, analytics.Range("quarter"))

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["range"] != "range must be one of today, week, month, year, all" {
			t.Fatalf("unexpected message: %q", vErr.FieldErrors["range"])
		}
	})

	t.Run("full range report", func(t *testing.T) {
		report, err := svc.Report(context.Background(), adminPrincipal, analytics.RangeAll)
		if err != nil {
			t.Fatalf("Report returned error: %v", err)
		}
		if report.Range != analytics.RangeAll {
			t.Fatalf("unexpected range: %q", report.Range)
		}
		if report.Summary.Total != 7 {
			t.Fatalf("expected 7 total, got %d", report.Summary.Total)
		}
		if report.TotalServices != 4 {
			t.Fatalf("expected 4 services, got %d", report.TotalServices)
		}
		if report.StatusCounts[analytics.StatusCancelled] != 1 {
			t.Fatalf("expected 1 cancellation, got %d", report.StatusCounts[analytics.StatusCancelled])
		}
		if len(report.ByService) != 3 {
			t.Fatalf("expected 3 service rows, got %d", len(report.ByService))
		}
		if report.ByService[0].Name != "Training Session" || report.ByService[0].Total != 3 {
			t.Fatalf("expected the busiest service first, got %+v", report.ByService[0])
		}
	})

	t.Run("today range narrows the scan", func(t *testing.T) {
		report, err := svc.Report(context.Background(), adminPrincipal, analytics.RangeToday)
		if err != nil {
			t.Fatalf("Report returned error: %v", err)
		}
		if report.Summary.Total != 2 {
			t.Fatalf("expected 2 appointments today, got %d", report.Summary.Total)
		}
	})
}
