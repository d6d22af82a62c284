package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/appointment-hub/internal/analytics"
	"github.com/example/appointment-hub/internal/availability"
	"github.com/example/appointment-hub/internal/docstore"
)

// AnalyticsStore exposes the read operations the reporting layer scans.
type AnalyticsStore interface {
	ListAppointments(ctx context.Context, filter docstore.AppointmentFilter, order docstore.AppointmentOrder) ([]docstore.Appointment, error)
	ListServices(ctx context.Context, order docstore.ServiceOrder) ([]docstore.Service, error)
}

// AnalyticsService computes the administrator dashboard and report views
// from full scans of the appointment collection.
type AnalyticsService struct {
	store  AnalyticsStore
	now    func() time.Time
	logger *slog.Logger
}

func NewAnalyticsService(store AnalyticsStore, now func() time.Time, logger *slog.Logger) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		store:  store,
		now:    now,
		logger: defaultLogger(logger),
	}
}

// Dashboard returns the headline summary plus today's schedule and the next
// upcoming appointments. Admin only.
func (s *AnalyticsService) Dashboard(ctx context.Context, principal Principal) (DashboardStats, error) {
	if s == nil || s.store == nil {
		return DashboardStats{}, fmt.Errorf("analytics service not configured")
	}
	if !principal.IsAdmin {
		return DashboardStats{}, ErrUnauthorized
	}

	appointments, err := s.store.ListAppointments(ctx, docstore.AppointmentFilter{}, docstore.AppointmentOrderDateAsc)
	if err != nil {
		return DashboardStats{}, err
	}

	now := s.now()
	stats := DashboardStats{
		Summary: analytics.Summarize(toAnalytics(appointments), now),
	}

	dayStart := availability.StartOfDay(now)
	dayEnd := availability.EndOfDay(now)
	for _, appointment := range appointments {
		if !appointment.Date.Before(dayStart) && !appointment.Date.After(dayEnd) {
			stats.Today = append(stats.Today, appointment)
		}
		if appointment.Date.After(now) && appointment.Status != docstore.StatusCancelled && len(stats.Upcoming) < upcomingLimit {
			stats.Upcoming = append(stats.Upcoming, appointment)
		}
	}
	return stats, nil
}

const upcomingLimit = 5

// Report builds the analytics view for a named range. Admin only.
func (s *AnalyticsService) Report(ctx context.Context, principal Principal, rng analytics.Range) (AnalyticsReport, error) {
	if s == nil || s.store == nil {
		return AnalyticsReport{}, fmt.Errorf("analytics service not configured")
	}
	if !principal.IsAdmin {
		return AnalyticsReport{}, ErrUnauthorized
	}
	if !analytics.ValidRange(rng) {
		vErr := &ValidationError{}
		vErr.add("range", "range must be one of today, week, month, year, all")
		return AnalyticsReport{}, vErr
	}

	appointments, err := s.store.ListAppointments(ctx, docstore.AppointmentFilter{}, docstore.AppointmentOrderDateAsc)
	if err != nil {
		return AnalyticsReport{}, err
	}
	services, err := s.store.ListServices(ctx, docstore.ServiceOrderNone)
	if err != nil {
		return AnalyticsReport{}, err
	}

	now := s.now()
	scoped := analytics.FilterRange(toAnalytics(appointments), rng, now)
	return AnalyticsReport{
		Range:         rng,
		Summary:       analytics.Summarize(scoped, now),
		StatusCounts:  analytics.StatusCounts(scoped),
		ByService:     analytics.ByService(scoped),
		TotalServices: len(services),
	}, nil
}

func toAnalytics(appointments []docstore.Appointment) []analytics.Appointment {
	out := make([]analytics.Appointment, len(appointments))
	for i, appointment := range appointments {
		out[i] = analytics.Appointment{
			ServiceName: appointment.ServiceName,
			Date:        appointment.Date,
			Status:      string(appointment.Status),
		}
	}
	return out
}
