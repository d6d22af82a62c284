package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/appointment-hub/internal/docstore"
)

// LifecycleStore exposes the status-transition operations on the
// appointment collection.
type LifecycleStore interface {
	GetAppointment(ctx context.Context, id string) (docstore.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status docstore.AppointmentStatus) (docstore.Appointment, error)
}

// LifecycleService performs the administrator-only appointment status
// transitions. Transitions are unconditional writes: approving an already
// approved appointment is a no-op rewrite, and a cancelled appointment can
// still be approved afterwards (last write wins).
type LifecycleService struct {
	appointments LifecycleStore
	logger       *slog.Logger
}

func NewLifecycleService(appointments LifecycleStore, logger *slog.Logger) *LifecycleService {
	return &LifecycleService{
		appointments: appointments,
		logger:       defaultLogger(logger),
	}
}

func (s *LifecycleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LifecycleService", operation, attrs...)
}

// Approve marks an appointment Approved.
func (s *LifecycleService) Approve(ctx context.Context, principal Principal, id string) (docstore.Appointment, error) {
	return s.transition(ctx, principal, id, docstore.StatusApproved)
}

// Cancel marks an appointment Cancelled. The record is kept; nothing is
// deleted.
func (s *LifecycleService) Cancel(ctx context.Context, principal Principal, id string) (docstore.Appointment, error) {
	return s.transition(ctx, principal, id, docstore.StatusCancelled)
}

func (s *LifecycleService) transition(ctx context.Context, principal Principal, id string, status docstore.AppointmentStatus) (result docstore.Appointment, err error) {
	if s == nil || s.appointments == nil {
		err = fmt.Errorf("lifecycle service not configured")
		return
	}

	logger := s.loggerWith(ctx, "transition",
		"appointment_id", id,
		"status", string(status),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "status transition failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "appointment status updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if id == "" {
		err = ErrNotFound
		return
	}

	if _, getErr := s.appointments.GetAppointment(ctx, id); getErr != nil {
		if errors.Is(getErr, docstore.ErrNotFound) {
			err = ErrNotFound
			return
		}
		err = getErr
		return
	}

	result, err = s.appointments.UpdateAppointmentStatus(ctx, id, status)
	if err != nil && errors.Is(err, docstore.ErrNotFound) {
		err = ErrNotFound
	}
	return
}

// Get returns a single appointment. Administrators can read any record;
// other callers only their own.
func (s *LifecycleService) Get(ctx context.Context, principal Principal, id string) (docstore.Appointment, error) {
	appointment, err := s.appointments.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return docstore.Appointment{}, ErrNotFound
		}
		return docstore.Appointment{}, err
	}
	if !principal.IsAdmin && appointment.UserID != principal.UserID {
		return docstore.Appointment{}, ErrNotFound
	}
	return appointment, nil
}
