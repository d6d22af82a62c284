package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/appointment-hub/internal/application"
	"github.com/example/appointment-hub/internal/docstore"
)

type bookingService interface {
	Book(ctx context.Context, params application.BookAppointmentParams) (docstore.Appointment, error)
	ListMine(ctx context.Context, principal application.Principal) ([]docstore.Appointment, error)
	ListAll(ctx context.Context, principal application.Principal) ([]docstore.Appointment, error)
	ListByDay(ctx context.Context, principal application.Principal, day time.Time) ([]docstore.Appointment, error)
}

type lifecycleService interface {
	Approve(ctx context.Context, principal application.Principal, id string) (docstore.Appointment, error)
	Cancel(ctx context.Context, principal application.Principal, id string) (docstore.Appointment, error)
}

type AppointmentHandler struct {
	bookings  bookingService
	lifecycle lifecycleService
	responder responder
	logger    *slog.Logger
}

func NewAppointmentHandler(bookings bookingService, lifecycle lifecycleService, logger *slog.Logger) *AppointmentHandler {
	base := defaultLogger(logger)
	return &AppointmentHandler{bookings: bookings, lifecycle: lifecycle, responder: newResponder(base), logger: base}
}

func (h *AppointmentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AppointmentHandler", operation, attrs...)
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.bookings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Book", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	appointment, err := h.bookings.Book(r.Context(), application.BookAppointmentParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Book", "appointment_id", appointment.ID).InfoContext(r.Context(), "appointment requested")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toAppointmentDTO(appointment))
}

// Mine returns the caller's own appointments, most recent first.
func (h *AppointmentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.bookings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	appointments, err := h.bookings.ListMine(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.writeAppointmentList(r.Context(), w, appointments)
}

// AdminList returns every appointment, optionally restricted to a single
// calendar day with ?date=YYYY-MM-DD.
func (h *AppointmentHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.bookings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var appointments []docstore.Appointment
	var err error
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		var day time.Time
		day, err = parseDateParam(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
			return
		}
		appointments, err = h.bookings.ListByDay(r.Context(), principal, day)
	} else {
		appointments, err = h.bookings.ListAll(r.Context(), principal)
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.writeAppointmentList(r.Context(), w, appointments)
}

func (h *AppointmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Approve")
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Cancel")
}

func (h *AppointmentHandler) transition(w http.ResponseWriter, r *http.Request, operation string) {
	if h == nil || h.lifecycle == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var appointment docstore.Appointment
	var err error
	if operation == "Approve" {
		appointment, err = h.lifecycle.Approve(r.Context(), principal, id)
	} else {
		appointment, err = h.lifecycle.Cancel(r.Context(), principal, id)
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), operation, "appointment_id", id, "status", string(appointment.Status)).InfoContext(r.Context(), "appointment status updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAppointmentDTO(appointment))
}

func (h *AppointmentHandler) writeAppointmentList(ctx context.Context, w http.ResponseWriter, appointments []docstore.Appointment) {
	payload := make([]appointmentDTO, 0, len(appointments))
	for _, appointment := range appointments {
		payload = append(payload, toAppointmentDTO(appointment))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, appointmentListResponse{Appointments: payload})
}

type bookingRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes"`
}

func (r bookingRequest) toInput() (application.BookingInput, error) {
	input := application.BookingInput{
		ServiceID: strings.TrimSpace(r.ServiceID),
		Slot:      strings.TrimSpace(r.Time),
		Notes:     r.Notes,
	}
	if raw := strings.TrimSpace(r.Date); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return application.BookingInput{}, errInvalidDate
		}
		input.Day = day
	}
	return input, nil
}

type appointmentDTO struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toAppointmentDTO(appointment docstore.Appointment) appointmentDTO {
	return appointmentDTO{
		ID:          appointment.ID,
		ServiceID:   appointment.ServiceID,
		ServiceName: appointment.ServiceName,
		UserID:      appointment.UserID,
		UserName:    appointment.UserName,
		UserEmail:   appointment.UserEmail,
		Date:        appointment.Date.Format(time.RFC3339),
		Status:      string(appointment.Status),
		Notes:       appointment.Notes,
		CreatedAt:   appointment.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   appointment.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type appointmentListResponse struct {
	Appointments []appointmentDTO `json:"appointments"`
}
