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

type catalogService interface {
	CreateService(ctx context.Context, params application.CreateServiceParams) (docstore.Service, error)
	UpdateService(ctx context.Context, params application.UpdateServiceParams) (docstore.Service, error)
	DeleteService(ctx context.Context, principal application.Principal, serviceID string) error
	GetService(ctx context.Context, serviceID string) (docstore.Service, error)
	ListServices(ctx context.Context, includeHidden bool) ([]docstore.Service, error)
}

type slotService interface {
	DaySlots(ctx context.Context, serviceID string, day time.Time) ([]application.SlotInfo, error)
}

type ServiceHandler struct {
	catalog   catalogService
	slots     slotService
	responder responder
	logger    *slog.Logger
}

func NewServiceHandler(catalog catalogService, slots slotService, logger *slog.Logger) *ServiceHandler {
	base := defaultLogger(logger)
	return &ServiceHandler{catalog: catalog, slots: slots, responder: newResponder(base), logger: base}
}

func (h *ServiceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ServiceHandler", operation, attrs...)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	service, err := h.catalog.CreateService(r.Context(), application.CreateServiceParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Create", "service_id", service.ID).InfoContext(r.Context(), "service created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toServiceDTO(service))
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	serviceID := strings.TrimSpace(chi.URLParam(r, "id"))
	if serviceID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidServiceID)
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	service, err := h.catalog.UpdateService(r.Context(), application.UpdateServiceParams{
		Principal: principal,
		ServiceID: serviceID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toServiceDTO(service))
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	serviceID := strings.TrimSpace(chi.URLParam(r, "id"))
	if serviceID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidServiceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.catalog.DeleteService(r.Context(), principal, serviceID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Delete", "service_id", serviceID).InfoContext(r.Context(), "service deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	serviceID := strings.TrimSpace(chi.URLParam(r, "id"))
	if serviceID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidServiceID)
		return
	}

	service, err := h.catalog.GetService(r.Context(), serviceID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toServiceDTO(service))
}

// List returns the catalog. Administrators see hidden entries as well when
// they pass ?include_hidden=true.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	includeHidden := principal.IsAdmin && r.URL.Query().Get("include_hidden") == "true"

	services, err := h.catalog.ListServices(r.Context(), includeHidden)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]serviceDTO, 0, len(services))
	for _, service := range services {
		payload = append(payload, toServiceDTO(service))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, serviceListResponse{Services: payload})
}

// Slots returns the bookable start times for a service on a day.
func (h *ServiceHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.slots == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	serviceID := strings.TrimSpace(chi.URLParam(r, "id"))
	if serviceID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidServiceID)
		return
	}

	day, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	slots, err := h.slots.DaySlots(r.Context(), serviceID, day)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		payload = append(payload, slotDTO{
			Time:      slot.Time,
			Start:     slot.Start.Format(time.RFC3339),
			Available: slot.Available,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slotListResponse{
		Date:  day.Format(dateLayout),
		Slots: payload,
	})
}

const dateLayout = "2006-01-02"

func parseDateParam(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, errInvalidDate
	}
	day, err := time.ParseInLocation(dateLayout, trimmed, time.Local)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return day, nil
}

type serviceRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	Availability *bool  `json:"availability"`
}

func (r serviceRequest) toInput() application.ServiceInput {
	return application.ServiceInput{
		Title:        strings.TrimSpace(r.Title),
		Description:  strings.TrimSpace(r.Description),
		Duration:     r.Duration,
		Availability: r.Availability,
	}
}

type serviceDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	Availability bool   `json:"availability"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toServiceDTO(service docstore.Service) serviceDTO {
	return serviceDTO{
		ID:           service.ID,
		Title:        service.Title,
		Description:  service.Description,
		Duration:     service.Duration,
		Availability: service.Availability,
		CreatedAt:    service.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    service.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type serviceListResponse struct {
	Services []serviceDTO `json:"services"`
}

type slotDTO struct {
	Time      string `json:"time"`
	Start     string `json:"start"`
	Available bool   `json:"available"`
}

type slotListResponse struct {
	Date  string    `json:"date"`
	Slots []slotDTO `json:"slots"`
}
