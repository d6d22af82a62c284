package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/appointment-hub/internal/analytics"
	"github.com/example/appointment-hub/internal/application"
)

type reportingService interface {
	Dashboard(ctx context.Context, principal application.Principal) (application.DashboardStats, error)
	Report(ctx context.Context, principal application.Principal, rng analytics.Range) (application.AnalyticsReport, error)
}

type AdminHandler struct {
	reports   reportingService
	responder responder
	logger    *slog.Logger
}

func NewAdminHandler(reports reportingService, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{reports: reports, responder: newResponder(base), logger: base}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.reports == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	stats, err := h.reports.Dashboard(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	today := make([]appointmentDTO, 0, len(stats.Today))
	for _, appointment := range stats.Today {
		today = append(today, toAppointmentDTO(appointment))
	}
	upcoming := make([]appointmentDTO, 0, len(stats.Upcoming))
	for _, appointment := range stats.Upcoming {
		upcoming = append(upcoming, toAppointmentDTO(appointment))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dashboardResponse{
		Summary:  toSummaryDTO(stats.Summary),
		Today:    today,
		Upcoming: upcoming,
	})
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.reports == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rng := analytics.Range(strings.TrimSpace(r.URL.Query().Get("range")))
	if rng == "" {
		rng = analytics.RangeAll
	}

	principal, _ := PrincipalFromContext(r.Context())
	report, err := h.reports.Report(r.Context(), principal, rng)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	byService := make([]serviceBreakdownDTO, 0, len(report.ByService))
	for _, row := range report.ByService {
		byService = append(byService, serviceBreakdownDTO{
			Name:        row.Name,
			Total:       row.Total,
			Approved:    row.Approved,
			Pending:     row.Pending,
			Cancelled:   row.Cancelled,
			SuccessRate: row.SuccessRate,
		})
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, analyticsResponse{
		Range:         string(report.Range),
		Summary:       toSummaryDTO(report.Summary),
		StatusCounts:  report.StatusCounts,
		ByService:     byService,
		TotalServices: report.TotalServices,
	})
}

type summaryDTO struct {
	Total             int     `json:"total"`
	Today             int     `json:"today"`
	ThisWeek          int     `json:"this_week"`
	Pending           int     `json:"pending"`
	Approved          int     `json:"approved"`
	Cancelled         int     `json:"cancelled"`
	MostBookedService string  `json:"most_booked_service"`
	MostBookedCount   int     `json:"most_booked_count"`
	ConversionRate    float64 `json:"conversion_rate"`
	PendingRate       float64 `json:"pending_rate"`
	AvgDailyThisWeek  float64 `json:"avg_daily_this_week"`
}

func toSummaryDTO(summary analytics.Summary) summaryDTO {
	return summaryDTO{
		Total:             summary.Total,
		Today:             summary.Today,
		ThisWeek:          summary.ThisWeek,
		Pending:           summary.Pending,
		Approved:          summary.Approved,
		Cancelled:         summary.Cancelled,
		MostBookedService: summary.MostBookedService,
		MostBookedCount:   summary.MostBookedCount,
		ConversionRate:    summary.ConversionRate,
		PendingRate:       summary.PendingRate,
		AvgDailyThisWeek:  summary.AvgDailyThisWeek,
	}
}

type dashboardResponse struct {
	Summary  summaryDTO       `json:"summary"`
	Today    []appointmentDTO `json:"today"`
	Upcoming []appointmentDTO `json:"upcoming"`
}

type serviceBreakdownDTO struct {
	Name        string  `json:"name"`
	Total       int     `json:"total"`
	Approved    int     `json:"approved"`
	Pending     int     `json:"pending"`
	Cancelled   int     `json:"cancelled"`
	SuccessRate float64 `json:"success_rate"`
}

type analyticsResponse struct {
	Range         string                `json:"range"`
	Summary       summaryDTO            `json:"summary"`
	StatusCounts  map[string]int        `json:"status_counts"`
	ByService     []serviceBreakdownDTO `json:"by_service"`
	TotalServices int                   `json:"total_services"`
}
