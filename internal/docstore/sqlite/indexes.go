package sqlite

import "github.com/example/appointment-hub/internal/docstore"

// indexRegistry mirrors a document database's declared-index set. Single
// field orderings and range+order on the same field are always servable;
// combining an equality filter on one field with an ordering on another
// requires a declared composite index, and without one the planner reports
// the missing-index classification instead of serving the query.
type indexRegistry map[string]struct{}

// Composite index keys understood by the registry.
const (
	IndexAppointmentsUserDate    = "appointments:user_id+date"
	IndexAppointmentsServiceDate = "appointments:service_id+date"
)

func defaultIndexes() indexRegistry {
	// Matches the backend observed in production: no composite indexes are
	// declared, so per-user and per-service ordered listings take the
	// client-side sort fallback.
	return indexRegistry{}
}

func (r indexRegistry) has(key string) bool {
	_, ok := r[key]
	return ok
}

// appointmentQueryIndex classifies an appointment listing. It returns the
// composite index key the query depends on, or "" when the query is
// servable without one.
func appointmentQueryIndex(filter docstore.AppointmentFilter, order docstore.AppointmentOrder) string {
	if order == docstore.AppointmentOrderNone {
		return ""
	}
	if filter.UserID != "" {
		return IndexAppointmentsUserDate
	}
	if filter.ServiceID != "" {
		return IndexAppointmentsServiceDate
	}
	// Date range plus date ordering uses the single-field date index.
	return ""
}
