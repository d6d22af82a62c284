package docstore

import (
	"sort"
	"time"
)

// AppointmentOrder identifies the ordering requested for appointment listings.
type AppointmentOrder int

const (
	// AppointmentOrderNone leaves the backend free to return rows unordered.
	AppointmentOrderNone AppointmentOrder = iota
	// AppointmentOrderDateAsc orders by appointment date, oldest first.
	AppointmentOrderDateAsc
	// AppointmentOrderDateDesc orders by appointment date, newest first.
	AppointmentOrderDateDesc
)

// AppointmentFilter narrows appointment listings. Zero values mean "no
// constraint". From/To bound the appointment date as a half-open or closed
// range depending on which bounds are set; both are inclusive to mirror the
// day-window queries issued by the calendar view.
type AppointmentFilter struct {
	UserID    string
	ServiceID string
	From      *time.Time
	To        *time.Time
}

// IsZero reports whether the filter applies no constraint at all.
func (f AppointmentFilter) IsZero() bool {
	return f.UserID == "" && f.ServiceID == "" && f.From == nil && f.To == nil
}

// Matches reports whether the appointment satisfies the filter.
func (f AppointmentFilter) Matches(a Appointment) bool {
	if f.UserID != "" && a.UserID != f.UserID {
		return false
	}
	if f.ServiceID != "" && a.ServiceID != f.ServiceID {
		return false
	}
	if f.From != nil && a.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && a.Date.After(*f.To) {
		return false
	}
	return true
}

// ServiceOrder identifies the ordering requested for service listings.
type ServiceOrder int

const (
	// ServiceOrderNone leaves the backend free to return rows unordered.
	ServiceOrderNone ServiceOrder = iota
	// ServiceOrderTitle orders alphabetically by title.
	ServiceOrderTitle
)

// SortAppointments applies the requested ordering in memory. The comparator
// is shared between the backend's ordered path and the missing-index
// fallback so both paths produce identical sequences. Ties on date are
// broken by document id to keep the result deterministic.
func SortAppointments(appointments []Appointment, order AppointmentOrder) {
	switch order {
	case AppointmentOrderDateAsc:
		sort.SliceStable(appointments, func(i, j int) bool {
			if appointments[i].Date.Equal(appointments[j].Date) {
				return appointments[i].ID < appointments[j].ID
			}
			return appointments[i].Date.Before(appointments[j].Date)
		})
	case AppointmentOrderDateDesc:
		sort.SliceStable(appointments, func(i, j int) bool {
			if appointments[i].Date.Equal(appointments[j].Date) {
				return appointments[i].ID < appointments[j].ID
			}
			return appointments[i].Date.After(appointments[j].Date)
		})
	}
}

// SortServices applies the requested service ordering in memory, with the
// same comparator contract as SortAppointments.
func SortServices(services []Service, order ServiceOrder) {
	if order != ServiceOrderTitle {
		return
	}
	sort.SliceStable(services, func(i, j int) bool {
		if services[i].Title == services[j].Title {
			return services[i].ID < services[j].ID
		}
		return services[i].Title < services[j].Title
	})
}
