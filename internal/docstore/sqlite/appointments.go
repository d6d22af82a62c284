package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/example/appointment-hub/internal/docstore"
)

// InsertAppointment stores a new appointment document.
func (b *Backend) InsertAppointment(ctx context.Context, appointment docstore.Appointment) error {
	const query = `
		INSERT INTO appointments
			(id, service_id, service_name, user_id, user_name, user_email, date, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := b.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ServiceID,
		appointment.ServiceName,
		appointment.UserID,
		appointment.UserName,
		appointment.UserEmail,
		formatTime(appointment.Date),
		string(appointment.Status),
		appointment.Notes,
		formatTime(appointment.CreatedAt),
		formatTime(appointment.UpdatedAt),
	)
	return mapError(err)
}

// UpdateAppointmentStatus rewrites the status and update marker of an
// appointment. No other fields change.
func (b *Backend) UpdateAppointmentStatus(ctx context.Context, id string, status docstore.AppointmentStatus, updatedAt time.Time) error {
	const query = `UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?`
	result, err := b.db.ExecContext(ctx, query, string(status), formatTime(updatedAt), id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// GetAppointment fetches an appointment by id.
func (b *Backend) GetAppointment(ctx context.Context, id string) (docstore.Appointment, error) {
	const query = `
		SELECT id, service_id, service_name, user_id, user_name, user_email,
		       date, status, notes, created_at, updated_at
		FROM appointments WHERE id = ?
	`
	return scanAppointment(b.db.QueryRowContext(ctx, query, id))
}

// ListAppointments returns appointments matching the filter. Ordered queries
// whose filter/order combination lacks a declared composite index fail with
// the missing-index classification; the store layer handles the fallback.
func (b *Backend) ListAppointments(ctx context.Context, filter docstore.AppointmentFilter, order docstore.AppointmentOrder) ([]docstore.Appointment, error) {
	if key := appointmentQueryIndex(filter, order); key != "" && !b.indexes.has(key) {
		return nil, &docstore.MissingIndexError{
			Collection: docstore.CollectionAppointments,
			Detail:     "no composite index " + key,
		}
	}

	query := `
		SELECT id, service_id, service_name, user_id, user_name, user_email,
		       date, status, notes, created_at, updated_at
		FROM appointments
	`
	var (
		conditions []string
		args       []any
	)
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.ServiceID != "" {
		conditions = append(conditions, "service_id = ?")
		args = append(args, filter.ServiceID)
	}
	if filter.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, formatTime(*filter.To))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	switch order {
	case docstore.AppointmentOrderDateAsc:
		query += " ORDER BY date ASC, id ASC"
	case docstore.AppointmentOrderDateDesc:
		query += " ORDER BY date DESC, id ASC"
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var appointments []docstore.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return appointments, nil
}

func scanAppointment(row rowScanner) (docstore.Appointment, error) {
	var (
		appointment                docstore.Appointment
		status                     string
		date, createdAt, updatedAt string
	)
	err := row.Scan(
		&appointment.ID,
		&appointment.ServiceID,
		&appointment.ServiceName,
		&appointment.UserID,
		&appointment.UserName,
		&appointment.UserEmail,
		&date,
		&status,
		&appointment.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return docstore.Appointment{}, mapError(err)
	}
	appointment.Status = docstore.AppointmentStatus(status)
	if appointment.Date, err = parseTime(date); err != nil {
		return docstore.Appointment{}, mapError(err)
	}
	if appointment.CreatedAt, err = parseTime(createdAt); err != nil {
		return docstore.Appointment{}, mapError(err)
	}
	if appointment.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return docstore.Appointment{}, mapError(err)
	}
	return appointment, nil
}
