// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/bookery/internal/model"
)

const bookingColumns = `id, user_id, reference, service_name, booking_date, booking_time,
	customer_name, customer_email, customer_phone, notes, status, created_at, updated_at`

// CreateBookingParams holds the fields for inserting a new booking.
// Status is always set to pending by the insert itself.
type CreateBookingParams struct {
	UserID        int64
	Reference     string
	ServiceName   string
	BookingDate   string
	BookingTime   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         sql.NullString
	CreatedAt     time.Time
}

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.Reference, &b.ServiceName, &b.BookingDate, &b.BookingTime,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.Notes, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// CreateBooking inserts a new booking with status pending and returns the stored record.
func (q *Queries) CreateBooking(ctx context.Context, arg CreateBookingParams) (model.Booking, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, reference, service_name, booking_date, booking_time,
			customer_name, customer_email, customer_phone, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?)
		RETURNING `+bookingColumns,
		arg.UserID, arg.Reference, arg.ServiceName, arg.BookingDate, arg.BookingTime,
		arg.CustomerName, arg.CustomerEmail, arg.CustomerPhone, arg.Notes,
		arg.CreatedAt, arg.CreatedAt,
	)
	return scanBooking(row)
}

// ReferenceExists reports whether a booking with the given reference exists.
func (q *Queries) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings WHERE reference = ?`, reference).Scan(&n)
	return n > 0, err
}

// ImportBookingParams holds the fields for inserting an externally sourced
// booking with its status and timestamps preserved.
type ImportBookingParams struct {
	UserID        int64
	Reference     string
	ServiceName   string
	BookingDate   string
	BookingTime   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         sql.NullString
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ImportBooking inserts a booking as-is, keeping the source system's status
// and timestamps. Used by the legacy importer.
func (q *Queries) ImportBooking(ctx context.Context, arg ImportBookingParams) (model.Booking, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, reference, service_name, booking_date, booking_time,
			customer_name, customer_email, customer_phone, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+bookingColumns,
		arg.UserID, arg.Reference, arg.ServiceName, arg.BookingDate, arg.BookingTime,
		arg.CustomerName, arg.CustomerEmail, arg.CustomerPhone, arg.Notes, arg.Status,
		arg.CreatedAt, arg.UpdatedAt,
	)
	return scanBooking(row)
}

// GetBookingByID returns a booking by primary key.
func (q *Queries) GetBookingByID(ctx context.Context, id int64) (model.Booking, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

func (q *Queries) queryBookings(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListBookingsByUser returns all bookings owned by a user, ordered by booking
// date descending with ties broken by booking time descending.
func (q *Queries) ListBookingsByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	return q.queryBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = ?
		ORDER BY booking_date DESC, booking_time DESC`, userID)
}

// ListAllBookings returns every booking regardless of owner, same ordering as
// ListBookingsByUser. Authorization is the caller's responsibility.
func (q *Queries) ListAllBookings(ctx context.Context) ([]model.Booking, error) {
	return q.queryBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		ORDER BY booking_date DESC, booking_time DESC`)
}

// BookingWithOwner pairs a booking with its owner's username for admin listings.
type BookingWithOwner struct {
	model.Booking
	Username sql.NullString
}

func (q *Queries) queryBookingsWithOwner(ctx context.Context, query string, args ...any) ([]BookingWithOwner, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var bookings []BookingWithOwner
	for rows.Next() {
		var b BookingWithOwner
		err := rows.Scan(
			&b.ID, &b.UserID, &b.Reference, &b.ServiceName, &b.BookingDate, &b.BookingTime,
			&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.Notes, &b.Status,
			&b.CreatedAt, &b.UpdatedAt, &b.Username,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

const bookingOwnerSelect = `
	SELECT b.id, b.user_id, b.reference, b.service_name, b.booking_date, b.booking_time,
		b.customer_name, b.customer_email, b.customer_phone, b.notes, b.status,
		b.created_at, b.updated_at, u.username
	FROM bookings b
	LEFT JOIN users u ON b.user_id = u.id`

// ListBookingsWithOwner returns every booking joined with the owner's
// username, ordered by creation time descending.
func (q *Queries) ListBookingsWithOwner(ctx context.Context) ([]BookingWithOwner, error) {
	return q.queryBookingsWithOwner(ctx, bookingOwnerSelect+`
		ORDER BY b.created_at DESC, b.id DESC`)
}

// ListRecentBookings returns the most recently created bookings with their
// owner's username, capped at limit.
func (q *Queries) ListRecentBookings(ctx context.Context, limit int64) ([]BookingWithOwner, error) {
	return q.queryBookingsWithOwner(ctx, bookingOwnerSelect+`
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT ?`, limit)
}

// UpdateBookingStatusParams holds the fields for a status update.
type UpdateBookingStatusParams struct {
	Status    string
	UpdatedAt time.Time
	ID        int64
}

// UpdateBookingStatus sets a booking's status unconditionally and reports
// whether a row was affected. Ownership checks belong to the caller.
func (q *Queries) UpdateBookingStatus(ctx context.Context, arg UpdateBookingStatusParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteBooking removes a booking unconditionally and reports whether a row
// was affected. Ownership checks belong to the caller.
func (q *Queries) DeleteBooking(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountBookings returns the total number of bookings.
func (q *Queries) CountBookings(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}

// CountBookingsByStatus returns the number of bookings in the given status.
func (q *Queries) CountBookingsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE status = ?`, status).Scan(&n)
	return n, err
}

// CompletePastConfirmedBookings marks confirmed bookings whose date is before
// cutoff as completed. Returns the number of rows updated.
func (q *Queries) CompletePastConfirmedBookings(ctx context.Context, cutoffDate string, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE bookings SET status = 'completed', updated_at = ?
		WHERE status = 'confirmed' AND booking_date < ?`, now, cutoffDate)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
