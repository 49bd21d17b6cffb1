// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// Reader reads users and bookings from a legacy MySQL database.
type Reader struct {
	db     *sql.DB
	prefix string // Table prefix (e.g., "app_")
}

// NewReader opens a connection to the legacy database and verifies it.
func NewReader(dsn string, tablePrefix string) (*Reader, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Reader{db: db, prefix: tablePrefix}, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// CountUsers returns the number of users in the legacy database. Also serves
// as a connection and schema check before a full import.
func (r *Reader) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+r.prefix+`users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to query %susers table: %w", r.prefix, err)
	}
	return n, nil
}

// CountBookings returns the number of bookings in the legacy database.
func (r *Reader) CountBookings(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+r.prefix+`bookings`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to query %sbookings table: %w", r.prefix, err)
	}
	return n, nil
}

// Users reads all users from the legacy database.
func (r *Reader) Users(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, email, password_hash, role, created_at
		FROM `+r.prefix+`users
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []User
	for rows.Next() {
		var u User
		var role sql.NullString
		if err := rows.Scan(&u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if role.Valid {
			u.Role = role.String
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Bookings reads all bookings from the legacy database, resolving each
// owner's user ID to an email address.
func (r *Reader) Bookings(ctx context.Context) ([]Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.email, b.reference, b.service_name, b.booking_date, b.booking_time,
			b.customer_name, b.customer_email, b.customer_phone, b.notes, b.status,
			b.created_at, b.updated_at
		FROM `+r.prefix+`bookings b
		JOIN `+r.prefix+`users u ON b.user_id = u.id
		ORDER BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		var reference, notes, status sql.NullString
		err := rows.Scan(&b.OwnerEmail, &reference, &b.ServiceName, &b.BookingDate,
			&b.BookingTime, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
			&notes, &status, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Reference = reference.String
		b.Notes = notes.String
		b.Status = status.String
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
