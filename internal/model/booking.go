// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// BookingDateFormat is the calendar date layout used on the wire and in the store.
const BookingDateFormat = "2006-01-02"

// Booking represents a scheduled service appointment owned by exactly one user.
type Booking struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id"`
	Reference     string         `json:"reference"`
	ServiceName   string         `json:"service_name"`
	BookingDate   string         `json:"booking_date"` // YYYY-MM-DD
	BookingTime   string         `json:"booking_time"` // HH:MM
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone"`
	Notes         sql.NullString `json:"-"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// IsValidStatus reports whether s is one of the four booking statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ValidStatuses lists the accepted booking statuses, used in error messages.
func ValidStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
}
