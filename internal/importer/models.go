// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package importer copies users and bookings from a legacy MySQL booking
// system into the local database. Imports are idempotent: users are keyed
// by email and bookings by reference, so re-running an import only picks
// up rows that are not present yet.
package importer

import "time"

// User is a user row read from the legacy database.
type User struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Booking is a booking row read from the legacy database. The owner is
// carried by email because user IDs do not survive the import.
type Booking struct {
	OwnerEmail    string
	Reference     string
	ServiceName   string
	BookingDate   string
	BookingTime   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
