// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/store"
)

// Source yields users and bookings from a legacy system. Reader is the
// MySQL implementation; tests supply their own.
type Source interface {
	Users(ctx context.Context) ([]User, error)
	Bookings(ctx context.Context) ([]Booking, error)
}

// Options controls an import run.
type Options struct {
	// DryRun reports what would be imported without writing anything.
	DryRun bool
}

// Result summarizes an import run.
type Result struct {
	UsersImported    int
	UsersSkipped     int
	BookingsImported int
	BookingsSkipped  int
	Errors           []string
}

// Importer copies legacy records into the local database.
type Importer struct {
	queries *store.Queries
	logger  *slog.Logger
}

// New creates an Importer writing to the given database.
func New(db *sql.DB, logger *slog.Logger) *Importer {
	return &Importer{
		queries: store.New(db),
		logger:  logger,
	}
}

// Run imports all users and then all bookings from the source. Rows that
// already exist locally are skipped, so a run can be safely repeated.
func (im *Importer) Run(ctx context.Context, src Source, opts Options) (*Result, error) {
	result := &Result{}

	if err := im.importUsers(ctx, src, opts, result); err != nil {
		return result, err
	}
	if err := im.importBookings(ctx, src, opts, result); err != nil {
		return result, err
	}

	im.logger.Info("import finished",
		"users_imported", result.UsersImported,
		"users_skipped", result.UsersSkipped,
		"bookings_imported", result.BookingsImported,
		"bookings_skipped", result.BookingsSkipped,
		"errors", len(result.Errors),
		"dry_run", opts.DryRun,
	)
	return result, nil
}

func (im *Importer) importUsers(ctx context.Context, src Source, opts Options, result *Result) error {
	users, err := src.Users(ctx)
	if err != nil {
		return fmt.Errorf("reading users: %w", err)
	}

	for _, u := range users {
		if u.Email == "" {
			result.Errors = append(result.Errors, "user with empty email skipped")
			continue
		}

		exists, err := im.queries.EmailExists(ctx, u.Email)
		if err != nil {
			return fmt.Errorf("checking user %s: %w", u.Email, err)
		}
		if exists {
			result.UsersSkipped++
			continue
		}

		if opts.DryRun {
			result.UsersImported++
			continue
		}

		role := u.Role
		if role != model.RoleAdmin {
			role = model.RoleUser
		}
		createdAt := u.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		// The legacy hash is kept as-is; it is upgraded to the current
		// format on the user's next successful login.
		_, err = im.queries.CreateUser(ctx, store.CreateUserParams{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         role,
			CreatedAt:    createdAt,
		})
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("user %s: %v", u.Email, err))
			continue
		}
		result.UsersImported++
	}
	return nil
}

func (im *Importer) importBookings(ctx context.Context, src Source, opts Options, result *Result) error {
	bookings, err := src.Bookings(ctx)
	if err != nil {
		return fmt.Errorf("reading bookings: %w", err)
	}

	for _, b := range bookings {
		if b.Reference != "" {
			exists, err := im.queries.ReferenceExists(ctx, b.Reference)
			if err != nil {
				return fmt.Errorf("checking booking %s: %w", b.Reference, err)
			}
			if exists {
				result.BookingsSkipped++
				continue
			}
		}

		owner, err := im.queries.GetUserByEmail(ctx, b.OwnerEmail)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("booking %s: owner %s not found", b.Reference, b.OwnerEmail))
			continue
		}

		if opts.DryRun {
			result.BookingsImported++
			continue
		}

		reference := b.Reference
		if reference == "" {
			reference = uuid.NewString()
		}
		status := b.Status
		if !model.IsValidStatus(status) {
			status = model.StatusPending
		}
		var notes sql.NullString
		if b.Notes != "" {
			notes = sql.NullString{String: b.Notes, Valid: true}
		}
		createdAt := b.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		updatedAt := b.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}

		_, err = im.queries.ImportBooking(ctx, store.ImportBookingParams{
			UserID:        owner.ID,
			Reference:     reference,
			ServiceName:   b.ServiceName,
			BookingDate:   b.BookingDate,
			BookingTime:   b.BookingTime,
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
			CustomerPhone: b.CustomerPhone,
			Notes:         notes,
			Status:        status,
			CreatedAt:     createdAt,
			UpdatedAt:     updatedAt,
		})
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("booking %s: %v", reference, err))
			continue
		}
		result.BookingsImported++
	}
	return nil
}
