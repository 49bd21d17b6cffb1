// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/bookery/internal/cache"
	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/store"
)

// statsCacheKey is the cache key for the admin dashboard statistics.
const statsCacheKey = "admin:dashboard_stats"

// RecentBooking is a booking joined with its owner's username for the
// admin dashboard.
type RecentBooking struct {
	model.Booking
	Notes    string `json:"notes"`
	Username string `json:"username"`
}

// DashboardStats aggregates the numbers shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers      int64           `json:"totalUsers"`
	TotalBookings   int64           `json:"totalBookings"`
	PendingBookings int64           `json:"pendingBookings"`
	RecentBookings  []RecentBooking `json:"recentBookings"`
	AllUsers        []model.User    `json:"allUsers"`
}

// StatsService computes admin dashboard statistics, with an optional
// cache in front of the database.
type StatsService struct {
	queries *store.Queries
	cache   cache.Cacher
	ttl     time.Duration
}

// NewStatsService creates a StatsService. The cache may be nil to always
// hit the database.
func NewStatsService(db *sql.DB, c cache.Cacher, ttl time.Duration) *StatsService {
	return &StatsService{
		queries: store.New(db),
		cache:   c,
		ttl:     ttl,
	}
}

// DashboardStats returns the admin dashboard aggregates, serving from the
// cache when a fresh entry exists.
func (s *StatsService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, statsCacheKey); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
			// Corrupt entry, drop it and recompute
			_ = s.cache.Delete(ctx, statsCacheKey)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			slog.Warn("stats cache read failed", "error", err)
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, data, s.ttl); err != nil {
				slog.Warn("stats cache write failed", "error", err)
			}
		}
	}

	return stats, nil
}

// Invalidate drops the cached dashboard statistics. Called after any
// write that changes the aggregates.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, statsCacheKey)
	}
}

func (s *StatsService) computeStats(ctx context.Context) (*DashboardStats, error) {
	totalUsers, err := s.queries.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	totalBookings, err := s.queries.CountBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting bookings: %w", err)
	}

	pendingBookings, err := s.queries.CountBookingsByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("counting pending bookings: %w", err)
	}

	recent, err := s.queries.ListRecentBookings(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("listing recent bookings: %w", err)
	}

	users, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	recentBookings := make([]RecentBooking, 0, len(recent))
	for _, b := range recent {
		rb := RecentBooking{Booking: b.Booking}
		if b.Booking.Notes.Valid {
			rb.Notes = b.Booking.Notes.String
		}
		if b.Username.Valid {
			rb.Username = b.Username.String
		}
		recentBookings = append(recentBookings, rb)
	}

	if users == nil {
		users = []model.User{}
	}

	return &DashboardStats{
		TotalUsers:      totalUsers,
		TotalBookings:   totalBookings,
		PendingBookings: pendingBookings,
		RecentBookings:  recentBookings,
		AllUsers:        users,
	}, nil
}
