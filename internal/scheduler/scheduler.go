// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: marking past
// confirmed bookings completed and pruning the event log.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/service"
	"github.com/olegiv/bookery/internal/store"
)

// Scheduler owns the cron instance and the maintenance jobs.
type Scheduler struct {
	db             *sql.DB
	cron           *cron.Cron
	logger         *slog.Logger
	events         *service.EventService
	eventRetention time.Duration
}

// New creates a new scheduler instance. eventRetention controls how long
// event log entries are kept.
func New(db *sql.DB, logger *slog.Logger, eventRetention time.Duration) *Scheduler {
	return &Scheduler{
		db:             db,
		cron:           cron.New(),
		logger:         logger,
		events:         service.NewEventService(db),
		eventRetention: eventRetention,
	}
}

// Start registers the maintenance jobs and starts the cron loop.
// Both jobs run shortly after midnight so day boundaries are fresh.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("5 0 * * *", func() {
		if err := s.CompletePastBookings(context.Background()); err != nil {
			s.logger.Error("failed to complete past bookings", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("15 0 * * *", func() {
		if err := s.PruneEvents(context.Background()); err != nil {
			s.logger.Error("failed to prune event log", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// CompletePastBookings marks confirmed bookings whose date has passed as
// completed and records an event when anything changed.
func (s *Scheduler) CompletePastBookings(ctx context.Context) error {
	now := time.Now()
	cutoff := now.Format(model.BookingDateFormat)

	updated, err := store.New(s.db).CompletePastConfirmedBookings(ctx, cutoff, now)
	if err != nil {
		return err
	}
	if updated == 0 {
		return nil
	}

	s.logger.Info("completed past bookings", "count", updated)
	_ = s.events.LogSystemEvent(ctx, model.EventLevelInfo,
		"Past confirmed bookings marked completed", nil, "",
		map[string]any{"count": updated, "cutoff": cutoff})
	return nil
}

// PruneEvents deletes event log entries older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) error {
	if s.eventRetention <= 0 {
		return nil
	}

	deleted, err := s.events.DeleteOldEvents(ctx, s.eventRetention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("pruned event log", "deleted", deleted)
	}
	return nil
}
