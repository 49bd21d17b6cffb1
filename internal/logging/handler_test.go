package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "bookery-logging-test-*.db")
	require.NoError(t, err)
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestEventLogHandlerError(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Error("database connection failed", "host", "localhost")

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, model.EventLevelError, events[0].Level)
	require.Equal(t, model.EventCategorySystem, events[0].Category)
	require.Contains(t, events[0].Metadata, `"host":"localhost"`)
}

func TestEventLogHandlerSkipsInfo(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Info("routine startup message")

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestEventLogHandlerCategory(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Warn("login failed", "email", "x@example.com")
	logger.Warn("something odd", "category", model.EventCategoryBooking)

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	got := map[string]bool{}
	for _, e := range events {
		got[e.Category] = true
	}
	require.True(t, got[model.EventCategoryAuth])
	require.True(t, got[model.EventCategoryBooking])
}

func TestEventLogHandlerCustomLevel(t *testing.T) {
	db := testDB(t)

	h := NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo)
	logger := slog.New(h)
	logger.Info("booking created", "booking_id", 1)

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, model.EventLevelInfo, events[0].Level)

	// WithAttrs must keep mirroring to the event log
	logger.With("request_id", "abc").Info("booking updated")
	events, err = store.New(db).ListRecentEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
}
