package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/bookery/internal/store"
	"github.com/olegiv/bookery/internal/testutil"
)

// fakeSource feeds fixed records into the importer.
type fakeSource struct {
	users    []User
	bookings []Booking
}

func (s *fakeSource) Users(context.Context) ([]User, error)       { return s.users, nil }
func (s *fakeSource) Bookings(context.Context) ([]Booking, error) { return s.bookings, nil }

func testSource() *fakeSource {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeSource{
		users: []User{
			{Username: "alice", Email: "alice@example.com", PasswordHash: "legacy-hash-1", Role: "user", CreatedAt: created},
			{Username: "boss", Email: "boss@example.com", PasswordHash: "legacy-hash-2", Role: "admin", CreatedAt: created},
		},
		bookings: []Booking{
			{
				OwnerEmail:    "alice@example.com",
				Reference:     "legacy-ref-1",
				ServiceName:   "Haircut",
				BookingDate:   "2025-04-01",
				BookingTime:   "10:00",
				CustomerName:  "Alice",
				CustomerEmail: "alice@example.com",
				CustomerPhone: "555-0100",
				Notes:         "usual",
				Status:        "confirmed",
				CreatedAt:     created,
				UpdatedAt:     created,
			},
			{
				OwnerEmail:    "alice@example.com",
				Reference:     "legacy-ref-2",
				ServiceName:   "Massage",
				BookingDate:   "2025-04-02",
				BookingTime:   "11:00",
				CustomerName:  "Alice",
				CustomerEmail: "alice@example.com",
				CustomerPhone: "555-0100",
				Status:        "no-show", // unknown in this system
				CreatedAt:     created,
			},
		},
	}
}

func TestImportRun(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	im := New(db, testutil.TestLoggerSilent())
	result, err := im.Run(context.Background(), testSource(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.UsersImported)
	assert.Equal(t, 2, result.BookingsImported)
	assert.Empty(t, result.Errors)

	queries := store.New(db)
	ctx := context.Background()

	alice, err := queries.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user", alice.Role)
	assert.Equal(t, "legacy-hash-1", alice.PasswordHash)

	boss, err := queries.GetUserByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", boss.Role)

	bookings, err := queries.ListBookingsByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	byRef := map[string]string{}
	for _, b := range bookings {
		byRef[b.Reference] = b.Status
	}
	assert.Equal(t, "confirmed", byRef["legacy-ref-1"])
	// Unknown source status falls back to pending
	assert.Equal(t, "pending", byRef["legacy-ref-2"])
}

func TestImportIsIdempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	im := New(db, testutil.TestLoggerSilent())
	src := testSource()

	_, err := im.Run(context.Background(), src, Options{})
	require.NoError(t, err)

	result, err := im.Run(context.Background(), src, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.UsersImported)
	assert.Equal(t, 2, result.UsersSkipped)
	assert.Equal(t, 0, result.BookingsImported)
	assert.Equal(t, 2, result.BookingsSkipped)

	queries := store.New(db)
	n, err := queries.CountBookings(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestImportDryRun(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	im := New(db, testutil.TestLoggerSilent())
	result, err := im.Run(context.Background(), testSource(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.UsersImported)

	queries := store.New(db)
	n, err := queries.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestImportSkipsOrphanBookings(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	src := &fakeSource{
		bookings: []Booking{{
			OwnerEmail:  "nobody@example.com",
			Reference:   "orphan-ref",
			ServiceName: "Haircut",
			BookingDate: "2025-04-01",
			BookingTime: "10:00",
		}},
	}

	im := New(db, testutil.TestLoggerSilent())
	result, err := im.Run(context.Background(), src, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.BookingsImported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "owner nobody@example.com not found")
}
