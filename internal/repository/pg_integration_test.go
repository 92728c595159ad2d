package repository

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to TEST_DATABASE_DSN, migrates and seeds it, and
// clears bookings left by earlier runs. The database is expected to be
// dedicated to tests.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Seed(ctx, pool, DefaultFixture()))
	_, err = pool.Exec(ctx, `DELETE FROM bookings`)
	require.NoError(t, err)
	return pool
}

func TestPGBookingRepository_ConcurrentOverlappingBookings(t *testing.T) {
	pool := newTestPool(t)
	repo := NewBookingRepository(pool)
	ctx := context.Background()

	requests := []struct {
		user  *domain.User
		seats []string
	}{
		{user: &domain.User{ID: 1, Username: "Alice"}, seats: []string{"20A", "20C"}},
		{user: &domain.User{ID: 2, Username: "Bob"}, seats: []string{"20C", "21A"}},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(requests))
	for i, r := range requests {
		wg.Add(1)
		go func(i int, user *domain.User, seats []string) {
			defer wg.Done()
			_, _, errs[i] = repo.Book(ctx, 43, bookSeats(user, seats...))
		}(i, r.user, r.seats)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSeatsAlreadyBooked)
	}
	assert.Equal(t, 1, succeeded)

	flight, err := NewFlightRepository(pool).GetByID(ctx, 43)
	require.NoError(t, err)
	assert.Len(t, flight.Bookings(), 1)
	assert.Contains(t, flight.BookedSeats(), "20C")
}

func TestPGBookingRepository_CancelAndListByUser(t *testing.T) {
	pool := newTestPool(t)
	repo := NewBookingRepository(pool)
	ctx := context.Background()
	alice := &domain.User{ID: 1, Username: "Alice"}

	flights := append([]*domain.Flight(nil), DefaultFixture().Flights...)
	sort.Slice(flights, func(i, j int) bool { return flights[i].DepartureTime.Before(flights[j].DepartureTime) })
	earliest, latest := flights[0], flights[len(flights)-1]

	late, _, err := repo.Book(ctx, latest.ID, bookSeats(alice, "1A"))
	require.NoError(t, err)
	early, _, err := repo.Book(ctx, earliest.ID, bookSeats(alice, "1A"))
	require.NoError(t, err)
	extra, _, err := repo.Book(ctx, earliest.ID, bookSeats(alice, "2A"))
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{early.ID, extra.ID, late.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})

	_, _, err = repo.Cancel(ctx, extra.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, flight, err := repo.Cancel(ctx, extra.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2A"}, cancelled.Seats)
	assert.NotContains(t, flight.BookedSeats(), "2A")

	_, err = repo.GetByID(ctx, extra.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)

	again, _, err := repo.Book(ctx, earliest.ID, bookSeats(alice, "2A"))
	require.NoError(t, err)
	assert.NotEqual(t, extra.ID, again.ID)
}

func TestPGFlightRepository_SearchLoadsPricings(t *testing.T) {
	pool := newTestPool(t)
	repo := NewFlightRepository(pool)
	ctx := context.Background()

	want := map[int64]*domain.Flight{}
	for _, f := range DefaultFixture().Flights {
		if f.Origin.Code == "AKL" && f.Destination.Code == "SYD" {
			want[f.ID] = f
		}
	}
	require.NotEmpty(t, want)

	flights, err := repo.Search(ctx, "akl", "syd")
	require.NoError(t, err)
	require.Len(t, flights, len(want))
	for _, f := range flights {
		require.Contains(t, want, f.ID)
		assert.Equal(t, want[f.ID].SeatPricingMap(), f.SeatPricingMap(), f.Name)
	}

	flights, err = repo.Search(ctx, "nowhere", "syd")
	require.NoError(t, err)
	assert.Empty(t, flights)
}
