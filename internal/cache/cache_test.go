package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "cache:flights:akl|syd", flightsKey("akl|syd"))
	assert.Equal(t, "lock:flight:43", flightLockKey(43))
}

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:0"}, time.Minute)
	assert.NotNil(t, c)
	assert.Equal(t, time.Minute, c.flightsTTL)
	assert.NoError(t, c.Close())
}

func TestLocalCache_Flights(t *testing.T) {
	c := NewLocalCache(time.Minute, time.Minute)
	ctx := context.Background()

	got, err := c.GetFlights(ctx, "akl|syd")
	require.NoError(t, err)
	assert.Nil(t, got)

	flights := []*domain.Flight{{ID: 1, Name: "ZNJ-242"}, {ID: 2, Name: "WJF-883"}}
	require.NoError(t, c.SetFlights(ctx, "akl|syd", flights))

	flights[0].Name = "mutated"
	got, err = c.GetFlights(ctx, "akl|syd")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ZNJ-242", got[0].Name)

	got[1].Name = "mutated"
	again, err := c.GetFlights(ctx, "akl|syd")
	require.NoError(t, err)
	assert.Equal(t, "WJF-883", again[1].Name)
}

func TestLocalCache_FlightsExpire(t *testing.T) {
	c := NewLocalCache(20*time.Millisecond, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.SetFlights(ctx, "k", []*domain.Flight{{ID: 1}}))

	assert.Eventually(t, func() bool {
		got, _ := c.GetFlights(ctx, "k")
		return got == nil
	}, time.Second, 10*time.Millisecond)
}

func TestLocalCache_FlightLock(t *testing.T) {
	c := NewLocalCache(time.Minute, time.Minute)
	ctx := context.Background()

	token, ok, err := c.AcquireFlightLock(ctx, 43, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = c.AcquireFlightLock(ctx, 43, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// other flights are independent
	_, ok, _ = c.AcquireFlightLock(ctx, 37, time.Minute)
	assert.True(t, ok)

	// a stale token does not release the lock
	require.NoError(t, c.ReleaseFlightLock(ctx, 43, "stale"))
	_, ok, _ = c.AcquireFlightLock(ctx, 43, time.Minute)
	assert.False(t, ok)

	require.NoError(t, c.ReleaseFlightLock(ctx, 43, token))
	_, ok, _ = c.AcquireFlightLock(ctx, 43, time.Minute)
	assert.True(t, ok)
}

func TestLocalCache_FlightLockExpires(t *testing.T) {
	c := NewLocalCache(time.Minute, time.Minute)
	ctx := context.Background()

	_, ok, _ := c.AcquireFlightLock(ctx, 43, 20*time.Millisecond)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok, _ := c.AcquireFlightLock(ctx, 43, time.Minute)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestLocalCache_FlightLockExclusive(t *testing.T) {
	c := NewLocalCache(time.Minute, time.Minute)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := c.AcquireFlightLock(ctx, 43, time.Minute); ok {
				holders.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), holders.Load())
}
