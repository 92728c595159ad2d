package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// LocalCache is the in-process counterpart of RedisCache, used when no Redis
// address is configured. Locks only exclude callers within this process.
type LocalCache struct {
	cache      *gocache.Cache
	flightsTTL time.Duration
}

func NewLocalCache(flightsTTL, cleanupInterval time.Duration) *LocalCache {
	return &LocalCache{
		cache:      gocache.New(flightsTTL, cleanupInterval),
		flightsTTL: flightsTTL,
	}
}

func (c *LocalCache) GetFlights(ctx context.Context, key string) ([]*domain.Flight, error) {
	v, ok := c.cache.Get(flightsKey(key))
	if !ok {
		return nil, nil
	}
	return cloneFlights(v.([]*domain.Flight)), nil
}

func (c *LocalCache) SetFlights(ctx context.Context, key string, flights []*domain.Flight) error {
	c.cache.Set(flightsKey(key), cloneFlights(flights), c.flightsTTL)
	return nil
}

func (c *LocalCache) AcquireFlightLock(ctx context.Context, flightID int64, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	if err := c.cache.Add(flightLockKey(flightID), token, ttl); err != nil {
		return "", false, nil
	}
	return token, true, nil
}

func (c *LocalCache) ReleaseFlightLock(ctx context.Context, flightID int64, token string) error {
	key := flightLockKey(flightID)
	if v, ok := c.cache.Get(key); ok && v.(string) == token {
		c.cache.Delete(key)
	}
	return nil
}

func cloneFlights(flights []*domain.Flight) []*domain.Flight {
	out := make([]*domain.Flight, len(flights))
	for i, f := range flights {
		out[i] = f.Clone()
	}
	return out
}
