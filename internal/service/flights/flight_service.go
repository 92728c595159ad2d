package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const dateLayout = "2006-01-02"

var ErrInvalidQuery = errors.New("invalid flight query")

// SearchQuery selects flights between two airports. Origin and Destination
// match airport names or codes as case-insensitive substrings. When
// DepartureDate is set, only flights departing within DayRange days of it
// (in the origin's local time) are returned.
type SearchQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	DayRange      int
}

type FlightUseCase interface {
	Search(ctx context.Context, q SearchQuery) ([]*domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	BookingInfo(ctx context.Context, id int64) (*domain.Flight, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context, key string) ([]*domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []*domain.Flight) error
}

type FlightService struct {
	repo    repository.FlightRepository
	cache   FlightCache
	group   singleflight.Group
	log     *zap.SugaredLogger
	metrics *metrics.Registry
}

type FlightServiceOption func(*FlightService)

func WithLogger(log *zap.SugaredLogger) FlightServiceOption {
	return func(s *FlightService) {
		s.log = log
	}
}

func WithMetrics(m *metrics.Registry) FlightServiceOption {
	return func(s *FlightService) {
		s.metrics = m
	}
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...FlightServiceOption) *FlightService {
	service := &FlightService{
		repo:  repo,
		cache: cache,
		log:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.metrics == nil {
		service.metrics = metrics.NewNop()
	}
	return service
}

func (s *FlightService) Search(ctx context.Context, q SearchQuery) ([]*domain.Flight, error) {
	origin := strings.TrimSpace(q.Origin)
	destination := strings.TrimSpace(q.Destination)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrInvalidQuery)
	}
	if q.DayRange < 0 {
		return nil, fmt.Errorf("%w: dayRange must not be negative", ErrInvalidQuery)
	}

	var date time.Time
	if q.DepartureDate != "" {
		var err error
		if date, err = time.Parse(dateLayout, q.DepartureDate); err != nil {
			return nil, fmt.Errorf("%w: departureDate must be YYYY-MM-DD", ErrInvalidQuery)
		}
	}

	candidates, err := s.candidates(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return candidates, nil
	}

	result := make([]*domain.Flight, 0, len(candidates))
	for _, f := range candidates {
		if departsWithin(f, date, q.DayRange) {
			result = append(result, f)
		}
	}
	return result, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

// BookingInfo returns the full flight aggregate: seat map, booked seats and
// pricing. It always reads through to the store.
func (s *FlightService) BookingInfo(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.AircraftType.Validate(); err != nil {
		s.log.Warnw("flight has an inconsistent seat map", "flight_id", id, "error", err)
	}
	return f, nil
}

// candidates loads the unfiltered search result for a route, going through the
// cache and collapsing concurrent identical lookups.
func (s *FlightService) candidates(ctx context.Context, origin, destination string) ([]*domain.Flight, error) {
	key := strings.ToLower(origin) + "|" + strings.ToLower(destination)

	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx, key)
		if err != nil {
			s.log.Warnw("flight cache read failed", "key", key, "error", err)
		} else if cached != nil {
			s.metrics.CacheHitsTotal.WithLabelValues("flights").Inc()
			return cached, nil
		}
		s.metrics.CacheMissesTotal.WithLabelValues("flights").Inc()
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		flights, err := s.repo.Search(ctx, origin, destination)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetFlights(ctx, key, flights); err != nil {
				s.log.Warnw("flight cache write failed", "key", key, "error", err)
			}
		}
		return flights, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Flight), nil
}

// departsWithin reports whether f departs on date, in the origin's zone, with
// the window widened by 24 hours per day of dayRange on each side.
func departsWithin(f *domain.Flight, date time.Time, dayRange int) bool {
	loc := f.Origin.Location()
	y, m, d := date.Date()
	spread := time.Duration(dayRange) * 24 * time.Hour
	start := time.Date(y, m, d, 0, 0, 0, 0, loc).Add(-spread)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(spread)
	dep := f.DepartureTime
	return !dep.Before(start) && dep.Before(end)
}

var _ FlightUseCase = (*FlightService)(nil)
