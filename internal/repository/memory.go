package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// MemoryStore keeps the whole dataset in process. Writes to a flight's
// bookings are serialised by a mutex per flight.
type MemoryStore struct {
	mu            sync.RWMutex
	airports      []domain.Airport
	flights       map[int64]*domain.Flight
	flightLocks   map[int64]*sync.Mutex
	users         map[int64]*domain.User
	bookings      map[int64]*domain.FlightBooking
	nextBookingID int64
	now           func() time.Time
}

func NewMemoryStore(fixture *Fixture) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	s.load(fixture)
	return s
}

// Reset discards all bookings and sessions and reloads the fixture. It waits
// for in-flight bookings and cancellations by taking every flight lock first.
func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.RLock()
	ids := make([]int64, 0, len(s.flightLocks))
	for id := range s.flightLocks {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locks := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		s.mu.RLock()
		lock := s.flightLocks[id]
		s.mu.RUnlock()
		lock.Lock()
		locks = append(locks, lock)
	}
	defer func() {
		for _, lock := range locks {
			lock.Unlock()
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(DefaultFixture())
	return nil
}

func (s *MemoryStore) load(fixture *Fixture) {
	s.airports = append([]domain.Airport(nil), fixture.Airports...)
	s.flights = make(map[int64]*domain.Flight, len(fixture.Flights))
	if s.flightLocks == nil {
		s.flightLocks = make(map[int64]*sync.Mutex, len(fixture.Flights))
	}
	s.users = make(map[int64]*domain.User, len(fixture.Users))
	s.bookings = make(map[int64]*domain.FlightBooking)
	s.nextBookingID = 0
	for _, f := range fixture.Flights {
		s.flights[f.ID] = f.Clone()
		if _, ok := s.flightLocks[f.ID]; !ok {
			s.flightLocks[f.ID] = &sync.Mutex{}
		}
		for _, b := range f.Bookings() {
			s.bookings[b.ID] = b.Clone()
			if b.ID > s.nextBookingID {
				s.nextBookingID = b.ID
			}
		}
	}
	for _, u := range fixture.Users {
		c := *u
		c.Bookings = nil
		s.users[u.ID] = &c
	}
}

func (s *MemoryStore) Search(ctx context.Context, origin, destination string) ([]*domain.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Flight, 0)
	for _, f := range s.flights {
		if !airportMatches(f.Origin, origin) || !airportMatches(f.Destination, destination) {
			continue
		}
		result = append(result, &domain.Flight{
			ID:            f.ID,
			Name:          f.Name,
			Origin:        f.Origin,
			Destination:   f.Destination,
			DepartureTime: f.DepartureTime,
			ArrivalTime:   f.ArrivalTime,
			AircraftType:  domain.AircraftType{ID: f.AircraftType.ID, Name: f.AircraftType.Name},
			SeatPricings:  append([]domain.SeatPricing(nil), f.SeatPricings...),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].DepartureTime.Equal(result[j].DepartureTime) {
			return result[i].DepartureTime.Before(result[j].DepartureTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func airportMatches(a domain.Airport, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a.Name), q) || strings.Contains(strings.ToLower(a.Code), q)
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	stored, unlock, err := s.lockFlight(id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return stored.Clone(), nil
}

func (s *MemoryStore) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Airport(nil), s.airports...), nil
}

// lockFlight takes the flight's mutex and returns the flight as stored once
// the lock is held, so a concurrent Reset cannot hand out a stale aggregate.
func (s *MemoryStore) lockFlight(id int64) (*domain.Flight, func(), error) {
	s.mu.RLock()
	lock, ok := s.flightLocks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNotFound
	}
	lock.Lock()

	s.mu.RLock()
	f, ok := s.flights[id]
	s.mu.RUnlock()
	if !ok {
		lock.Unlock()
		return nil, nil, ErrNotFound
	}
	return f, lock.Unlock, nil
}

func (s *MemoryStore) Book(ctx context.Context, flightID int64, fn BookFunc) (*domain.FlightBooking, *domain.Flight, error) {
	stored, unlock, err := s.lockFlight(flightID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	working := stored.Clone()
	booking, err := fn(working)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.nextBookingID++
	booking.ID = s.nextBookingID
	booking.CreatedAt = s.now().UTC()
	s.bookings[booking.ID] = booking.Clone()
	s.mu.Unlock()

	stored.AddBooking(booking.Clone())
	return booking, working, nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, id int64) (*domain.FlightBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID int64) ([]*domain.FlightBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FlightBooking
	for _, b := range s.bookings {
		if b.UserID == userID {
			result = append(result, b.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		di := s.flights[result[i].FlightID].DepartureTime
		dj := s.flights[result[j].FlightID].DepartureTime
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) Cancel(ctx context.Context, bookingID, userID int64) (*domain.FlightBooking, *domain.Flight, error) {
	s.mu.RLock()
	existing, ok := s.bookings[bookingID]
	var flightID int64
	if ok {
		flightID = existing.FlightID
	}
	s.mu.RUnlock()
	if !ok || existing.UserID != userID {
		return nil, nil, ErrNotFound
	}

	stored, unlock, err := s.lockFlight(flightID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	working := stored.Clone()
	var target *domain.FlightBooking
	for _, b := range working.Bookings() {
		if b.ID == bookingID {
			target = b
			break
		}
	}
	if target == nil {
		// cancelled concurrently
		return nil, nil, ErrNotFound
	}
	if err := working.RemoveBooking(target); err != nil {
		return nil, nil, err
	}
	if err := stored.RemoveBooking(&domain.FlightBooking{ID: bookingID}); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	delete(s.bookings, bookingID)
	s.mu.Unlock()

	return target, working, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetByUsernameAndUUID(ctx context.Context, username, uuid string) (*domain.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if uuid == "" || u.UUID != uuid {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) UpdateUUID(ctx context.Context, userID int64, uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.UUID = uuid
	return nil
}

// Flights, Bookings and Users expose the store through the narrower
// repository interfaces, whose GetByID methods would otherwise collide.
func (s *MemoryStore) Flights() FlightRepository   { return s }
func (s *MemoryStore) Bookings() BookingRepository { return memoryBookings{s} }
func (s *MemoryStore) Users() UserRepository       { return memoryUsers{s} }

type memoryBookings struct{ *MemoryStore }

func (m memoryBookings) GetByID(ctx context.Context, id int64) (*domain.FlightBooking, error) {
	return m.GetBooking(ctx, id)
}

type memoryUsers struct{ *MemoryStore }

func (m memoryUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.GetUserByID(ctx, id)
}

var (
	_ FlightRepository  = (*MemoryStore)(nil)
	_ BookingRepository = memoryBookings{}
	_ UserRepository    = memoryUsers{}
)
