package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

var ErrNotFound = errors.New("not found")

// BookFunc runs against the current state of a flight while the flight is
// locked for writing. A returned booking is persisted, an error aborts.
type BookFunc func(flight *domain.Flight) (*domain.FlightBooking, error)

type FlightRepository interface {
	// Search matches origin and destination case-insensitively against
	// airport names and codes. Results are ordered by departure time and do
	// not carry bookings.
	Search(ctx context.Context, origin, destination string) ([]*domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	ListAirports(ctx context.Context) ([]domain.Airport, error)
}

type BookingRepository interface {
	Book(ctx context.Context, flightID int64, fn BookFunc) (*domain.FlightBooking, *domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightBooking, error)
	// ListByUser returns the user's bookings ordered by flight departure.
	ListByUser(ctx context.Context, userID int64) ([]*domain.FlightBooking, error)
	// Cancel removes a booking owned by userID and returns it together with
	// the flight as it stands after removal.
	Cancel(ctx context.Context, bookingID, userID int64) (*domain.FlightBooking, *domain.Flight, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameAndUUID(ctx context.Context, username, uuid string) (*domain.User, error)
	UpdateUUID(ctx context.Context, userID int64, uuid string) error
}
