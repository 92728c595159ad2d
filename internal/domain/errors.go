package domain

import (
	"errors"
	"strings"
)

var (
	ErrNoSeats            = errors.New("cannot make a booking for 0 seats")
	ErrInvalidSeats       = errors.New("invalid seat(s)")
	ErrSeatsAlreadyBooked = errors.New("seat(s) already booked")

	ErrNilUser            = errors.New("booking requires a user")
	ErrBookingNotOnFlight = errors.New("booking does not belong to this flight")
)

// BookingError is returned by Flight.MakeBooking when a request is rejected.
// It unwraps to one of ErrNoSeats, ErrInvalidSeats or ErrSeatsAlreadyBooked.
type BookingError struct {
	Reason error
	Seats  []string
}

func (e *BookingError) Error() string {
	if len(e.Seats) == 0 {
		return e.Reason.Error()
	}
	return e.Reason.Error() + ": " + strings.Join(e.Seats, ", ")
}

func (e *BookingError) Unwrap() error {
	return e.Reason
}

// IsBookingError reports whether err is a booking validation failure.
func IsBookingError(err error) bool {
	var be *BookingError
	return errors.As(err, &be)
}
