package domain

import "time"

// FlightBooking is a committed set of seats on one flight for one user. It
// refers to its flight and user by id; FlightID is zero once cancelled.
type FlightBooking struct {
	ID        int64
	UserID    int64
	FlightID  int64
	Seats     []string
	CreatedAt time.Time
}

func (b *FlightBooking) Cancelled() bool {
	return b.FlightID == 0
}

// Price sums the current per-seat prices of the booked seats on f. It is
// recomputed on every call, so later pricing changes on the flight show up here.
func (b *FlightBooking) Price(f *Flight) int {
	total := 0
	for _, code := range b.Seats {
		total += f.PriceOf(code)
	}
	return total
}

// SortedSeats returns the booked seat codes ordered by row, then column.
func (b *FlightBooking) SortedSeats() []string {
	seats := make([]string, len(b.Seats))
	copy(seats, b.Seats)
	SortSeatCodes(seats)
	return seats
}

func (b *FlightBooking) Clone() *FlightBooking {
	c := *b
	c.Seats = append([]string(nil), b.Seats...)
	return &c
}
