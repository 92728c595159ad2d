package domain

import "time"

type SeatPricing struct {
	CabinClass CabinClass
	Price      int
}

// Flight is the aggregate root for seat bookings. All changes to a flight's
// booked seats go through MakeBooking and RemoveBooking, which keep the seats
// of all bookings disjoint. Callers must serialise mutations per flight.
type Flight struct {
	ID            int64
	Name          string
	Origin        Airport
	Destination   Airport
	DepartureTime time.Time
	ArrivalTime   time.Time
	AircraftType  AircraftType
	SeatPricings  []SeatPricing

	bookings []*FlightBooking
}

// Bookings returns a copy of the flight's committed bookings.
func (f *Flight) Bookings() []*FlightBooking {
	out := make([]*FlightBooking, len(f.bookings))
	copy(out, f.bookings)
	return out
}

// AddBooking restores an already committed booking, e.g. when a repository
// rehydrates the aggregate. It performs no validation.
func (f *Flight) AddBooking(b *FlightBooking) {
	b.FlightID = f.ID
	f.bookings = append(f.bookings, b)
}

func (f *Flight) BookedSeats() []string {
	var seats []string
	for _, b := range f.bookings {
		seats = append(seats, b.Seats...)
	}
	return seats
}

func (f *Flight) TotalNumSeats() int {
	return f.AircraftType.TotalNumSeats()
}

func (f *Flight) NumSeatsRemaining() int {
	return f.TotalNumSeats() - len(f.BookedSeats())
}

// SeatPricingMap maps each priced cabin class to its per-seat price. Classes
// without an entry are omitted and cost 0.
func (f *Flight) SeatPricingMap() map[CabinClass]int {
	m := make(map[CabinClass]int, len(f.SeatPricings))
	for _, p := range f.SeatPricings {
		m[p.CabinClass] = p.Price
	}
	return m
}

// SetSeatPrice creates or replaces the pricing entry for a cabin class.
func (f *Flight) SetSeatPrice(class CabinClass, price int) {
	for i := range f.SeatPricings {
		if f.SeatPricings[i].CabinClass == class {
			f.SeatPricings[i].Price = price
			return
		}
	}
	f.SeatPricings = append(f.SeatPricings, SeatPricing{CabinClass: class, Price: price})
}

func (f *Flight) priceFor(class CabinClass) int {
	for _, p := range f.SeatPricings {
		if p.CabinClass == class {
			return p.Price
		}
	}
	return 0
}

// PriceOf returns the current price of a seat on this flight. Seats outside the
// seat map and cabin classes without pricing both cost 0.
func (f *Flight) PriceOf(code string) int {
	seat, err := ParseSeatCode(code)
	if err != nil {
		return 0
	}
	class, ok := f.AircraftType.CabinClassOf(seat)
	if !ok {
		return 0
	}
	return f.priceFor(class)
}

// MakeBooking validates the requested seats against the seat map and the
// flight's current bookings and, if every check passes, commits a new booking
// for user. On error the flight and the user are left untouched.
func (f *Flight) MakeBooking(user *User, seatCodes ...string) (*FlightBooking, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if len(seatCodes) == 0 {
		return nil, &BookingError{Reason: ErrNoSeats}
	}

	normalised := make([]string, 0, len(seatCodes))
	var invalid []string
	for _, code := range seatCodes {
		seat, err := ParseSeatCode(code)
		if err != nil {
			invalid = append(invalid, code)
			continue
		}
		if _, ok := f.AircraftType.CabinClassOf(seat); !ok {
			invalid = append(invalid, code)
			continue
		}
		normalised = append(normalised, seat.Code())
	}
	if len(invalid) > 0 {
		return nil, &BookingError{Reason: ErrInvalidSeats, Seats: invalid}
	}

	booked := make(map[string]struct{})
	for _, code := range f.BookedSeats() {
		booked[code] = struct{}{}
	}
	requested := make(map[string]struct{}, len(normalised))
	var taken []string
	for _, code := range normalised {
		if _, ok := booked[code]; ok {
			taken = append(taken, code)
			continue
		}
		if _, ok := requested[code]; ok {
			taken = append(taken, code)
			continue
		}
		requested[code] = struct{}{}
	}
	if len(taken) > 0 {
		return nil, &BookingError{Reason: ErrSeatsAlreadyBooked, Seats: taken}
	}

	b := &FlightBooking{
		UserID:   user.ID,
		FlightID: f.ID,
		Seats:    normalised,
	}
	f.bookings = append(f.bookings, b)
	user.Bookings = append(user.Bookings, b)
	return b, nil
}

// RemoveBooking cancels b and detaches it from the flight. A booking that does
// not belong to the flight yields ErrBookingNotOnFlight and changes nothing.
func (f *Flight) RemoveBooking(b *FlightBooking) error {
	for i, existing := range f.bookings {
		if existing == b || (b.ID != 0 && existing.ID == b.ID) {
			f.bookings = append(f.bookings[:i:i], f.bookings[i+1:]...)
			existing.FlightID = 0
			b.FlightID = 0
			return nil
		}
	}
	return ErrBookingNotOnFlight
}

// Clone returns a deep copy of the flight including its bookings.
func (f *Flight) Clone() *Flight {
	c := *f
	c.AircraftType.SeatingZones = append([]SeatingZone(nil), f.AircraftType.SeatingZones...)
	c.SeatPricings = append([]SeatPricing(nil), f.SeatPricings...)
	c.bookings = make([]*FlightBooking, 0, len(f.bookings))
	for _, b := range f.bookings {
		c.bookings = append(c.bookings, b.Clone())
	}
	return &c
}
