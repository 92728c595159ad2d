package api

import (
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
)

type AirportDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeZone  string  `json:"timeZone"`
}

type FlightDTO struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	DepartureTime time.Time  `json:"departureTime"`
	Origin        AirportDTO `json:"origin"`
	ArrivalTime   time.Time  `json:"arrivalTime"`
	Destination   AirportDTO `json:"destination"`
	AircraftType  string     `json:"aircraftType"`
}

type SeatingZoneDTO struct {
	CabinClass  string `json:"cabinClass"`
	StartRow    int    `json:"startRow"`
	EndRow      int    `json:"endRow"`
	SeatColumns string `json:"seatColumns"`
}

type AircraftTypeDTO struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	TotalNumSeats int              `json:"totalNumSeats"`
	SeatingZones  []SeatingZoneDTO `json:"seatingZones"`
}

type BookingInfoDTO struct {
	AircraftType AircraftTypeDTO `json:"aircraftType"`
	BookedSeats  []string        `json:"bookedSeats"`
	// Pricing maps cabin class to per-seat price.
	Pricing map[string]int `json:"pricing"`
}

type FlightBookingDTO struct {
	ID          int64     `json:"id"`
	Flight      FlightDTO `json:"flight"`
	BookedSeats []string  `json:"bookedSeats"`
	TotalCost   int       `json:"totalCost"`
}

type BookingRequestDTO struct {
	FlightID int64    `json:"flightId" binding:"required"`
	Seats    []string `json:"seats"`
}

type UserDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toAirportDTO(a domain.Airport) AirportDTO {
	return AirportDTO{
		ID:        a.ID,
		Name:      a.Name,
		Code:      a.Code,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		TimeZone:  a.TimeZone,
	}
}

func toFlightDTO(f *domain.Flight) FlightDTO {
	return FlightDTO{
		ID:            f.ID,
		Name:          f.Name,
		DepartureTime: f.DepartureTime.UTC(),
		Origin:        toAirportDTO(f.Origin),
		ArrivalTime:   f.ArrivalTime.UTC(),
		Destination:   toAirportDTO(f.Destination),
		AircraftType:  f.AircraftType.Name,
	}
}

func toFlightDTOs(flights []*domain.Flight) []FlightDTO {
	out := make([]FlightDTO, 0, len(flights))
	for _, f := range flights {
		out = append(out, toFlightDTO(f))
	}
	return out
}

func toBookingInfoDTO(f *domain.Flight) BookingInfoDTO {
	zones := make([]SeatingZoneDTO, 0, len(f.AircraftType.SeatingZones))
	for _, z := range f.AircraftType.SeatingZones {
		zones = append(zones, SeatingZoneDTO{
			CabinClass:  string(z.CabinClass),
			StartRow:    z.StartRow,
			EndRow:      z.EndRow,
			SeatColumns: z.Columns,
		})
	}

	booked := f.BookedSeats()
	if booked == nil {
		booked = []string{}
	}
	domain.SortSeatCodes(booked)

	pricing := make(map[string]int)
	for class, price := range f.SeatPricingMap() {
		pricing[string(class)] = price
	}

	return BookingInfoDTO{
		AircraftType: AircraftTypeDTO{
			ID:            f.AircraftType.ID,
			Name:          f.AircraftType.Name,
			TotalNumSeats: f.AircraftType.TotalNumSeats(),
			SeatingZones:  zones,
		},
		BookedSeats: booked,
		Pricing:     pricing,
	}
}

func toFlightBookingDTO(b *domain.FlightBooking, f *domain.Flight) FlightBookingDTO {
	return FlightBookingDTO{
		ID:          b.ID,
		Flight:      toFlightDTO(f),
		BookedSeats: b.SortedSeats(),
		TotalCost:   b.Price(f),
	}
}

func toFlightBookingDTOs(details []booking.Details) []FlightBookingDTO {
	out := make([]FlightBookingDTO, 0, len(details))
	for _, d := range details {
		out = append(out, toFlightBookingDTO(d.Booking, d.Flight))
	}
	return out
}
