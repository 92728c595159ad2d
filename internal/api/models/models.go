// Package models holds the gRPC message types shared by the flights and
// bookings services, and the mapping of service errors to gRPC status codes.
package models

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/users"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Airport struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeZone  string  `json:"timeZone"`
}

type Flight struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	DepartureTime string  `json:"departureTime"`
	Origin        Airport `json:"origin"`
	ArrivalTime   string  `json:"arrivalTime"`
	Destination   Airport `json:"destination"`
	AircraftType  string  `json:"aircraftType"`
}

type SeatingZone struct {
	CabinClass  string `json:"cabinClass"`
	StartRow    int32  `json:"startRow"`
	EndRow      int32  `json:"endRow"`
	SeatColumns string `json:"seatColumns"`
}

type BookingInfo struct {
	FlightID     int64            `json:"flightId"`
	AircraftType string           `json:"aircraftType"`
	TotalSeats   int32            `json:"totalSeats"`
	SeatingZones []SeatingZone    `json:"seatingZones"`
	BookedSeats  []string         `json:"bookedSeats"`
	Pricing      map[string]int32 `json:"pricing"`
}

type Booking struct {
	ID          int64    `json:"id"`
	Flight      Flight   `json:"flight"`
	BookedSeats []string `json:"bookedSeats"`
	TotalCost   int32    `json:"totalCost"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

func ToAirport(a domain.Airport) Airport {
	return Airport{
		ID:        a.ID,
		Name:      a.Name,
		Code:      a.Code,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		TimeZone:  a.TimeZone,
	}
}

func ToFlight(f *domain.Flight) Flight {
	return Flight{
		ID:            f.ID,
		Name:          f.Name,
		DepartureTime: f.DepartureTime.UTC().Format(time.RFC3339),
		Origin:        ToAirport(f.Origin),
		ArrivalTime:   f.ArrivalTime.UTC().Format(time.RFC3339),
		Destination:   ToAirport(f.Destination),
		AircraftType:  f.AircraftType.Name,
	}
}

func ToBookingInfo(f *domain.Flight) *BookingInfo {
	info := &BookingInfo{
		FlightID:     f.ID,
		AircraftType: f.AircraftType.Name,
		TotalSeats:   int32(f.TotalNumSeats()),
		SeatingZones: make([]SeatingZone, 0, len(f.AircraftType.SeatingZones)),
		BookedSeats:  f.BookedSeats(),
		Pricing:      make(map[string]int32),
	}
	for _, z := range f.AircraftType.SeatingZones {
		info.SeatingZones = append(info.SeatingZones, SeatingZone{
			CabinClass:  string(z.CabinClass),
			StartRow:    int32(z.StartRow),
			EndRow:      int32(z.EndRow),
			SeatColumns: z.Columns,
		})
	}
	if info.BookedSeats == nil {
		info.BookedSeats = []string{}
	}
	domain.SortSeatCodes(info.BookedSeats)
	for class, price := range f.SeatPricingMap() {
		info.Pricing[string(class)] = int32(price)
	}
	return info
}

func ToBooking(b *domain.FlightBooking, f *domain.Flight) Booking {
	out := Booking{
		ID:          b.ID,
		Flight:      ToFlight(f),
		BookedSeats: b.SortedSeats(),
		TotalCost:   int32(b.Price(f)),
	}
	if !b.CreatedAt.IsZero() {
		out.CreatedAt = b.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// Status converts a service error into a gRPC status error. Errors that are
// already statuses pass through unchanged.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var be *domain.BookingError
	switch {
	case errors.As(err, &be):
		if errors.Is(be, domain.ErrSeatsAlreadyBooked) {
			return status.Error(codes.AlreadyExists, be.Error())
		}
		return status.Error(codes.InvalidArgument, be.Error())
	case errors.Is(err, flights.ErrInvalidQuery):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, users.ErrUnauthorized), errors.Is(err, domain.ErrNilUser):
		return status.Error(codes.Unauthenticated, "not authenticated")
	case errors.Is(err, booking.ErrFlightBusy):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
