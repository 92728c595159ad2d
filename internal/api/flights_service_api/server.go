package flights_service_api

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/api/models"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
)

type SearchFlightsRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate,omitempty"`
	DayRange      int32  `json:"dayRange,omitempty"`
}

type SearchFlightsResponse struct {
	Flights []models.Flight `json:"flights"`
}

type GetBookingInfoRequest struct {
	FlightID int64 `json:"flightId"`
}

// Server implements FlightsServiceServer on top of the flight use case.
type Server struct {
	flights flights.FlightUseCase
}

func NewServer(flights flights.FlightUseCase) *Server {
	return &Server{flights: flights}
}

func (s *Server) SearchFlights(ctx context.Context, req *SearchFlightsRequest) (*SearchFlightsResponse, error) {
	list, err := s.flights.Search(ctx, flights.SearchQuery{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		DayRange:      int(req.DayRange),
	})
	if err != nil {
		return nil, models.Status(err)
	}
	resp := &SearchFlightsResponse{
		Flights: make([]models.Flight, 0, len(list)),
	}
	for _, f := range list {
		resp.Flights = append(resp.Flights, models.ToFlight(f))
	}
	return resp, nil
}

func (s *Server) GetBookingInfo(ctx context.Context, req *GetBookingInfoRequest) (*models.BookingInfo, error) {
	flight, err := s.flights.BookingInfo(ctx, req.FlightID)
	if err != nil {
		return nil, models.Status(err)
	}
	return models.ToBookingInfo(flight), nil
}

var _ FlightsServiceServer = (*Server)(nil)
