package flights_service_api

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestServer() *Server {
	store := repository.NewMemoryStore(repository.DefaultFixture())
	return NewServer(flights.NewFlightService(store.Flights(), nil))
}

func TestServer_SearchFlights(t *testing.T) {
	s := newTestServer()

	resp, err := s.SearchFlights(context.Background(), &SearchFlightsRequest{
		Origin:        "akl",
		Destination:   "Sydney",
		DepartureDate: "2022-08-21",
		DayRange:      8,
	})
	require.NoError(t, err)
	require.Len(t, resp.Flights, 2)
	assert.Equal(t, "WJF-883", resp.Flights[0].Name)
	assert.Equal(t, "AKL", resp.Flights[0].Origin.Code)
	assert.Equal(t, "SYD", resp.Flights[0].Destination.Code)
}

func TestServer_SearchFlights_Errors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		req  *SearchFlightsRequest
		code codes.Code
	}{
		{name: "missing origin", req: &SearchFlightsRequest{Destination: "SYD"}, code: codes.InvalidArgument},
		{name: "negative range", req: &SearchFlightsRequest{Origin: "AKL", Destination: "SYD", DepartureDate: "2022-08-21", DayRange: -2}, code: codes.InvalidArgument},
		{name: "bad date", req: &SearchFlightsRequest{Origin: "AKL", Destination: "SYD", DepartureDate: "tomorrow"}, code: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SearchFlights(context.Background(), tt.req)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestServer_GetBookingInfo(t *testing.T) {
	s := newTestServer()

	info, err := s.GetBookingInfo(context.Background(), &GetBookingInfoRequest{FlightID: 43})
	require.NoError(t, err)
	assert.Equal(t, int64(43), info.FlightID)
	assert.NotEmpty(t, info.SeatingZones)
	assert.NotNil(t, info.BookedSeats)
	assert.Len(t, info.Pricing, 3)

	_, err = s.GetBookingInfo(context.Background(), &GetBookingInfoRequest{FlightID: 999})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
