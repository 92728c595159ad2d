package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flightNames(flights []FlightDTO) []string {
	names := make([]string, 0, len(flights))
	for _, f := range flights {
		names = append(names, f.Name)
	}
	return names
}

func TestFlightHandler_search(t *testing.T) {
	s := newTestServer(t)

	testCases := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "full names", path: "/flights?origin=Auckland&destination=Sydney", expected: []string{"ZNJ-242", "WJF-883", "ZWZ-576", "YLJ-355"}},
		{name: "codes", path: "/flights?origin=AKL&destination=SYD", expected: []string{"ZNJ-242", "WJF-883", "ZWZ-576", "YLJ-355"}},
		{name: "mixed case names", path: "/flights?origin=AUCKLanD&destination=SyDney", expected: []string{"ZNJ-242", "WJF-883", "ZWZ-576", "YLJ-355"}},
		{name: "mixed case codes", path: "/flights?origin=aKL&destination=sYD", expected: []string{"ZNJ-242", "WJF-883", "ZWZ-576", "YLJ-355"}},
		{name: "partial origin", path: "/flights?origin=ng&destination=SYD", expected: []string{"AWJ-994", "SJY-964", "MTU-228", "ZPV-405", "VBR-241", "FPZ-912", "FHF-294", "YAJ-395"}},
		{name: "no results", path: "/flights?origin=foobar&destination=AKL", expected: []string{}},
		{name: "departure window", path: "/flights?origin=AKL&destination=SYD&departureDate=2022-08-21&dayRange=8", expected: []string{"WJF-883", "ZWZ-576"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tc.path, nil, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.expected, flightNames(decode[[]FlightDTO](t, w)))
		})
	}
}

func TestFlightHandler_search_dto(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/flights?origin=AKL&destination=SYD", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[[]FlightDTO](t, w)
	require.Len(t, got, 4)
	assert.Equal(t, FlightDTO{
		ID:            2,
		Name:          "WJF-883",
		DepartureTime: time.Date(2022, 8, 23, 19, 0, 0, 0, time.UTC),
		Origin:        AirportDTO{ID: 1, Name: "Auckland International Airport", Code: "AKL", Latitude: -37.008, Longitude: 174.792, TimeZone: "Pacific/Auckland"},
		ArrivalTime:   time.Date(2022, 8, 23, 22, 10, 0, 0, time.UTC),
		Destination:   AirportDTO{ID: 2, Name: "Sydney International Airport", Code: "SYD", Latitude: -33.946, Longitude: 151.177, TimeZone: "Australia/Sydney"},
		AircraftType:  "777-200ER",
	}, got[1])
	assert.Contains(t, w.Body.String(), `"departureTime":"2022-08-23T19:00:00Z"`)
}

func TestFlightHandler_search_badRequest(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/flights?destination=Sydney",
		"/flights?origin=Auckland",
		"/flights?origin=AKL&destination=SYD&departureDate=invalid",
		"/flights?origin=AKL&destination=SYD&departureDate=2022-08-21&dayRange=-1",
		"/flights?origin=AKL&destination=SYD&departureDate=2022-08-21&dayRange=many",
	} {
		t.Run(path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, path, nil, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestFlightHandler_get(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/flights/43", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "YJY-087", decode[FlightDTO](t, w).Name)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/flights/999", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/flights/abc", nil, nil).Code)
}

func TestFlightHandler_bookingInfo(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/flights/43/booking-info", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	info := decode[BookingInfoDTO](t, w)
	assert.Equal(t, "787-9 Dreamliner", info.AircraftType.Name)
	assert.Equal(t, 302, info.AircraftType.TotalNumSeats)
	assert.Len(t, info.AircraftType.SeatingZones, 7)
	assert.Empty(t, info.BookedSeats)
	assert.Equal(t, map[string]int{"ECONOMY": 350, "PREMIUM_ECONOMY": 800, "BUSINESS": 3400}, info.Pricing)
	assert.Contains(t, w.Body.String(), `"bookedSeats":[]`)
}

func TestFlightHandler_bookingInfo_notFound(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/flights/999/booking-info", nil, nil).Code)
}
