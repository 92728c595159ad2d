package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	twoWeeks     = 14 * 24 * time.Hour
	jsonMimeType = "application/json"
)

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore(repository.DefaultFixture())
	tokens := auth.NewTokenIssuer(testSecret, twoWeeks)

	router := NewRouter(RouterDeps{
		Flights:      flights.NewFlightService(store.Flights(), nil),
		Bookings:     booking.NewBookingService(store.Bookings(), store.Flights(), nil, nil, "", time.Minute),
		Users:        users.NewUserService(store.Users(), tokens, nil),
		Resetter:     store,
		CookieMaxAge: twoWeeks,
	})
	return &testServer{router: router, store: store}
}

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", jsonMimeType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := s.do(t, http.MethodPost, "/users/login", UserDTO{Username: username, Password: password}, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == AuthCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in login response", AuthCookieName)
	return nil
}

func (s *testServer) loginAsAlice(t *testing.T) *http.Cookie {
	return s.login(t, "Alice", "pa55word")
}

func (s *testServer) loginAsBob(t *testing.T) *http.Cookie {
	return s.login(t, "Bob", "12345")
}

// makeBooking books seats and returns the Location of the new booking.
func (s *testServer) makeBooking(t *testing.T, cookie *http.Cookie, flightID int64, seats ...string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/bookings", BookingRequestDTO{FlightID: flightID, Seats: seats}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.NotEmpty(t, location)
	return location
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
