package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingHandler_create(t *testing.T) {
	s := newTestServer(t)
	cookie := s.loginAsAlice(t)

	w := s.do(t, http.MethodPost, "/bookings", BookingRequestDTO{FlightID: 43, Seats: []string{"1A", "59A", "3K"}}, cookie)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode[FlightBookingDTO](t, w)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "/bookings/"+itoa(got.ID), w.Header().Get("Location"))
	assert.Equal(t, []string{"1A", "3K", "59A"}, got.BookedSeats)
	assert.Equal(t, 7150, got.TotalCost)
	assert.Equal(t, "YJY-087", got.Flight.Name)
}

func TestBookingHandler_create_unauthenticated(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/bookings", BookingRequestDTO{FlightID: 43, Seats: []string{"1A"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/bookings", BookingRequestDTO{FlightID: 43, Seats: []string{"1A"}},
		&http.Cookie{Name: AuthCookieName, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_create_rejected(t *testing.T) {
	s := newTestServer(t)
	cookie := s.loginAsAlice(t)
	s.makeBooking(t, cookie, 43, "1A", "59A", "3K")

	testCases := []struct {
		name   string
		req    BookingRequestDTO
		status int
	}{
		{name: "invalid seat", req: BookingRequestDTO{FlightID: 43, Seats: []string{"999A"}}, status: http.StatusConflict},
		{name: "already booked", req: BookingRequestDTO{FlightID: 43, Seats: []string{"59A", "3K", "60B"}}, status: http.StatusConflict},
		{name: "duplicate seat", req: BookingRequestDTO{FlightID: 43, Seats: []string{"60A", "60a"}}, status: http.StatusConflict},
		{name: "no seats", req: BookingRequestDTO{FlightID: 43}, status: http.StatusConflict},
		{name: "unknown flight", req: BookingRequestDTO{FlightID: 999, Seats: []string{"1A"}}, status: http.StatusNotFound},
		{name: "missing flight id", req: BookingRequestDTO{Seats: []string{"1A"}}, status: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/bookings", tc.req, cookie)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}

	w := s.do(t, http.MethodGet, "/flights/43/booking-info", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"1A", "3K", "59A"}, decode[BookingInfoDTO](t, w).BookedSeats)
}

func TestBookingHandler_create_errorMessage(t *testing.T) {
	s := newTestServer(t)
	cookie := s.loginAsAlice(t)

	w := s.do(t, http.MethodPost, "/bookings", BookingRequestDTO{FlightID: 43, Seats: []string{"500F", "FooBar"}}, cookie)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid seat(s): 500F, FooBar", decode[errorResponse](t, w).Error)
}

func TestBookingHandler_get(t *testing.T) {
	s := newTestServer(t)
	alice := s.loginAsAlice(t)
	location := s.makeBooking(t, alice, 43, "1A", "59A", "3K")

	w := s.do(t, http.MethodGet, location, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[FlightBookingDTO](t, w)
	assert.Equal(t, []string{"1A", "3K", "59A"}, got.BookedSeats)
	assert.Equal(t, 7150, got.TotalCost)
	assert.Equal(t, int64(43), got.Flight.ID)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, location, nil, nil).Code)

	bob := s.loginAsBob(t)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, location, nil, bob).Code)
}

func TestBookingHandler_get_notFound(t *testing.T) {
	s := newTestServer(t)
	cookie := s.loginAsAlice(t)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/bookings/1", nil, cookie).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/bookings/first", nil, cookie).Code)
}

func TestBookingHandler_list(t *testing.T) {
	s := newTestServer(t)
	alice := s.loginAsAlice(t)

	w := s.do(t, http.MethodGet, "/bookings", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	s.makeBooking(t, alice, 43, "1A", "59A", "3K")
	s.makeBooking(t, alice, 37, "31J", "41K", "52E")

	w = s.do(t, http.MethodGet, "/bookings", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]FlightBookingDTO](t, w)
	require.Len(t, got, 2)

	assert.Equal(t, "DPX-900", got[0].Flight.Name)
	assert.Equal(t, []string{"31J", "41K", "52E"}, got[0].BookedSeats)
	assert.Equal(t, 1074, got[0].TotalCost)
	assert.Equal(t, "YJY-087", got[1].Flight.Name)
	assert.Equal(t, 7150, got[1].TotalCost)

	bob := s.loginAsBob(t)
	w = s.do(t, http.MethodGet, "/bookings", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]FlightBookingDTO](t, w))

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/bookings", nil, nil).Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	s := newTestServer(t)
	alice := s.loginAsAlice(t)
	location := s.makeBooking(t, alice, 43, "1A", "59A", "3K")

	bob := s.loginAsBob(t)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, location, nil, bob).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodDelete, location, nil, nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, location, nil, alice).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, location, nil, alice).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, location, nil, alice).Code)

	w := s.do(t, http.MethodGet, "/flights/43/booking-info", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[BookingInfoDTO](t, w).BookedSeats)

	s.makeBooking(t, bob, 43, "1A")
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) MakeBooking(ctx context.Context, user *domain.User, flightID int64, seats []string) (*domain.FlightBooking, *domain.Flight, error) {
	args := m.Called(ctx, user, flightID, seats)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.FlightBooking), args.Get(1).(*domain.Flight), args.Error(2)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, user *domain.User, id int64) (*booking.Details, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Details), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, user *domain.User) ([]booking.Details, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Details), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, user *domain.User, id int64) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

func newMockContext(method, path string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, stringsReader(body))
	c.Request.Header.Set("Content-Type", jsonMimeType)
	c.Set(userContextKey, &domain.User{ID: 1, Username: "Alice"})
	return c, w
}

func TestBookingHandler_create_flightBusy(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newMockContext(http.MethodPost, "/bookings", `{"flightId":43,"seats":["1A"]}`)
	mockService.On("MakeBooking", mock.Anything, mock.Anything, int64(43), []string{"1A"}).
		Return(nil, nil, booking.ErrFlightBusy).Once()

	handler.create(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	mockService.AssertExpectations(t)
}

func TestBookingHandler_internalErrors(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)
	dbErr := errors.New("database error")

	mockService.On("MakeBooking", mock.Anything, mock.Anything, int64(43), []string{"1A"}).Return(nil, nil, dbErr).Once()
	mockService.On("ListBookings", mock.Anything, mock.Anything).Return(nil, dbErr).Once()
	mockService.On("CancelBooking", mock.Anything, mock.Anything, int64(5)).Return(dbErr).Once()

	c, w := newMockContext(http.MethodPost, "/bookings", `{"flightId":43,"seats":["1A"]}`)
	handler.create(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, c.Errors, 1)

	c, w = newMockContext(http.MethodGet, "/bookings", "")
	handler.list(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	c, w = newMockContext(http.MethodDelete, "/bookings/5", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.cancel(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	mockService.AssertExpectations(t)
}
