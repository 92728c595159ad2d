package bookings_service_api

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) MakeBooking(ctx context.Context, user *domain.User, flightID int64, seats []string) (*domain.FlightBooking, *domain.Flight, error) {
	args := m.Called(ctx, user, flightID, seats)
	b, _ := args.Get(0).(*domain.FlightBooking)
	f, _ := args.Get(1).(*domain.Flight)
	return b, f, args.Error(2)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, user *domain.User, id int64) (*booking.Details, error) {
	args := m.Called(ctx, user, id)
	d, _ := args.Get(0).(*booking.Details)
	return d, args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, user *domain.User) ([]booking.Details, error) {
	args := m.Called(ctx, user)
	d, _ := args.Get(0).([]booking.Details)
	return d, args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, user *domain.User, id int64) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

type stubAuthenticator map[string]*domain.User

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

var alice = &domain.User{ID: 1, Username: "Alice"}

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
}

func fixtureFlight(t *testing.T, id int64) *domain.Flight {
	t.Helper()
	store := repository.NewMemoryStore(repository.DefaultFixture())
	f, err := store.Flights().GetByID(context.Background(), id)
	require.NoError(t, err)
	return f
}

func TestServer_MakeBooking(t *testing.T) {
	uc := new(MockBookingUseCase)
	s := NewServer(uc, stubAuthenticator{"tok": alice})
	ctx := withToken("tok")

	flight := fixtureFlight(t, 43)
	b := &domain.FlightBooking{ID: 7, UserID: 1, FlightID: 43, Seats: []string{"3K", "1A"}}
	uc.On("MakeBooking", ctx, alice, int64(43), []string{"1A", "3K"}).Return(b, flight, nil).Once()

	resp, err := s.MakeBooking(ctx, &MakeBookingRequest{FlightID: 43, Seats: []string{"1A", "3K"}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, []string{"1A", "3K"}, resp.BookedSeats)
	assert.Equal(t, int32(6800), resp.TotalCost)
	uc.AssertExpectations(t)
}

func TestServer_MakeBooking_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "seat taken", err: &domain.BookingError{Reason: domain.ErrSeatsAlreadyBooked, Seats: []string{"1A"}}, code: codes.AlreadyExists},
		{name: "invalid seat", err: &domain.BookingError{Reason: domain.ErrInvalidSeats, Seats: []string{"1A"}}, code: codes.InvalidArgument},
		{name: "unknown flight", err: repository.ErrNotFound, code: codes.NotFound},
		{name: "flight busy", err: booking.ErrFlightBusy, code: codes.Unavailable},
		{name: "store failure", err: errors.New("connection reset"), code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockBookingUseCase)
			s := NewServer(uc, stubAuthenticator{"tok": alice})
			ctx := withToken("tok")
			uc.On("MakeBooking", ctx, alice, int64(43), []string{"1A"}).Return(nil, nil, tt.err).Once()

			_, err := s.MakeBooking(ctx, &MakeBookingRequest{FlightID: 43, Seats: []string{"1A"}})
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestServer_MakeBooking_MissingFlight(t *testing.T) {
	uc := new(MockBookingUseCase)
	s := NewServer(uc, stubAuthenticator{"tok": alice})

	_, err := s.MakeBooking(withToken("tok"), &MakeBookingRequest{Seats: []string{"1A"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	uc.AssertNotCalled(t, "MakeBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServer_Unauthenticated(t *testing.T) {
	uc := new(MockBookingUseCase)
	s := NewServer(uc, stubAuthenticator{"tok": alice})

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "no metadata", ctx: context.Background()},
		{name: "unknown token", ctx: withToken("other")},
		{name: "not bearer", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic tok"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ListBookings(tt.ctx, &emptypb.Empty{})
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			_, err = s.CancelBooking(tt.ctx, &BookingIDRequest{ID: 1})
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}
	uc.AssertNotCalled(t, "ListBookings", mock.Anything, mock.Anything)
}

func TestServer_GetAndList(t *testing.T) {
	uc := new(MockBookingUseCase)
	s := NewServer(uc, stubAuthenticator{"tok": alice})
	ctx := withToken("tok")

	flight := fixtureFlight(t, 43)
	b := &domain.FlightBooking{ID: 7, UserID: 1, FlightID: 43, Seats: []string{"59A"}}
	uc.On("GetBooking", ctx, alice, int64(7)).Return(&booking.Details{Booking: b, Flight: flight}, nil).Once()
	uc.On("GetBooking", ctx, alice, int64(8)).Return(nil, repository.ErrNotFound).Once()
	uc.On("ListBookings", ctx, alice).Return([]booking.Details{{Booking: b, Flight: flight}}, nil).Once()

	got, err := s.GetBooking(ctx, &BookingIDRequest{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, int32(350), got.TotalCost)
	assert.Equal(t, "YJY-087", got.Flight.Name)

	_, err = s.GetBooking(ctx, &BookingIDRequest{ID: 8})
	assert.Equal(t, codes.NotFound, status.Code(err))

	list, err := s.ListBookings(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, int64(7), list.Bookings[0].ID)
	uc.AssertExpectations(t)
}

func TestServer_CancelBooking(t *testing.T) {
	uc := new(MockBookingUseCase)
	s := NewServer(uc, stubAuthenticator{"tok": alice})
	ctx := withToken("tok")

	uc.On("CancelBooking", ctx, alice, int64(7)).Return(nil).Once()
	uc.On("CancelBooking", ctx, alice, int64(8)).Return(repository.ErrNotFound).Once()

	_, err := s.CancelBooking(ctx, &BookingIDRequest{ID: 7})
	require.NoError(t, err)
	_, err = s.CancelBooking(ctx, &BookingIDRequest{ID: 8})
	assert.Equal(t, codes.NotFound, status.Code(err))
	uc.AssertExpectations(t)
}
