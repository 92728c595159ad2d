package bookings_service_api

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/api/models"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type MakeBookingRequest struct {
	FlightID int64    `json:"flightId"`
	Seats    []string `json:"seats"`
}

type BookingIDRequest struct {
	ID int64 `json:"id"`
}

type ListBookingsResponse struct {
	Bookings []models.Booking `json:"bookings"`
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Server implements BookingsServiceServer. Every call must carry a session
// token in the "authorization" metadata as "Bearer <token>".
type Server struct {
	bookings booking.BookingUseCase
	authn    Authenticator
}

func NewServer(bookings booking.BookingUseCase, authn Authenticator) *Server {
	return &Server{bookings: bookings, authn: authn}
}

func (s *Server) MakeBooking(ctx context.Context, req *MakeBookingRequest) (*models.Booking, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if req.FlightID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "flightId is required")
	}
	b, flight, err := s.bookings.MakeBooking(ctx, user, req.FlightID, req.Seats)
	if err != nil {
		return nil, models.Status(err)
	}
	out := models.ToBooking(b, flight)
	return &out, nil
}

func (s *Server) GetBooking(ctx context.Context, req *BookingIDRequest) (*models.Booking, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.bookings.GetBooking(ctx, user, req.ID)
	if err != nil {
		return nil, models.Status(err)
	}
	out := models.ToBooking(details.Booking, details.Flight)
	return &out, nil
}

func (s *Server) ListBookings(ctx context.Context, _ *emptypb.Empty) (*ListBookingsResponse, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.bookings.ListBookings(ctx, user)
	if err != nil {
		return nil, models.Status(err)
	}
	resp := &ListBookingsResponse{Bookings: make([]models.Booking, 0, len(details))}
	for _, d := range details {
		resp.Bookings = append(resp.Bookings, models.ToBooking(d.Booking, d.Flight))
	}
	return resp, nil
}

func (s *Server) CancelBooking(ctx context.Context, req *BookingIDRequest) (*emptypb.Empty, error) {
	user, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.CancelBooking(ctx, user, req.ID); err != nil {
		return nil, models.Status(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) user(ctx context.Context) (*domain.User, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	var token string
	for _, v := range md.Get("authorization") {
		if t, ok := strings.CutPrefix(v, "Bearer "); ok {
			token = strings.TrimSpace(t)
			break
		}
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}
	user, err := s.authn.Authenticate(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}
	return user, nil
}

var _ BookingsServiceServer = (*Server)(nil)
