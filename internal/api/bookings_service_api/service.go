package bookings_service_api

import (
	"context"

	_ "github.com/Domenick1991/flightbooking/internal/api/jsoncodec"
	"github.com/Domenick1991/flightbooking/internal/api/models"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	ServiceName             = "flightbooking.v1.BookingsService"
	MakeBookingFullMethod   = "/" + ServiceName + "/MakeBooking"
	GetBookingFullMethod    = "/" + ServiceName + "/GetBooking"
	ListBookingsFullMethod  = "/" + ServiceName + "/ListBookings"
	CancelBookingFullMethod = "/" + ServiceName + "/CancelBooking"
)

type BookingsServiceServer interface {
	MakeBooking(ctx context.Context, req *MakeBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, req *BookingIDRequest) (*models.Booking, error)
	ListBookings(ctx context.Context, req *emptypb.Empty) (*ListBookingsResponse, error)
	CancelBooking(ctx context.Context, req *BookingIDRequest) (*emptypb.Empty, error)
}

func RegisterBookingsServiceServer(s grpc.ServiceRegistrar, srv BookingsServiceServer) {
	s.RegisterService(&BookingsServiceDesc, srv)
}

var BookingsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "MakeBooking", Handler: unaryHandler(MakeBookingFullMethod, BookingsServiceServer.MakeBooking)},
		{MethodName: "GetBooking", Handler: unaryHandler(GetBookingFullMethod, BookingsServiceServer.GetBooking)},
		{MethodName: "ListBookings", Handler: unaryHandler(ListBookingsFullMethod, BookingsServiceServer.ListBookings)},
		{MethodName: "CancelBooking", Handler: unaryHandler(CancelBookingFullMethod, BookingsServiceServer.CancelBooking)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookings_service_api",
}

// unaryHandler adapts a BookingsServiceServer method expression to a
// grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(BookingsServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(BookingsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
