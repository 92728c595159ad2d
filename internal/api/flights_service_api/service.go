package flights_service_api

import (
	"context"

	_ "github.com/Domenick1991/flightbooking/internal/api/jsoncodec"
	"github.com/Domenick1991/flightbooking/internal/api/models"
	"google.golang.org/grpc"
)

const (
	ServiceName              = "flightbooking.v1.FlightsService"
	SearchFlightsFullMethod  = "/" + ServiceName + "/SearchFlights"
	GetBookingInfoFullMethod = "/" + ServiceName + "/GetBookingInfo"
)

type FlightsServiceServer interface {
	SearchFlights(ctx context.Context, req *SearchFlightsRequest) (*SearchFlightsResponse, error)
	GetBookingInfo(ctx context.Context, req *GetBookingInfoRequest) (*models.BookingInfo, error)
}

func RegisterFlightsServiceServer(s grpc.ServiceRegistrar, srv FlightsServiceServer) {
	s.RegisterService(&FlightsServiceDesc, srv)
}

// FlightsServiceDesc describes the service for grpc.Server. Messages are
// plain structs carried by the json codec.
var FlightsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FlightsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchFlights", Handler: searchFlightsHandler},
		{MethodName: "GetBookingInfo", Handler: getBookingInfoHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flights_service_api",
}

func searchFlightsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SearchFlightsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FlightsServiceServer).SearchFlights(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SearchFlightsFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FlightsServiceServer).SearchFlights(ctx, req.(*SearchFlightsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getBookingInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBookingInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FlightsServiceServer).GetBookingInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetBookingInfoFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FlightsServiceServer).GetBookingInfo(ctx, req.(*GetBookingInfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}
