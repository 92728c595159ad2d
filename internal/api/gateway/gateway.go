// Package gateway exposes the gRPC services as JSON over HTTP under /v1/.
// Each route decodes the request, forwards it to the gRPC server through a
// client connection and translates the status back into an HTTP code.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/api"
	bookingsapi "github.com/Domenick1991/flightbooking/internal/api/bookings_service_api"
	flightsapi "github.com/Domenick1991/flightbooking/internal/api/flights_service_api"
	"github.com/Domenick1991/flightbooking/internal/api/jsoncodec"
	"github.com/Domenick1991/flightbooking/internal/api/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
)

type gateway struct {
	conn grpc.ClientConnInterface
	log  *zap.SugaredLogger
}

type errorBody struct {
	Error string `json:"error"`
}

func New(conn grpc.ClientConnInterface, log *zap.SugaredLogger) (*runtime.ServeMux, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	g := &gateway{conn: conn, log: log}

	mux := runtime.NewServeMux()
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodGet, "/v1/health", g.health},
		{http.MethodGet, "/v1/flights", g.searchFlights},
		{http.MethodGet, "/v1/flights/{id}/booking-info", g.bookingInfo},
		{http.MethodPost, "/v1/bookings", g.makeBooking},
		{http.MethodGet, "/v1/bookings", g.listBookings},
		{http.MethodGet, "/v1/bookings/{id}", g.getBooking},
		{http.MethodDelete, "/v1/bookings/{id}", g.cancelBooking},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", r.method, r.pattern, err)
		}
	}
	return mux, nil
}

func (g *gateway) health(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	data, err := protojson.Marshal(&emptypb.Empty{})
	if err != nil {
		g.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (g *gateway) searchFlights(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	q := r.URL.Query()
	req := &flightsapi.SearchFlightsRequest{
		Origin:        q.Get("origin"),
		Destination:   q.Get("destination"),
		DepartureDate: q.Get("departureDate"),
	}
	if raw := q.Get("dayRange"); raw != "" {
		dayRange, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			g.writeError(w, status.Error(codes.InvalidArgument, "dayRange must be an integer"))
			return
		}
		req.DayRange = int32(dayRange)
	}

	var resp flightsapi.SearchFlightsResponse
	if err := g.invoke(r, flightsapi.SearchFlightsFullMethod, req, &resp); err != nil {
		g.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Flights)
}

func (g *gateway) bookingInfo(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathID(params)
	if err != nil {
		g.writeError(w, err)
		return
	}
	var resp models.BookingInfo
	if err := g.invoke(r, flightsapi.GetBookingInfoFullMethod, &flightsapi.GetBookingInfoRequest{FlightID: id}, &resp); err != nil {
		g.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &resp)
}

func (g *gateway) makeBooking(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req bookingsapi.MakeBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.writeError(w, status.Error(codes.InvalidArgument, "malformed request body"))
		return
	}
	var resp models.Booking
	if err := g.invoke(r, bookingsapi.MakeBookingFullMethod, &req, &resp); err != nil {
		g.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/bookings/"+strconv.FormatInt(resp.ID, 10))
	writeJSON(w, http.StatusCreated, &resp)
}

func (g *gateway) listBookings(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var resp bookingsapi.ListBookingsResponse
	if err := g.invoke(r, bookingsapi.ListBookingsFullMethod, &emptypb.Empty{}, &resp); err != nil {
		g.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Bookings)
}

func (g *gateway) getBooking(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathID(params)
	if err != nil {
		g.writeError(w, err)
		return
	}
	var resp models.Booking
	if err := g.invoke(r, bookingsapi.GetBookingFullMethod, &bookingsapi.BookingIDRequest{ID: id}, &resp); err != nil {
		g.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &resp)
}

func (g *gateway) cancelBooking(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := pathID(params)
	if err != nil {
		g.writeError(w, err)
		return
	}
	if err := g.invoke(r, bookingsapi.CancelBookingFullMethod, &bookingsapi.BookingIDRequest{ID: id}, &emptypb.Empty{}); err != nil {
		g.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// invoke calls the gRPC method with the caller's session token attached as
// bearer metadata.
func (g *gateway) invoke(r *http.Request, method string, in, out interface{}) error {
	ctx := r.Context()
	if token := api.SessionToken(r); token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	return g.conn.Invoke(ctx, method, in, out, grpc.CallContentSubtype(jsoncodec.Name))
}

func (g *gateway) writeError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	code := runtime.HTTPStatusFromCode(st.Code())
	if code >= http.StatusInternalServerError {
		g.log.Errorw("gateway request failed", "code", st.Code().String(), "error", st.Message())
	}
	if st.Code() == codes.Unavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, code, errorBody{Error: st.Message()})
}

func pathID(params map[string]string) (int64, error) {
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil {
		return 0, status.Error(codes.InvalidArgument, "invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
