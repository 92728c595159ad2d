package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	bookingsapi "github.com/Domenick1991/flightbooking/internal/api/bookings_service_api"
	flightsapi "github.com/Domenick1991/flightbooking/internal/api/flights_service_api"
	"github.com/Domenick1991/flightbooking/internal/api/gateway"
	"github.com/Domenick1991/flightbooking/internal/api/interceptors"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	swaggerSpecURL  = "/swagger/flightbooking.swagger.json"
	shutdownTimeout = 5 * time.Second
)

// Deps are the already constructed services the servers expose.
type Deps struct {
	// Router serves the session based REST API at the root of the HTTP server.
	Router   http.Handler
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Users    bookingsapi.Authenticator

	Gatherer prometheus.Gatherer
	Metrics  *metrics.Registry
	Log      *zap.SugaredLogger
}

type Servers struct {
	grpcServer  *grpc.Server
	httpServer  *http.Server
	gatewayConn *grpc.ClientConn
}

// Run starts the gRPC server and the HTTP server (REST API, gateway, swagger
// and metrics) and blocks until ctx is cancelled or a server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNop()
	}

	s, err := newServers(cfg, deps)
	if err != nil {
		return err
	}
	defer s.gatewayConn.Close()

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Infow("grpc server listening", "address", lis.Addr().String())
		if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		deps.Log.Infow("http server listening", "address", cfg.HTTP.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Log.Infow("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newServers(cfg *config.Config, deps Deps) (*Servers, error) {
	grpcSrv := grpc.NewServer(interceptors.Chain(deps.Log.Named("grpc"), deps.Metrics))
	flightsapi.RegisterFlightsServiceServer(grpcSrv, flightsapi.NewServer(deps.Flights))
	bookingsapi.RegisterBookingsServiceServer(grpcSrv, bookingsapi.NewServer(deps.Bookings, deps.Users))

	target, err := dialTarget(cfg.GRPC.Address)
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gateway client %s: %w", target, err)
	}
	gw, err := gateway.New(conn, deps.Log.Named("gateway"))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("register gateway: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           newHandler(cfg, deps, gw),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer:  grpcSrv,
		httpServer:  httpSrv,
		gatewayConn: conn,
	}, nil
}

func newHandler(cfg *config.Config, deps Deps, gw http.Handler) http.Handler {
	handler := http.NewServeMux()
	handler.Handle("/", deps.Router)
	handler.Handle("/v1/", gw)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	handler.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if cfg.HTTP.SwaggerDir != "" {
		fs := http.FileServer(http.Dir(cfg.HTTP.SwaggerDir))
		handler.Handle("/swagger/", http.StripPrefix("/swagger/", fs))
		handler.Handle("/docs/", httpSwagger.Handler(httpSwagger.URL(swaggerSpecURL)))
	}
	return handler
}

// dialTarget turns a listen address such as ":9090" into one the gateway
// client can dial.
func dialTarget(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("parse grpc address %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port), nil
}
