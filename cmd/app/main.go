package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logging"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const lockPollInterval = 25 * time.Millisecond

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logging.Init(cfg.App.Env); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()
	logger := logging.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewRegistry(promRegistry)

	var (
		flightRepo  repository.FlightRepository
		bookingRepo repository.BookingRepository
		userRepo    repository.UserRepository
		resetter    api.Resetter
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := repository.NewMemoryStore(repository.DefaultFixture())
		flightRepo, bookingRepo, userRepo = store.Flights(), store.Bookings(), store.Users()
		if cfg.App.Env != "production" {
			resetter = store
		}
		logger.Infow("using in-memory store")
	default:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Fatalw("connect postgres", "error", err)
		}
		defer pool.Close()

		if cfg.Database.Migrate {
			if err := repository.Migrate(ctx, pool); err != nil {
				logger.Fatalw("migrate database", "error", err)
			}
		}
		if cfg.Database.Seed {
			if err := repository.Seed(ctx, pool, repository.DefaultFixture()); err != nil {
				logger.Fatalw("seed database", "error", err)
			}
		}
		flightRepo = repository.NewFlightRepository(pool)
		bookingRepo = repository.NewBookingRepository(pool)
		userRepo = repository.NewUserRepository(pool)
	}

	var (
		flightCache flights.FlightCache
		locker      booking.FlightLocker
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTL())
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warnw("redis unavailable, falling back to local cache", "addr", cfg.Redis.Addr, "error", err)
			_ = redisCache.Close()
		} else {
			defer redisCache.Close()
			flightCache, locker = redisCache, redisCache
		}
	}
	if flightCache == nil {
		localCache := cache.NewLocalCache(cfg.Booking.FlightsCacheTTL(), time.Minute)
		flightCache, locker = localCache, localCache
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers, logging.Named("kafka"))
		defer p.Close()
		producer = p
	}

	flightService := flights.NewFlightService(flightRepo, flightCache,
		flights.WithLogger(logging.Named("flights")),
		flights.WithMetrics(m),
	)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		locker,
		producer,
		cfg.Kafka.BookingEventsTopic,
		cfg.Booking.FlightLockTTL(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(logging.Named("booking")),
		booking.WithMetrics(m),
		booking.WithLockWait(cfg.Booking.LockWait(), lockPollInterval),
	)
	userService := users.NewUserService(userRepo, auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()), logging.Named("users"))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterDeps{
		Flights:      flightService,
		Bookings:     bookingService,
		Users:        userService,
		Resetter:     resetter,
		RateLimit:    cfg.HTTP.RateLimit,
		CookieMaxAge: cfg.Auth.TokenTTL(),
		SecureCookie: cfg.App.Env == "production",
		Log:          logging.Named("http"),
		Metrics:      m,
	})

	err = bootstrap.Run(ctx, cfg, bootstrap.Deps{
		Router:   router,
		Flights:  flightService,
		Bookings: bookingService,
		Users:    userService,
		Gatherer: promRegistry,
		Metrics:  m,
		Log:      logger,
	})
	if err != nil {
		logger.Fatalw("server error", "error", err)
	}
	logger.Infow("server stopped")
}
