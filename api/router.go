package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Resetter restores the dataset to its initial state.
type Resetter interface {
	Reset(ctx context.Context) error
}

type RouterDeps struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Users    users.UserUseCase

	// Resetter, when set, exposes DELETE /test/reset-db.
	Resetter Resetter

	RateLimit    config.RateLimitConfig
	CookieMaxAge time.Duration
	SecureCookie bool

	Log     *zap.SugaredLogger
	Metrics *metrics.Registry
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), Metrics(m), RateLimit(deps.RateLimit.RequestsPerSecond, deps.RateLimit.Burst))

	requireUser := RequireUser(deps.Users)

	NewUserHandler(deps.Users, deps.CookieMaxAge, deps.SecureCookie).Register(router.Group("/users"), requireUser)
	NewFlightHandler(deps.Flights).Register(router.Group("/flights"))
	NewBookingHandler(deps.Bookings).Register(router.Group("/bookings", requireUser))

	if deps.Resetter != nil {
		router.DELETE("/test/reset-db", func(c *gin.Context) {
			if err := deps.Resetter.Reset(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
				return
			}
			log.Infow("dataset reset")
			c.Status(http.StatusNoContent)
		})
	}

	return router
}
