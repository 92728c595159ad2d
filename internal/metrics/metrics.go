package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flightbooking"

// Registry holds every collector the service exports.
type Registry struct {
	Gatherer prometheus.Gatherer

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	GRPCRequestsTotal *prometheus.CounterVec

	BookingsCreated    prometheus.Counter
	BookingsRejected   *prometheus.CounterVec
	BookingsCancelled  prometheus.Counter
	SeatsBooked        prometheus.Counter
	FlightLockWait     prometheus.Histogram
	FlightLockTimeouts prometheus.Counter

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	NotificationsSent *prometheus.CounterVec
}

// NewRegistry registers all collectors on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registerer.
func NewRegistry(reg *prometheus.Registry) *Registry {
	f := promauto.With(reg)
	return &Registry{
		Gatherer: reg,

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by route, method, and status code",
		}, []string{"route", "method", "status_code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),

		GRPCRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total gRPC requests by method and status code",
		}, []string{"method", "code"}),

		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings committed",
		}),
		BookingsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Booking requests rejected by the flight, by reason",
		}, []string{"reason"}),
		BookingsCancelled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled",
		}),
		SeatsBooked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seats_booked_total",
			Help:      "Seats committed across all bookings",
		}),
		FlightLockWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_lock_wait_seconds",
			Help:      "Time spent waiting for a per-flight booking lock",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		FlightLockTimeouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_lock_timeouts_total",
			Help:      "Booking attempts that gave up waiting for a flight lock",
		}),

		CacheHitsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits by key pattern",
		}, []string{"cache_key_pattern"}),
		CacheMissesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses by key pattern",
		}, []string{"cache_key_pattern"}),

		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Booking notifications rendered by event type",
		}, []string{"event_type"}),
	}
}

// NewNop returns a registry backed by a private prometheus registry, for
// callers that do not export metrics.
func NewNop() *Registry {
	return NewRegistry(prometheus.NewRegistry())
}
