package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"go.uber.org/zap"
)

// ErrFlightBusy means the per-flight lock could not be taken within the
// configured wait. The request can be retried.
var ErrFlightBusy = errors.New("flight is busy, try again")

type BookingUseCase interface {
	MakeBooking(ctx context.Context, user *domain.User, flightID int64, seats []string) (*domain.FlightBooking, *domain.Flight, error)
	GetBooking(ctx context.Context, user *domain.User, id int64) (*Details, error)
	ListBookings(ctx context.Context, user *domain.User) ([]Details, error)
	CancelBooking(ctx context.Context, user *domain.User, id int64) error
}

// FlightLocker serialises booking writes per flight across processes.
type FlightLocker interface {
	AcquireFlightLock(ctx context.Context, flightID int64, ttl time.Duration) (string, bool, error)
	ReleaseFlightLock(ctx context.Context, flightID int64, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// RetryingProducer is a Producer that can retry a failed publish. When the
// configured producer implements it, notifications are sent through
// PublishWithRetry.
type RetryingProducer interface {
	Producer
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

const notificationAttempts = 3

// Details pairs a booking with the flight it was made on.
type Details struct {
	Booking *domain.FlightBooking
	Flight  *domain.Flight
}

func (d Details) TotalCost() int {
	return d.Booking.Price(d.Flight)
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	locker             FlightLocker
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	lockTTL            time.Duration
	lockWait           time.Duration
	pollInterval       time.Duration
	log                *zap.SugaredLogger
	metrics            *metrics.Registry
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(log *zap.SugaredLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func WithMetrics(m *metrics.Registry) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

// WithLockWait bounds how long MakeBooking and CancelBooking wait for a busy
// flight before giving up with ErrFlightBusy.
func WithLockWait(wait, pollInterval time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.lockWait = wait
		if pollInterval > 0 {
			s.pollInterval = pollInterval
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	locker FlightLocker,
	producer Producer,
	bookingTopic string,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		locker:       locker,
		producer:     producer,
		bookingTopic: bookingTopic,
		lockTTL:      lockTTL,
		lockWait:     2 * time.Second,
		pollInterval: 25 * time.Millisecond,
		log:          zap.NewNop().Sugar(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.metrics == nil {
		service.metrics = metrics.NewNop()
	}
	return service
}

func (s *BookingService) MakeBooking(ctx context.Context, user *domain.User, flightID int64, seats []string) (*domain.FlightBooking, *domain.Flight, error) {
	if user == nil {
		return nil, nil, domain.ErrNilUser
	}

	release, err := s.lockFlight(ctx, flightID)
	if err != nil {
		return nil, nil, err
	}

	// The flight appends to the owner's bookings; hand it a scratch copy so a
	// failed commit leaves the caller's user untouched.
	owner := &domain.User{ID: user.ID, Username: user.Username}
	booking, flight, err := s.bookings.Book(ctx, flightID, func(f *domain.Flight) (*domain.FlightBooking, error) {
		return f.MakeBooking(owner, seats...)
	})
	// Events are published after the lock is gone; a slow broker must not
	// hold up other bookings on the flight.
	release()
	if err != nil {
		var be *domain.BookingError
		if errors.As(err, &be) {
			s.metrics.BookingsRejected.WithLabelValues(rejectReason(be)).Inc()
			s.log.Infow("booking rejected", "flight_id", flightID, "user_id", user.ID, "reason", be.Error())
		}
		return nil, nil, err
	}
	user.Bookings = append(user.Bookings, booking)

	s.metrics.BookingsCreated.Inc()
	s.metrics.SeatsBooked.Add(float64(len(booking.Seats)))
	s.log.Infow("booking created", "booking_id", booking.ID, "flight_id", flightID, "user_id", user.ID, "seats", booking.Seats)

	if err := s.publish(ctx, kafka.EventBookingCreated, user, booking, flight); err != nil {
		s.log.Warnw("failed to publish booking event", "event", kafka.EventBookingCreated, "booking_id", booking.ID, "error", err)
	}
	return booking, flight, nil
}

func (s *BookingService) GetBooking(ctx context.Context, user *domain.User, id int64) (*Details, error) {
	booking, err := s.ownedBooking(ctx, user, id)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}
	return &Details{Booking: booking, Flight: flight}, nil
}

func (s *BookingService) ListBookings(ctx context.Context, user *domain.User) ([]Details, error) {
	if user == nil {
		return nil, domain.ErrNilUser
	}
	bookings, err := s.bookings.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	flights := make(map[int64]*domain.Flight)
	result := make([]Details, 0, len(bookings))
	for _, b := range bookings {
		f, ok := flights[b.FlightID]
		if !ok {
			if f, err = s.flights.GetByID(ctx, b.FlightID); err != nil {
				return nil, err
			}
			flights[b.FlightID] = f
		}
		result = append(result, Details{Booking: b, Flight: f})
	}
	return result, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, user *domain.User, id int64) error {
	current, err := s.ownedBooking(ctx, user, id)
	if err != nil {
		return err
	}

	release, err := s.lockFlight(ctx, current.FlightID)
	if err != nil {
		return err
	}
	cancelled, flight, err := s.bookings.Cancel(ctx, id, user.ID)
	release()
	if err != nil {
		return err
	}
	for i, b := range user.Bookings {
		if b.ID == id {
			user.Bookings = append(user.Bookings[:i:i], user.Bookings[i+1:]...)
			break
		}
	}

	s.metrics.BookingsCancelled.Inc()
	s.log.Infow("booking cancelled", "booking_id", id, "flight_id", flight.ID, "user_id", user.ID)

	if err := s.publish(ctx, kafka.EventBookingCancelled, user, cancelled, flight); err != nil {
		s.log.Warnw("failed to publish booking event", "event", kafka.EventBookingCancelled, "booking_id", id, "error", err)
	}
	return nil
}

func (s *BookingService) ownedBooking(ctx context.Context, user *domain.User, id int64) (*domain.FlightBooking, error) {
	if user == nil {
		return nil, domain.ErrNilUser
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != user.ID {
		return nil, repository.ErrNotFound
	}
	return booking, nil
}

// lockFlight takes the distributed per-flight lock, polling until lockWait
// runs out. If the lock backend itself fails the booking proceeds under the
// store's own row lock.
func (s *BookingService) lockFlight(ctx context.Context, flightID int64) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	start := time.Now()
	deadline := start.Add(s.lockWait)
	for {
		token, ok, err := s.locker.AcquireFlightLock(ctx, flightID, s.lockTTL)
		if err != nil {
			s.log.Warnw("flight lock unavailable, relying on store lock", "flight_id", flightID, "error", err)
			return noop, nil
		}
		if ok {
			s.metrics.FlightLockWait.Observe(time.Since(start).Seconds())
			return func() {
				if err := s.locker.ReleaseFlightLock(context.WithoutCancel(ctx), flightID, token); err != nil {
					s.log.Warnw("failed to release flight lock", "flight_id", flightID, "error", err)
				}
			}, nil
		}
		if !time.Now().Before(deadline) {
			s.metrics.FlightLockTimeouts.Inc()
			return nil, ErrFlightBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, user *domain.User, booking *domain.FlightBooking, flight *domain.Flight) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		FlightID:   flight.ID,
		FlightName: flight.Name,
		UserID:     user.ID,
		Username:   user.Username,
		Seats:      booking.SortedSeats(),
		TotalCost:  booking.Price(flight),
		OccurredAt: s.now().UTC(),
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic == "" {
		return nil
	}
	if rp, ok := s.producer.(RetryingProducer); ok {
		return rp.PublishWithRetry(ctx, s.notificationsTopic, key, event, notificationAttempts)
	}
	return s.producer.Publish(ctx, s.notificationsTopic, key, event)
}

func rejectReason(err *domain.BookingError) string {
	switch {
	case errors.Is(err, domain.ErrNoSeats):
		return "no_seats"
	case errors.Is(err, domain.ErrInvalidSeats):
		return "invalid_seats"
	case errors.Is(err, domain.ErrSeatsAlreadyBooked):
		return "seats_already_booked"
	default:
		return "other"
	}
}

var _ BookingUseCase = (*BookingService)(nil)
