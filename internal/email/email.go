package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"go.uber.org/zap"
)

var ErrUnknownEventType = errors.New("unknown booking event type")

type Sender struct {
	log     *zap.SugaredLogger
	metrics *metrics.Registry
}

func NewSender(log *zap.SugaredLogger, m *metrics.Registry) *Sender {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Sender{log: log, metrics: m}
}

// Send renders the notification for event and hands it to the log; there is
// no mail transport behind it.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, body, err := Render(event)
	if err != nil {
		return err
	}
	s.log.Infow("booking notification",
		"to", event.Username,
		"subject", subject,
		"body", body,
		"booking_id", event.BookingID,
	)
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(event.Type).Inc()
	}
	return nil
}

func Render(event kafka.BookingEvent) (subject, body string, err error) {
	seats := strings.Join(event.Seats, ", ")
	switch event.Type {
	case kafka.EventBookingCreated:
		subject = fmt.Sprintf("Booking %d confirmed: flight %s", event.BookingID, event.FlightName)
		body = fmt.Sprintf("Hi %s, your seats %s on flight %s are booked. Total cost: %d.",
			event.Username, seats, event.FlightName, event.TotalCost)
	case kafka.EventBookingCancelled:
		subject = fmt.Sprintf("Booking %d cancelled: flight %s", event.BookingID, event.FlightName)
		body = fmt.Sprintf("Hi %s, your booking for seats %s on flight %s has been cancelled.",
			event.Username, seats, event.FlightName)
	default:
		return "", "", fmt.Errorf("%w %q", ErrUnknownEventType, event.Type)
	}
	return subject, body, nil
}
