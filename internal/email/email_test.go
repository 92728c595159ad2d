package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	event := kafka.BookingEvent{
		BookingID:  7,
		FlightName: "YJY-087",
		Username:   "Alice",
		Seats:      []string{"1A", "3K", "59A"},
		TotalCost:  7150,
	}

	event.Type = kafka.EventBookingCreated
	subject, body, err := Render(event)
	require.NoError(t, err)
	assert.Equal(t, "Booking 7 confirmed: flight YJY-087", subject)
	assert.Equal(t, "Hi Alice, your seats 1A, 3K, 59A on flight YJY-087 are booked. Total cost: 7150.", body)

	event.Type = kafka.EventBookingCancelled
	subject, _, err = Render(event)
	require.NoError(t, err)
	assert.Equal(t, "Booking 7 cancelled: flight YJY-087", subject)

	event.Type = "booking_expired"
	_, _, err = Render(event)
	assert.ErrorIs(t, err, ErrUnknownEventType)
}

func TestSender_Send(t *testing.T) {
	m := metrics.NewNop()
	s := NewSender(nil, m)

	err := s.Send(context.Background(), kafka.BookingEvent{Type: kafka.EventBookingCreated, BookingID: 1})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsSent.WithLabelValues(kafka.EventBookingCreated)))

	assert.ErrorIs(t, s.Send(context.Background(), kafka.BookingEvent{Type: "unknown"}), ErrUnknownEventType)
}
