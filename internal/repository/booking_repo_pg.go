package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Book(ctx context.Context, flightID int64, fn BookFunc) (*domain.FlightBooking, *domain.Flight, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	flight, err := loadFlight(ctx, tx, flightID, true)
	if err != nil {
		return nil, nil, err
	}

	booking, err := fn(flight)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id) VALUES ($1, $2) RETURNING id, created_at`,
		booking.UserID, flight.ID).Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return nil, nil, err
	}
	booking.CreatedAt = booking.CreatedAt.UTC()

	batch := &pgx.Batch{}
	for i, seat := range booking.Seats {
		batch.Queue(`INSERT INTO booked_seats (booking_id, flight_id, position, seat_code) VALUES ($1, $2, $3, $4)`,
			booking.ID, flight.ID, i, seat)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, nil, &domain.BookingError{Reason: domain.ErrSeatsAlreadyBooked, Seats: booking.Seats}
		}
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return booking, flight, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.FlightBooking, error) {
	bookings, err := queryBookings(ctx, r.db, `WHERE b.id=$1`, ``, id)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrNotFound
	}
	return bookings[0], nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.FlightBooking, error) {
	return queryBookings(ctx, r.db, `JOIN flights f ON f.id = b.flight_id WHERE b.user_id=$1`, `ORDER BY MIN(f.departure_time), b.id`, userID)
}

func (r *PGBookingRepository) Cancel(ctx context.Context, bookingID, userID int64) (*domain.FlightBooking, *domain.Flight, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var flightID int64
	if err := tx.QueryRow(ctx, `SELECT flight_id FROM bookings WHERE id=$1 AND user_id=$2`, bookingID, userID).Scan(&flightID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	flight, err := loadFlight(ctx, tx, flightID, true)
	if err != nil {
		return nil, nil, err
	}

	var target *domain.FlightBooking
	for _, b := range flight.Bookings() {
		if b.ID == bookingID {
			target = b
			break
		}
	}
	if target == nil {
		return nil, nil, ErrNotFound
	}
	if err := flight.RemoveBooking(target); err != nil {
		return nil, nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, bookingID); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return target, flight, nil
}

// queryBookings loads bookings with their seats in booking order. filter may
// join other tables and must reference the single argument as $1.
func queryBookings(ctx context.Context, q querier, filter, order string, arg int64) ([]*domain.FlightBooking, error) {
	rows, err := q.Query(ctx, `SELECT b.id, b.user_id, b.flight_id, b.created_at,
			array_agg(s.seat_code ORDER BY s.position)
		FROM bookings b
		JOIN booked_seats s ON s.booking_id = b.id
		`+filter+`
		GROUP BY b.id
		`+order, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*domain.FlightBooking, 0)
	for rows.Next() {
		var b domain.FlightBooking
		if err := rows.Scan(&b.ID, &b.UserID, &b.FlightID, &b.CreatedAt, &b.Seats); err != nil {
			return nil, err
		}
		b.CreatedAt = b.CreatedAt.UTC()
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
