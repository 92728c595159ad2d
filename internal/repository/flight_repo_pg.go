package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.id, f.name, f.departure_time, f.arrival_time,
	o.id, o.name, o.code, o.latitude, o.longitude, o.time_zone,
	d.id, d.name, d.code, d.latitude, d.longitude, d.time_zone,
	t.id, t.name`

const flightJoins = `FROM flights f
	JOIN airports o ON o.id = f.origin_id
	JOIN airports d ON d.id = f.destination_id
	JOIN aircraft_types t ON t.id = f.aircraft_type_id`

func (r *PGFlightRepository) Search(ctx context.Context, origin, destination string) ([]*domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` `+flightJoins+`
		WHERE (o.name ILIKE $1 OR o.code ILIKE $1) AND (d.name ILIKE $2 OR d.code ILIKE $2)
		ORDER BY f.departure_time, f.id`, likePattern(origin), likePattern(destination))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]*domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(flights) == 0 {
		return flights, nil
	}
	ids := make([]int64, len(flights))
	for i, f := range flights {
		ids[i] = f.ID
	}
	pricings, err := loadPricingsFor(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, f := range flights {
		f.SeatPricings = pricings[f.ID]
	}
	return flights, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return loadFlight(ctx, r.db, id, false)
}

func (r *PGFlightRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, code, latitude, longitude, time_zone FROM airports ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.Latitude, &a.Longitude, &a.TimeZone); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

// loadFlight reads the full aggregate. With forUpdate the flight row stays
// locked until the surrounding transaction ends.
func loadFlight(ctx context.Context, q querier, id int64, forUpdate bool) (*domain.Flight, error) {
	sql := `SELECT ` + flightColumns + ` ` + flightJoins + ` WHERE f.id=$1`
	if forUpdate {
		sql += ` FOR UPDATE OF f`
	}
	f, err := scanFlight(q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if f.AircraftType.SeatingZones, err = loadZones(ctx, q, f.AircraftType.ID); err != nil {
		return nil, err
	}
	if f.SeatPricings, err = loadPricings(ctx, q, f.ID); err != nil {
		return nil, err
	}

	bookings, err := queryBookings(ctx, q, `WHERE b.flight_id=$1`, `ORDER BY b.id`, f.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		f.AddBooking(b)
	}
	return f, nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Name, &f.DepartureTime, &f.ArrivalTime,
		&f.Origin.ID, &f.Origin.Name, &f.Origin.Code, &f.Origin.Latitude, &f.Origin.Longitude, &f.Origin.TimeZone,
		&f.Destination.ID, &f.Destination.Name, &f.Destination.Code, &f.Destination.Latitude, &f.Destination.Longitude, &f.Destination.TimeZone,
		&f.AircraftType.ID, &f.AircraftType.Name); err != nil {
		return nil, err
	}
	f.DepartureTime = f.DepartureTime.UTC()
	f.ArrivalTime = f.ArrivalTime.UTC()
	return &f, nil
}

func loadZones(ctx context.Context, q querier, aircraftTypeID int64) ([]domain.SeatingZone, error) {
	rows, err := q.Query(ctx, `SELECT cabin_class, start_row, end_row, seat_columns FROM seating_zones WHERE aircraft_type_id=$1 ORDER BY position`, aircraftTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []domain.SeatingZone
	for rows.Next() {
		var z domain.SeatingZone
		var class string
		if err := rows.Scan(&class, &z.StartRow, &z.EndRow, &z.Columns); err != nil {
			return nil, err
		}
		z.CabinClass = domain.CabinClass(class)
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func loadPricings(ctx context.Context, q querier, flightID int64) ([]domain.SeatPricing, error) {
	pricings, err := loadPricingsFor(ctx, q, []int64{flightID})
	if err != nil {
		return nil, err
	}
	return pricings[flightID], nil
}

// loadPricingsFor reads the prices of several flights in one round trip.
func loadPricingsFor(ctx context.Context, q querier, flightIDs []int64) (map[int64][]domain.SeatPricing, error) {
	rows, err := q.Query(ctx, `SELECT flight_id, cabin_class, price FROM seat_pricings
		WHERE flight_id = ANY($1) ORDER BY flight_id, cabin_class`, flightIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pricings := make(map[int64][]domain.SeatPricing, len(flightIDs))
	for rows.Next() {
		var flightID int64
		var p domain.SeatPricing
		var class string
		if err := rows.Scan(&flightID, &class, &p.Price); err != nil {
			return nil, err
		}
		p.CabinClass = domain.CabinClass(class)
		pricings[flightID] = append(pricings[flightID], p)
	}
	return pricings, rows.Err()
}

// likePattern turns a user query into a substring ILIKE pattern with the
// wildcard characters escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

var _ FlightRepository = (*PGFlightRepository)(nil)
