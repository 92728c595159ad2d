package repository

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded migration that has not been recorded in
// schema_migrations, each in its own transaction.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := migrationNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := applyMigration(ctx, db, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

func migrationNames() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func applyMigration(ctx context.Context, db *pgxpool.Pool, name string) error {
	body, err := migrationsFS.ReadFile(name)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var applied bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version=$1)`, name).Scan(&applied); err != nil {
		return err
	}
	if applied {
		return nil
	}
	if _, err := tx.Exec(ctx, string(body)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Seed inserts the fixture. Rows that already exist are left alone, so it is
// safe to run on every start.
func Seed(ctx context.Context, db *pgxpool.Pool, fixture *Fixture) error {
	batch := seedBatch(fixture)
	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("seed statement %d: %w", i, err)
		}
	}
	return results.Close()
}

func seedBatch(fixture *Fixture) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, a := range fixture.Airports {
		batch.Queue(`INSERT INTO airports (id, name, code, latitude, longitude, time_zone)
			VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
			a.ID, a.Name, a.Code, a.Latitude, a.Longitude, a.TimeZone)
	}
	for _, t := range fixture.AircraftTypes {
		batch.Queue(`INSERT INTO aircraft_types (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, t.ID, t.Name)
		for i, z := range t.SeatingZones {
			batch.Queue(`INSERT INTO seating_zones (aircraft_type_id, position, cabin_class, start_row, end_row, seat_columns)
				VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
				t.ID, i, string(z.CabinClass), z.StartRow, z.EndRow, z.Columns)
		}
	}
	for _, f := range fixture.Flights {
		batch.Queue(`INSERT INTO flights (id, name, origin_id, destination_id, departure_time, arrival_time, aircraft_type_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING`,
			f.ID, f.Name, f.Origin.ID, f.Destination.ID, f.DepartureTime, f.ArrivalTime, f.AircraftType.ID)
		for _, p := range f.SeatPricings {
			batch.Queue(`INSERT INTO seat_pricings (flight_id, cabin_class, price) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				f.ID, string(p.CabinClass), p.Price)
		}
	}
	for _, u := range fixture.Users {
		batch.Queue(`INSERT INTO users (id, username, pass_hash) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			u.ID, u.Username, u.PassHash)
	}
	batch.Queue(`SELECT setval(pg_get_serial_sequence('flights', 'id'), (SELECT COALESCE(MAX(id), 1) FROM flights))`)
	batch.Queue(`SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT COALESCE(MAX(id), 1) FROM users))`)
	return batch
}
