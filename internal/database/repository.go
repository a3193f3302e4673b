// Package database persists the flight catalog in PostgreSQL.
//
// Only flight definitions are stored. Seat counts and waitlists live in memory
// and start fresh on every boot.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("flight already exists")
)

const schema = `
	CREATE TABLE IF NOT EXISTS flights (
		id               UUID PRIMARY KEY,
		origin           TEXT NOT NULL,
		destination      TEXT NOT NULL,
		cost             DOUBLE PRECISION NOT NULL CHECK (cost > 0),
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		total_seats      INTEGER NOT NULL CHECK (total_seats >= 0),
		seq              BIGSERIAL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Repository handles all database operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Connect opens a pool and pings the server.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the flights table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// InsertFlight stores a flight definition
func (r *Repository) InsertFlight(ctx context.Context, f *Flight) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}

	query := `
		INSERT INTO flights (id, origin, destination, cost, duration_minutes, total_seats)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		f.ID, f.Origin, f.Destination, f.Cost, f.DurationMinutes, f.TotalSeats,
	).Scan(&f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert flight: %w", err)
	}

	return nil
}

// ListFlights returns every flight in insertion order, so a graph rebuilt from
// the catalog relaxes edges in the same order as the one it was saved from.
func (r *Repository) ListFlights(ctx context.Context) ([]Flight, error) {
	query := `
		SELECT id, origin, destination, cost, duration_minutes, total_seats, created_at
		FROM flights
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		var f Flight
		err := rows.Scan(
			&f.ID, &f.Origin, &f.Destination, &f.Cost,
			&f.DurationMinutes, &f.TotalSeats, &f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flights: %w", err)
	}

	return flights, nil
}

// GetFlightByID returns a flight by ID
func (r *Repository) GetFlightByID(ctx context.Context, id uuid.UUID) (*Flight, error) {
	query := `
		SELECT id, origin, destination, cost, duration_minutes, total_seats, created_at
		FROM flights
		WHERE id = $1
	`

	var f Flight
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Origin, &f.Destination, &f.Cost,
		&f.DurationMinutes, &f.TotalSeats, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	return &f, nil
}

// CountFlights returns the catalog size
func (r *Repository) CountFlights(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM flights`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count flights: %w", err)
	}
	return n, nil
}
