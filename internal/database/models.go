package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/airline-reservation/internal/network"
)

// Flight represents a flight in the catalog table
type Flight struct {
	ID              uuid.UUID `json:"id"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	Cost            float64   `json:"cost"`
	DurationMinutes int       `json:"durationMinutes"`
	TotalSeats      int       `json:"totalSeats"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromRecord copies the immutable attributes of a network flight.
func FromRecord(f *network.FlightRecord) Flight {
	return Flight{
		ID:              f.ID,
		Origin:          f.Source,
		Destination:     f.Destination,
		Cost:            f.Cost,
		DurationMinutes: f.DurationMinutes,
		TotalSeats:      f.TotalSeats,
	}
}

// Record builds a network flight with every seat free. Seat state is never
// persisted.
func (f Flight) Record() (*network.FlightRecord, error) {
	return network.NewFlightRecord(f.ID, f.Origin, f.Destination, f.Cost, f.DurationMinutes, f.TotalSeats)
}
