package service

import (
	"fmt"

	"github.com/cx-tal-miterani/airline-reservation/internal/network"
)

type sampleFlight struct {
	origin, destination string
	cost                float64
	durationMinutes     int
	totalSeats          int
}

var sampleFlights = []sampleFlight{
	{"New York", "Paris", 450, 450, 180},
	{"New York", "London", 500, 420, 200},
	{"Paris", "London", 100, 75, 150},
	{"Paris", "Tokyo", 850, 720, 250},
	{"Tokyo", "Paris", 850, 780, 250},
	{"London", "Dubai", 600, 410, 220},
	{"Paris", "Dubai", 550, 390, 180},
	{"Dubai", "Tokyo", 100, 600, 300},
	{"Tokyo", "Dubai", 100, 630, 300},
	{"Tokyo", "Los Angeles", 900, 600, 280},
	{"Los Angeles", "Tokyo", 900, 700, 280},
}

// SeedSampleNetwork adds a small six-city network to g.
func SeedSampleNetwork(g *network.Graph) error {
	for _, f := range sampleFlights {
		if _, err := g.AddFlight(f.origin, f.destination, f.cost, f.durationMinutes, f.totalSeats); err != nil {
			return fmt.Errorf("failed to seed %s -> %s: %w", f.origin, f.destination, err)
		}
	}
	return nil
}
