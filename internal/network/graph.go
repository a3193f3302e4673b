// Package network holds the flight network: cities are vertices and every
// FlightRecord is a directed, weighted edge between two of them.
//
// The graph is safe for concurrent use. Structural changes take a write lock,
// lookups take a read lock. Seat state lives on each FlightRecord behind its
// own mutex, so the graph lock is never held while seats change hands.
package network

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Graph is a directed multigraph of flights indexed by departure city.
// Parallel flights between the same pair of cities are kept as distinct edges.
type Graph struct {
	mu        sync.RWMutex
	outgoing  map[string][]*FlightRecord // departure city -> flights in insertion order
	byID      map[uuid.UUID]*FlightRecord
	cities    map[string]struct{}
	insertion []*FlightRecord
}

// NewGraph returns an empty flight network.
func NewGraph() *Graph {
	return &Graph{
		outgoing: make(map[string][]*FlightRecord),
		byID:     make(map[uuid.UUID]*FlightRecord),
		cities:   make(map[string]struct{}),
	}
}

// AddFlight creates a flight and appends it to the departure city's list.
// Invalid attributes leave the graph untouched and return an error wrapping ErrInvalidFlight.
func (g *Graph) AddFlight(source, destination string, cost float64, durationMinutes, totalSeats int) (*FlightRecord, error) {
	f, err := NewFlightRecord(uuid.Nil, source, destination, cost, durationMinutes, totalSeats)
	if err != nil {
		return nil, err
	}
	if err := g.Insert(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Insert adds an existing record, keeping its ID. Used when the network is
// rebuilt from the flight catalog.
func (g *Graph) Insert(f *FlightRecord) error {
	if err := validate(f.Source, f.Destination, f.Cost, f.DurationMinutes, f.TotalSeats); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byID[f.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFlight, f.ID)
	}

	g.outgoing[f.Source] = append(g.outgoing[f.Source], f)
	g.byID[f.ID] = f
	g.cities[f.Source] = struct{}{}
	g.cities[f.Destination] = struct{}{}
	g.insertion = append(g.insertion, f)

	return nil
}

// FlightsFrom returns the flights departing city in insertion order.
// The slice is a copy; an unknown city yields an empty slice.
func (g *Graph) FlightsFrom(city string) []*FlightRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()

	src := g.outgoing[city]
	out := make([]*FlightRecord, len(src))
	copy(out, src)
	return out
}

// Cities returns every city that is the source or destination of some flight, sorted.
func (g *Graph) Cities() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]string, 0, len(g.cities))
	for c := range g.cities {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HasCity reports whether city is an endpoint of at least one flight.
func (g *Graph) HasCity(city string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.cities[city]
	return ok
}

// Flight looks a flight up by ID.
func (g *Graph) Flight(id uuid.UUID) (*FlightRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	f, ok := g.byID[id]
	return f, ok
}

// Flights returns every flight in the order it was added.
func (g *Graph) Flights() []*FlightRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*FlightRecord, len(g.insertion))
	copy(out, g.insertion)
	return out
}

// Len returns the number of flights.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.insertion)
}
