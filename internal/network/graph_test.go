package network

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddFlight(t *testing.T) {
	g := NewGraph()

	f, err := g.AddFlight("A", "B", 100, 120, 10)
	require.NoError(t, err)
	assert.Equal(t, "A", f.Source)
	assert.Equal(t, "B", f.Destination)
	assert.Equal(t, 10, f.SeatsAvailable())

	flights := g.FlightsFrom("A")
	require.Len(t, flights, 1)
	assert.Same(t, f, flights[0])

	got, ok := g.Flight(f.ID)
	require.True(t, ok)
	assert.Same(t, f, got)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_AddFlightRejectsInvalid(t *testing.T) {
	g := NewGraph()

	_, err := g.AddFlight("A", "B", -1, -1, 5)
	assert.ErrorIs(t, err, ErrInvalidFlight)
	assert.Empty(t, g.FlightsFrom("A"))
	assert.Empty(t, g.Cities())
	assert.Equal(t, 0, g.Len())
}

func TestGraph_ParallelFlightsKeepInsertionOrder(t *testing.T) {
	g := NewGraph()
	first, err := g.AddFlight("A", "B", 100, 5, 1)
	require.NoError(t, err)
	second, err := g.AddFlight("A", "B", 80, 10, 1)
	require.NoError(t, err)
	third, err := g.AddFlight("A", "C", 10, 10, 1)
	require.NoError(t, err)

	flights := g.FlightsFrom("A")
	require.Len(t, flights, 3)
	assert.Same(t, first, flights[0])
	assert.Same(t, second, flights[1])
	assert.Same(t, third, flights[2])
	assert.Equal(t, []*FlightRecord{first, second, third}, g.Flights())
}

func TestGraph_FlightsFromUnknownCity(t *testing.T) {
	g := NewGraph()
	_, err := g.AddFlight("A", "B", 1, 1, 1)
	require.NoError(t, err)

	flights := g.FlightsFrom("Z")
	assert.NotNil(t, flights)
	assert.Empty(t, flights)
	assert.Empty(t, g.FlightsFrom("B"))
}

func TestGraph_FlightsFromReturnsCopy(t *testing.T) {
	g := NewGraph()
	_, err := g.AddFlight("A", "B", 1, 1, 1)
	require.NoError(t, err)

	flights := g.FlightsFrom("A")
	flights[0] = nil

	again := g.FlightsFrom("A")
	require.Len(t, again, 1)
	assert.NotNil(t, again[0])
}

func TestGraph_CitiesCollapsesDuplicates(t *testing.T) {
	g := NewGraph()
	_, _ = g.AddFlight("Paris", "London", 1, 1, 1)
	_, _ = g.AddFlight("London", "Paris", 1, 1, 1)
	_, _ = g.AddFlight("Paris", "Tokyo", 1, 1, 1)
	_, _ = g.AddFlight("paris", "Tokyo", 1, 1, 1)

	assert.Equal(t, []string{"London", "Paris", "Tokyo", "paris"}, g.Cities())
	assert.True(t, g.HasCity("Tokyo"))
	assert.False(t, g.HasCity("Dubai"))
}

func TestGraph_InsertKeepsIDAndRejectsDuplicates(t *testing.T) {
	g := NewGraph()
	id := uuid.New()

	f, err := NewFlightRecord(id, "A", "B", 1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, g.Insert(f))

	dup, err := NewFlightRecord(id, "C", "D", 1, 1, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, g.Insert(dup), ErrDuplicateFlight)
	assert.False(t, g.HasCity("C"))

	got, ok := g.Flight(id)
	require.True(t, ok)
	assert.Equal(t, "A", got.Source)
}

func TestGraph_InsertValidatesRecord(t *testing.T) {
	g := NewGraph()
	err := g.Insert(&FlightRecord{ID: uuid.New(), Source: "A", Destination: "B", Cost: 0, DurationMinutes: 1})
	assert.ErrorIs(t, err, ErrInvalidFlight)
	assert.Equal(t, 0, g.Len())
}
