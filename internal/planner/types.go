package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/airline-reservation/internal/network"
)

// Sentinel errors returned by the planner.
var (
	// ErrNilGraph indicates that a nil *network.Graph was passed to PlanRoute.
	ErrNilGraph = errors.New("planner: graph is nil")

	// ErrUnknownCriterion indicates a criterion other than "cost" or "duration".
	ErrUnknownCriterion = errors.New("planner: unknown criterion")

	// ErrBadMaxLegs indicates that WithMaxLegs was given a non-positive value.
	ErrBadMaxLegs = errors.New("planner: MaxLegs must be positive")
)

// Criterion selects which flight attribute is used as the edge weight.
type Criterion string

const (
	// CriterionCost weights each flight by its ticket cost.
	CriterionCost Criterion = "cost"
	// CriterionDuration weights each flight by its duration in minutes.
	CriterionDuration Criterion = "duration"
)

// ParseCriterion accepts "cost" or "duration" in any case, surrounded by any whitespace.
func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(strings.ToLower(strings.TrimSpace(s))); c {
	case CriterionCost, CriterionDuration:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCriterion, s)
	}
}

// Valid reports whether c is one of the known criteria.
func (c Criterion) Valid() bool {
	return c == CriterionCost || c == CriterionDuration
}

// Weight returns the edge weight of f under c.
func (c Criterion) Weight(f *network.FlightRecord) float64 {
	if c == CriterionCost {
		return f.Cost
	}
	return float64(f.DurationMinutes)
}

// Options configures a planning call.
//
// SeatsAvailable – skip flights that currently have no free seat.
// MaxLegs        – ignore routes longer than this many flights. 0 means unbounded.
type Options struct {
	SeatsAvailable bool
	MaxLegs        int
}

// Option is a functional option for PlanRoute.
type Option func(*Options)

// WithSeatsAvailable only routes through flights that still have a free seat.
// Seat counts are read at relaxation time, so the result can be stale by the
// time the caller books.
func WithSeatsAvailable() Option {
	return func(o *Options) {
		o.SeatsAvailable = true
	}
}

// WithMaxLegs limits routes to at most n flights. Panics if n <= 0.
//
// The leg limit is applied while relaxing: a city reached by a cheap route with
// too many legs is not revisited through a costlier shorter route, so the
// result is the best route the search finds within the limit, not a
// resource-constrained optimum.
func WithMaxLegs(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic(ErrBadMaxLegs.Error())
		}
		o.MaxLegs = n
	}
}

// PathResult is the outcome of a planning call. Flights is nil when no route exists.
type PathResult struct {
	Flights   []*network.FlightRecord
	Total     float64
	Criterion Criterion
}

// Found reports whether a route was found.
func (r PathResult) Found() bool { return len(r.Flights) > 0 }

// Legs returns the number of flights on the route.
func (r PathResult) Legs() int { return len(r.Flights) }

// TotalCost sums the cost of every flight on the route, whatever the criterion.
func (r PathResult) TotalCost() float64 {
	var sum float64
	for _, f := range r.Flights {
		sum += f.Cost
	}
	return sum
}

// TotalDuration sums the duration in minutes of every flight on the route.
func (r PathResult) TotalDuration() int {
	var sum int
	for _, f := range r.Flights {
		sum += f.DurationMinutes
	}
	return sum
}
