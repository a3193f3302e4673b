// Package planner finds the best route between two cities of a flight network.
//
// PlanRoute runs Dijkstra's algorithm over the directed multigraph held by a
// network.Graph. The edge weight is picked by a Criterion: the ticket cost or
// the flight duration. Every flight has a strictly positive weight, so the
// search may stop as soon as the destination leaves the frontier.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E), the frontier uses lazy decrease-key and may hold up to E entries.
//
// Ties between equal-distance frontier entries are broken by push order, so the
// result only depends on the order flights were added to the graph.
//
// Planning state is local to each call: any number of PlanRoute calls may run
// in parallel over the same graph.
package planner

import (
	"container/heap"
	"math"

	"github.com/cx-tal-miterani/airline-reservation/internal/network"
)

// PlanRoute computes the cheapest (or fastest) route from start to end.
//
// A missing route is not an error: an unreachable or unknown city, an empty
// graph and start == end all return a PathResult with nil Flights and a zero
// Total. Errors are reserved for a nil graph and an unknown criterion.
func PlanRoute(g *network.Graph, start, end string, criterion Criterion, opts ...Option) (PathResult, error) {
	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}

	if g == nil {
		return PathResult{}, ErrNilGraph
	}
	if !criterion.Valid() {
		return PathResult{}, ErrUnknownCriterion
	}

	r := newRunner(g, criterion, cfg)
	r.init(start)
	r.process(end)

	path := r.reconstruct(start, end)
	if path == nil {
		return PathResult{Criterion: criterion}, nil
	}

	return PathResult{
		Flights:   path,
		Total:     r.dist[end],
		Criterion: criterion,
	}, nil
}

// runner holds the mutable state of a single search.
type runner struct {
	g         *network.Graph
	criterion Criterion
	options   Options
	dist      map[string]float64
	prev      map[string]*network.FlightRecord // city -> flight used to reach it
	legs      map[string]int
	pq        frontier
	seq       uint64
}

func newRunner(g *network.Graph, criterion Criterion, cfg Options) *runner {
	cities := g.Cities()
	return &runner{
		g:         g,
		criterion: criterion,
		options:   cfg,
		dist:      make(map[string]float64, len(cities)+1),
		prev:      make(map[string]*network.FlightRecord, len(cities)),
		legs:      make(map[string]int, len(cities)+1),
		pq:        make(frontier, 0, len(cities)+1),
	}
}

// init sets every known city to +Inf and seeds the frontier with start at 0.
// start need not be a known city; it then simply has no outgoing flights.
func (r *runner) init(start string) {
	for _, c := range r.g.Cities() {
		r.dist[c] = math.Inf(1)
	}
	r.dist[start] = 0
	r.legs[start] = 0

	heap.Init(&r.pq)
	r.push(start, 0)
}

func (r *runner) process(end string) {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*frontierItem)

		if item.city == end {
			break
		}
		// Stale entry: the city was already settled through a shorter route.
		if item.dist > r.best(item.city) {
			continue
		}

		r.relax(item.city, item.dist)
	}
}

func (r *runner) relax(u string, d float64) {
	if r.options.MaxLegs > 0 && r.legs[u] >= r.options.MaxLegs {
		return
	}

	for _, f := range r.g.FlightsFrom(u) {
		if r.options.SeatsAvailable && f.SeatsAvailable() == 0 {
			continue
		}

		v := f.Destination
		candidate := d + r.criterion.Weight(f)
		if candidate >= r.best(v) {
			continue
		}

		r.dist[v] = candidate
		r.prev[v] = f
		r.legs[v] = r.legs[u] + 1
		r.push(v, candidate)
	}
}

// reconstruct walks predecessor flights back from end. It returns nil unless
// the walk is non-empty and ends at start.
func (r *runner) reconstruct(start, end string) []*network.FlightRecord {
	var reversed []*network.FlightRecord
	for city := end; ; {
		f, ok := r.prev[city]
		if !ok {
			break
		}
		reversed = append(reversed, f)
		city = f.Source
	}

	if len(reversed) == 0 || reversed[len(reversed)-1].Source != start {
		return nil
	}

	path := make([]*network.FlightRecord, len(reversed))
	for i, f := range reversed {
		path[len(reversed)-1-i] = f
	}
	return path
}

func (r *runner) best(city string) float64 {
	if d, ok := r.dist[city]; ok {
		return d
	}
	return math.Inf(1)
}

func (r *runner) push(city string, dist float64) {
	r.seq++
	heap.Push(&r.pq, &frontierItem{city: city, dist: dist, seq: r.seq})
}

// frontierItem is a city and the tentative distance it was pushed with.
type frontierItem struct {
	city string
	dist float64
	seq  uint64
}

// frontier is a min-heap of *frontierItem ordered by dist, then by push order.
type frontier []*frontierItem

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}

func (pq frontier) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier) Push(x interface{}) { *pq = append(*pq, x.(*frontierItem)) }

func (pq *frontier) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
