package network

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrInvalidFlight is returned when a flight is created with a cost that is
	// not a positive finite number, a non-positive duration, a negative seat
	// capacity or an empty endpoint.
	ErrInvalidFlight = errors.New("network: invalid flight")

	// ErrDuplicateFlight is returned when a flight ID is already present in the graph.
	ErrDuplicateFlight = errors.New("network: duplicate flight id")

	// ErrNoSeatsHeld is returned by CancelSeat when every seat on the flight is already free.
	ErrNoSeatsHeld = errors.New("network: no seats held on flight")
)

// BookingRequest is a pending seat request sitting on a flight's waitlist.
type BookingRequest struct {
	CustomerID       string
	RequestTimestamp int64
	Reference        uuid.UUID
}

// FlightRecord is one scheduled flight: a directed, weighted edge of the network.
//
// Endpoints, cost, duration and capacity never change after creation. Seat and
// waitlist state is guarded by the record's own mutex so bookings on different
// flights never contend.
type FlightRecord struct {
	ID              uuid.UUID
	Source          string
	Destination     string
	Cost            float64
	DurationMinutes int
	TotalSeats      int

	mu             sync.Mutex
	seatsAvailable int
	waitlist       []BookingRequest
}

// NewFlightRecord validates the flight attributes and returns a record with every seat free.
// A zero id is replaced by a freshly generated one.
func NewFlightRecord(id uuid.UUID, source, destination string, cost float64, durationMinutes, totalSeats int) (*FlightRecord, error) {
	if err := validate(source, destination, cost, durationMinutes, totalSeats); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &FlightRecord{
		ID:              id,
		Source:          source,
		Destination:     destination,
		Cost:            cost,
		DurationMinutes: durationMinutes,
		TotalSeats:      totalSeats,
		seatsAvailable:  totalSeats,
	}, nil
}

func validate(source, destination string, cost float64, durationMinutes, totalSeats int) error {
	switch {
	case source == "" || destination == "":
		return fmt.Errorf("%w: source and destination are required", ErrInvalidFlight)
	case cost <= 0 || math.IsNaN(cost) || math.IsInf(cost, 0):
		return fmt.Errorf("%w: cost must be a positive finite number, got %v", ErrInvalidFlight, cost)
	case durationMinutes <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidFlight, durationMinutes)
	case totalSeats < 0:
		return fmt.Errorf("%w: total seats must not be negative, got %d", ErrInvalidFlight, totalSeats)
	}
	return nil
}

// RequestSeat takes one free seat. It reports false when the flight is full; the
// caller is then expected to put a BookingRequest on the waitlist.
func (f *FlightRecord) RequestSeat() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seatsAvailable == 0 {
		return false
	}
	f.seatsAvailable--
	return true
}

// EnqueueWaitlist inserts req after every request with a timestamp lower than or
// equal to its own, keeping equal timestamps in arrival order.
func (f *FlightRecord) EnqueueWaitlist(req BookingRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := sort.Search(len(f.waitlist), func(i int) bool {
		return f.waitlist[i].RequestTimestamp > req.RequestTimestamp
	})
	f.waitlist = append(f.waitlist, BookingRequest{})
	copy(f.waitlist[i+1:], f.waitlist[i:])
	f.waitlist[i] = req
}

// CancelSeat frees one seat and, in the same critical section, hands it to the
// head of the waitlist. The promoted request is returned, or nil when the
// waitlist was empty and the seat stays free.
func (f *FlightRecord) CancelSeat() (*BookingRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seatsAvailable >= f.TotalSeats {
		return nil, ErrNoSeatsHeld
	}
	f.seatsAvailable++

	if len(f.waitlist) == 0 {
		return nil, nil
	}

	head := f.waitlist[0]
	f.waitlist = f.waitlist[1:]
	f.seatsAvailable--

	return &head, nil
}

// WithdrawWaitlist removes every waitlisted request belonging to reference and
// returns how many were removed.
func (f *FlightRecord) WithdrawWaitlist(reference uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.waitlist[:0]
	removed := 0
	for _, req := range f.waitlist {
		if req.Reference == reference {
			removed++
			continue
		}
		kept = append(kept, req)
	}
	f.waitlist = kept
	return removed
}

// SeatsAvailable returns the number of free seats.
func (f *FlightRecord) SeatsAvailable() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seatsAvailable
}

// Waitlist returns a copy of the waitlist in promotion order.
func (f *FlightRecord) Waitlist() []BookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]BookingRequest, len(f.waitlist))
	copy(out, f.waitlist)
	return out
}

// WaitlistLen returns the number of pending requests.
func (f *FlightRecord) WaitlistLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waitlist)
}

// String renders the flight as "Source -> Destination".
func (f *FlightRecord) String() string {
	return f.Source + " -> " + f.Destination
}
