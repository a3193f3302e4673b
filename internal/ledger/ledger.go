// Package ledger books seats for a customer along a planned route.
//
// Each flight of the route is booked independently: free seats are taken one
// at a time and any seat that cannot be granted becomes a waitlist entry on
// that flight. A leg being waitlisted never rolls back the legs already booked.
//
// Seat state lives on the network.FlightRecord and is guarded by the flight's
// own lock. The ledger only keeps the customer-facing view: which booking holds
// how many seats on which flight, and which of them are still waitlisted.
package ledger

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/airline-reservation/internal/network"
)

// Ledger tracks bookings made along routes of a flight network.
// It is safe for concurrent use.
type Ledger struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*reservation

	clock     func() time.Time
	lastStamp atomic.Int64
	notifier  Notifier
}

type reservation struct {
	mu      sync.Mutex
	booking Booking
	flights map[uuid.UUID]*network.FlightRecord
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sends every seat event to n.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		reservations: make(map[uuid.UUID]*reservation),
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ValidateRoute checks that path is non-empty, that each flight departs from
// the city the previous one arrived at and that no flight appears twice.
func ValidateRoute(path []*network.FlightRecord) error {
	if len(path) == 0 {
		return ErrEmptyRoute
	}
	seen := make(map[uuid.UUID]struct{}, len(path))
	for i, f := range path {
		if f == nil {
			return fmt.Errorf("%w: leg %d is nil", ErrRouteNotContiguous, i)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: flight %s appears twice", ErrRouteNotContiguous, f.ID)
		}
		seen[f.ID] = struct{}{}
		if i > 0 && path[i-1].Destination != f.Source {
			return fmt.Errorf("%w: leg %d departs %s but leg %d arrives at %s",
				ErrRouteNotContiguous, i, f.Source, i-1, path[i-1].Destination)
		}
	}
	return nil
}

// BookAlongRoute requests seats on every flight of path for customer. Seats
// that cannot be granted on a flight are waitlisted on that flight under the
// booking's reference. The returned booking has already been recorded.
func (l *Ledger) BookAlongRoute(path []*network.FlightRecord, customer string, seats int) (*Booking, error) {
	if err := ValidateRoute(path); err != nil {
		return nil, err
	}

	ref, err := l.Open(customer, seats)
	if err != nil {
		return nil, err
	}

	for _, f := range path {
		if _, err := l.ReserveLeg(ref, f); err != nil {
			_, _ = l.CancelBooking(ref)
			return nil, err
		}
	}

	return l.Booking(ref)
}

// Open registers an empty booking and returns its reference. Legs are added
// with ReserveLeg.
func (l *Ledger) Open(customer string, seats int) (uuid.UUID, error) {
	if customer == "" {
		return uuid.Nil, fmt.Errorf("%w: customer id is required", ErrInvalidRequest)
	}
	if seats < 1 {
		return uuid.Nil, fmt.Errorf("%w: at least one seat is required, got %d", ErrInvalidRequest, seats)
	}

	ref := uuid.New()
	res := &reservation{
		booking: Booking{
			Reference:      ref,
			CustomerID:     customer,
			RequestedSeats: seats,
			Summary:        SummaryFullyBooked,
			CreatedAt:      l.clock(),
		},
		flights: make(map[uuid.UUID]*network.FlightRecord),
	}

	l.mu.Lock()
	l.reservations[ref] = res
	l.mu.Unlock()

	return ref, nil
}

// ReserveLeg books the booking's requested seats on f, waitlisting the ones
// that cannot be granted. Reserving the same flight twice for one booking
// returns the existing outcome.
func (l *Ledger) ReserveLeg(ref uuid.UUID, f *network.FlightRecord) (LegOutcome, error) {
	res, err := l.lookup(ref)
	if err != nil {
		return LegOutcome{}, err
	}

	res.mu.Lock()
	defer res.mu.Unlock()

	if res.booking.Cancelled() {
		return LegOutcome{}, ErrBookingCancelled
	}
	if existing := res.booking.leg(f.ID); existing != nil {
		return *existing, nil
	}

	outcome := LegOutcome{
		FlightID:    f.ID,
		Source:      f.Source,
		Destination: f.Destination,
	}
	customer := res.booking.CustomerID

	for i := 0; i < res.booking.RequestedSeats; i++ {
		if f.RequestSeat() {
			outcome.SeatsBooked++
			l.emit(EventSeatBooked, f, ref, customer)
			continue
		}
		f.EnqueueWaitlist(network.BookingRequest{
			CustomerID:       customer,
			RequestTimestamp: l.nextStamp(),
			Reference:        ref,
		})
		outcome.SeatsWaitlisted++
		l.emit(EventWaitlisted, f, ref, customer)
	}
	outcome.refresh()

	res.booking.Legs = append(res.booking.Legs, outcome)
	res.flights[f.ID] = f
	res.booking.refresh()

	return outcome, nil
}

// Booking returns a snapshot of the booking stored under ref.
func (l *Ledger) Booking(ref uuid.UUID) (*Booking, error) {
	res, err := l.lookup(ref)
	if err != nil {
		return nil, err
	}

	res.mu.Lock()
	defer res.mu.Unlock()
	return res.booking.clone(), nil
}

// Bookings returns a snapshot of every booking made by customer, or of every
// booking when customer is empty.
func (l *Ledger) Bookings(customer string) []*Booking {
	l.mu.RLock()
	all := make([]*reservation, 0, len(l.reservations))
	for _, res := range l.reservations {
		all = append(all, res)
	}
	l.mu.RUnlock()

	out := make([]*Booking, 0, len(all))
	for _, res := range all {
		res.mu.Lock()
		if customer == "" || res.booking.CustomerID == customer {
			out = append(out, res.booking.clone())
		}
		res.mu.Unlock()
	}
	return out
}

// CancelSeat gives back one seat the booking holds on flightID. The freed seat
// goes to the head of the flight's waitlist.
func (l *Ledger) CancelSeat(ref, flightID uuid.UUID) (*Booking, error) {
	res, err := l.lookup(ref)
	if err != nil {
		return nil, err
	}

	res.mu.Lock()
	if res.booking.Cancelled() {
		res.mu.Unlock()
		return nil, ErrBookingCancelled
	}
	leg := res.booking.leg(flightID)
	if leg == nil {
		res.mu.Unlock()
		return nil, ErrLegNotFound
	}
	if leg.SeatsBooked == 0 {
		res.mu.Unlock()
		return nil, ErrNoSeatToRelease
	}
	f := res.flights[flightID]
	promoted, err := f.CancelSeat()
	if err != nil {
		res.mu.Unlock()
		return nil, fmt.Errorf("failed to release seat on %s: %w", f, err)
	}
	leg.SeatsBooked--
	res.booking.refresh()
	l.emit(EventReleased, f, ref, res.booking.CustomerID)
	snapshot := res.booking.clone()
	res.mu.Unlock()

	// Promotions touch another booking, so they run without holding this one.
	l.settle(f, promoted)

	return snapshot, nil
}

// CancelBooking withdraws every waitlisted request of the booking and frees
// every seat it holds. Each freed seat is handed to the head of its flight's
// waitlist.
func (l *Ledger) CancelBooking(ref uuid.UUID) (*Booking, error) {
	res, err := l.lookup(ref)
	if err != nil {
		return nil, err
	}

	type promotion struct {
		flight *network.FlightRecord
		req    *network.BookingRequest
	}
	var promotions []promotion

	res.mu.Lock()
	if res.booking.Cancelled() {
		res.mu.Unlock()
		return nil, ErrBookingCancelled
	}

	now := l.clock()
	res.booking.CancelledAt = &now

	for i := range res.booking.Legs {
		leg := &res.booking.Legs[i]
		f := res.flights[leg.FlightID]

		f.WithdrawWaitlist(ref)
		leg.SeatsWaitlisted = 0

		for leg.SeatsBooked > 0 {
			promoted, err := f.CancelSeat()
			if err != nil {
				break
			}
			leg.SeatsBooked--
			l.emit(EventReleased, f, ref, res.booking.CustomerID)
			if promoted != nil {
				promotions = append(promotions, promotion{flight: f, req: promoted})
			}
		}
	}
	res.booking.refresh()
	snapshot := res.booking.clone()
	res.mu.Unlock()

	for _, p := range promotions {
		l.settle(p.flight, p.req)
	}

	return snapshot, nil
}

// settle credits a promoted waitlist request to its booking. A request whose
// booking has been cancelled meanwhile passes the seat straight on.
func (l *Ledger) settle(f *network.FlightRecord, promoted *network.BookingRequest) {
	for promoted != nil {
		if l.assign(f, *promoted) {
			return
		}
		next, err := f.CancelSeat()
		if err != nil {
			return
		}
		promoted = next
	}
}

func (l *Ledger) assign(f *network.FlightRecord, req network.BookingRequest) bool {
	res, err := l.lookup(req.Reference)
	if err != nil {
		// Not tracked by this ledger: the seat stays with the request.
		l.emit(EventPromoted, f, req.Reference, req.CustomerID)
		return true
	}

	res.mu.Lock()
	defer res.mu.Unlock()

	if res.booking.Cancelled() {
		return false
	}
	leg := res.booking.leg(f.ID)
	if leg == nil || leg.SeatsWaitlisted == 0 {
		return false
	}
	leg.SeatsWaitlisted--
	leg.SeatsBooked++
	res.booking.refresh()
	l.emit(EventPromoted, f, req.Reference, req.CustomerID)
	return true
}

func (l *Ledger) lookup(ref uuid.UUID) (*reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res, ok := l.reservations[ref]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return res, nil
}

// nextStamp returns a strictly increasing request timestamp in nanoseconds so
// waitlist entries created by one ledger keep their creation order.
func (l *Ledger) nextStamp() int64 {
	for {
		now := l.clock().UnixNano()
		last := l.lastStamp.Load()
		if now <= last {
			now = last + 1
		}
		if l.lastStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

func (l *Ledger) emit(t EventType, f *network.FlightRecord, ref uuid.UUID, customer string) {
	if l.notifier == nil {
		return
	}
	l.notifier.Notify(Event{
		Type:           t,
		FlightID:       f.ID,
		Reference:      ref,
		CustomerID:     customer,
		SeatsAvailable: f.SeatsAvailable(),
		WaitlistLen:    f.WaitlistLen(),
		Timestamp:      l.clock(),
	})
}
