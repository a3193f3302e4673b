package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyRoute         = errors.New("ledger: route has no flights")
	ErrRouteNotContiguous = errors.New("ledger: route is not contiguous")
	ErrInvalidRequest     = errors.New("ledger: invalid booking request")
	ErrBookingNotFound    = errors.New("ledger: booking not found")
	ErrBookingCancelled   = errors.New("ledger: booking already cancelled")
	ErrLegNotFound        = errors.New("ledger: flight is not part of booking")
	ErrNoSeatToRelease    = errors.New("ledger: booking holds no seat on flight")
)

// LegStatus is the outcome of booking one flight of a route.
type LegStatus string

const (
	LegBooked     LegStatus = "booked"
	LegWaitlisted LegStatus = "waitlisted"
)

// Summary describes a whole booking.
type Summary string

const (
	SummaryFullyBooked         Summary = "fully_booked"
	SummaryPartiallyWaitlisted Summary = "partially_waitlisted"
)

// LegOutcome records how many of the requested seats were granted on one flight.
type LegOutcome struct {
	FlightID        uuid.UUID
	Source          string
	Destination     string
	SeatsBooked     int
	SeatsWaitlisted int
	Status          LegStatus
}

func (o *LegOutcome) refresh() {
	if o.SeatsWaitlisted > 0 {
		o.Status = LegWaitlisted
		return
	}
	o.Status = LegBooked
}

// Booking is a customer's reservation along a route.
type Booking struct {
	Reference      uuid.UUID
	CustomerID     string
	RequestedSeats int
	Legs           []LegOutcome
	Summary        Summary
	CreatedAt      time.Time
	CancelledAt    *time.Time
}

// Cancelled reports whether the booking has been cancelled.
func (b *Booking) Cancelled() bool { return b.CancelledAt != nil }

func (b *Booking) refresh() {
	b.Summary = SummaryFullyBooked
	for i := range b.Legs {
		b.Legs[i].refresh()
		if b.Legs[i].SeatsWaitlisted > 0 {
			b.Summary = SummaryPartiallyWaitlisted
		}
	}
}

func (b *Booking) leg(flightID uuid.UUID) *LegOutcome {
	for i := range b.Legs {
		if b.Legs[i].FlightID == flightID {
			return &b.Legs[i]
		}
	}
	return nil
}

func (b *Booking) clone() *Booking {
	out := *b
	out.Legs = make([]LegOutcome, len(b.Legs))
	copy(out.Legs, b.Legs)
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		out.CancelledAt = &t
	}
	return &out
}

// EventType names a seat state change.
type EventType string

const (
	EventSeatBooked EventType = "seat_booked"
	EventWaitlisted EventType = "waitlisted"
	EventPromoted   EventType = "promoted"
	EventReleased   EventType = "seat_released"
)

// Event is emitted to the Notifier after every seat state change.
type Event struct {
	Type           EventType
	FlightID       uuid.UUID
	Reference      uuid.UUID
	CustomerID     string
	SeatsAvailable int
	WaitlistLen    int
	Timestamp      time.Time
}

// Notifier receives seat events. Implementations must not block.
type Notifier interface {
	Notify(Event)
}
