package models

import "time"

// Booking represents a customer's seats along a route
type Booking struct {
	Reference      string      `json:"reference"`
	CustomerID     string      `json:"customerId"`
	RequestedSeats int         `json:"requestedSeats"`
	Legs           []LegStatus `json:"legs"`
	Summary        string      `json:"summary"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	CancelledAt    *time.Time  `json:"cancelledAt,omitempty"`
}

// LegStatus is the booking outcome on one flight of the route
type LegStatus struct {
	FlightID        string `json:"flightId"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	SeatsBooked     int    `json:"seatsBooked"`
	SeatsWaitlisted int    `json:"seatsWaitlisted"`
	Status          string `json:"status"`
}

const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// CreateBookingRequest books seats on every flight of a planned route
type CreateBookingRequest struct {
	CustomerID string   `json:"customerId"`
	Seats      int      `json:"seats"`
	FlightIDs  []string `json:"flightIds"`
}

// SeatEvent is pushed to websocket subscribers of a flight
type SeatEvent struct {
	Type             string    `json:"type"`
	FlightID         string    `json:"flightId"`
	BookingReference string    `json:"bookingReference"`
	CustomerID       string    `json:"customerId"`
	AvailableSeats   int       `json:"availableSeats"`
	WaitlistLength   int       `json:"waitlistLength"`
	Timestamp        time.Time `json:"timestamp"`
}
