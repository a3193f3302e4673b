package models

// Flight represents one directed flight of the network
type Flight struct {
	ID              string  `json:"id"`
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	Cost            float64 `json:"cost"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalSeats      int     `json:"totalSeats"`
	AvailableSeats  int     `json:"availableSeats"`
	WaitlistLength  int     `json:"waitlistLength"`
}

// FlightDetail adds the waitlist in promotion order
type FlightDetail struct {
	Flight
	Waitlist []WaitlistEntry `json:"waitlist"`
}

// WaitlistEntry is one pending seat request
type WaitlistEntry struct {
	CustomerID       string `json:"customerId"`
	BookingReference string `json:"bookingReference"`
	RequestTimestamp int64  `json:"requestTimestamp"`
}

// CreateFlightRequest represents a request to add a flight to the network
type CreateFlightRequest struct {
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	Cost            float64 `json:"cost"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalSeats      int     `json:"totalSeats"`
}

// CancelSeatRequest gives back one seat of a booking on a flight
type CancelSeatRequest struct {
	BookingReference string `json:"bookingReference"`
}

// Route represents a planned route between two cities
type Route struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	Criterion     string   `json:"criterion"`
	Found         bool     `json:"found"`
	Flights       []Flight `json:"flights"`
	Total         float64  `json:"total"`
	TotalCost     float64  `json:"totalCost"`
	TotalDuration int      `json:"totalDuration"`
	FlightIDs     []string `json:"flightIds"`
}
