package models

// Temporal names shared by the API server and the worker
const (
	RouteBookingWorkflowName = "RouteBookingWorkflow"
	DefaultTaskQueue         = "flight-route-booking-queue"
)

// RouteBookingWorkflowInput represents input for the route booking workflow
type RouteBookingWorkflowInput struct {
	CustomerID string   `json:"customerId"`
	Seats      int      `json:"seats"`
	FlightIDs  []string `json:"flightIds"`
}

// RouteBookingWorkflowState represents the current state of the route booking workflow
type RouteBookingWorkflowState struct {
	BookingReference string      `json:"bookingReference"`
	Status           string      `json:"status"`
	LegsReserved     int         `json:"legsReserved"`
	Legs             []LegStatus `json:"legs"`
	FailureReason    string      `json:"failureReason,omitempty"`
}

const (
	WorkflowStatusOpening     = "opening"
	WorkflowStatusReserving   = "reserving"
	WorkflowStatusCompleted   = "completed"
	WorkflowStatusCompensated = "compensated"
)

// Queries for workflow state
const (
	QueryGetState = "get_state"
)

// Activity payloads
type OpenBookingInput struct {
	CustomerID string `json:"customerId"`
	Seats      int    `json:"seats"`
}

type OpenBookingResult struct {
	BookingReference string `json:"bookingReference"`
}

type ReserveLegInput struct {
	BookingReference string `json:"bookingReference"`
	FlightID         string `json:"flightId"`
}

type ReserveLegResult struct {
	Leg LegStatus `json:"leg"`
}
