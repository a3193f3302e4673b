package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/cx-tal-miterani/airline-reservation/internal/ledger"
	"github.com/cx-tal-miterani/airline-reservation/internal/network"
	"github.com/cx-tal-miterani/airline-reservation/internal/service"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

// Activity names as registered on the worker
const (
	OpenBookingName    = "OpenBooking"
	ReserveLegName     = "ReserveLeg"
	ReleaseBookingName = "ReleaseBooking"
	GetBookingName     = "GetBooking"
)

// Error types reported to the workflow. None of them is retried.
const (
	ErrTypeInvalidRequest = "InvalidRequest"
	ErrTypeFlightNotFound = "FlightNotFound"
	ErrTypeBooking        = "BookingError"
)

// Activities books routes against the in-process flight network and ledger
type Activities struct {
	graph  *network.Graph
	ledger *ledger.Ledger
}

// NewActivities creates activities bound to g and l
func NewActivities(g *network.Graph, l *ledger.Ledger) *Activities {
	return &Activities{graph: g, ledger: l}
}

// OpenBooking registers an empty booking for the customer
func (a *Activities) OpenBooking(ctx context.Context, input models.OpenBookingInput) (*models.OpenBookingResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Opening booking", "customerId", input.CustomerID, "seats", input.Seats)

	ref, err := a.ledger.Open(input.CustomerID, input.Seats)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidRequest, err)
	}

	logger.Info("Booking opened", "reference", ref)
	return &models.OpenBookingResult{BookingReference: ref.String()}, nil
}

// ReserveLeg books the requested seats on one flight, waitlisting what cannot be granted
func (a *Activities) ReserveLeg(ctx context.Context, input models.ReserveLegInput) (*models.ReserveLegResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Reserving leg", "reference", input.BookingReference, "flightId", input.FlightID)

	ref, err := uuid.Parse(input.BookingReference)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError("malformed booking reference", ErrTypeInvalidRequest, err)
	}
	flightID, err := uuid.Parse(input.FlightID)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError("malformed flight id", ErrTypeInvalidRequest, err)
	}

	f, ok := a.graph.Flight(flightID)
	if !ok {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("flight %s not found", input.FlightID), ErrTypeFlightNotFound, nil)
	}

	leg, err := a.ledger.ReserveLeg(ref, f)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeBooking, err)
	}

	logger.Info("Leg reserved", "flight", f.String(), "booked", leg.SeatsBooked, "waitlisted", leg.SeatsWaitlisted)
	return &models.ReserveLegResult{Leg: service.ToLegStatus(leg)}, nil
}

// ReleaseBooking cancels a booking, freeing its seats and withdrawing its
// waitlist entries. Releasing an already cancelled booking succeeds.
func (a *Activities) ReleaseBooking(ctx context.Context, reference string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Releasing booking", "reference", reference)

	ref, err := uuid.Parse(reference)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("malformed booking reference", ErrTypeInvalidRequest, err)
	}

	if _, err := a.ledger.CancelBooking(ref); err != nil {
		if errors.Is(err, ledger.ErrBookingCancelled) || errors.Is(err, ledger.ErrBookingNotFound) {
			logger.Warn("Nothing to release", "reference", reference, "error", err)
			return nil
		}
		return fmt.Errorf("failed to release booking: %w", err)
	}
	return nil
}

// GetBooking returns the current state of a booking
func (a *Activities) GetBooking(ctx context.Context, reference string) (*models.Booking, error) {
	ref, err := uuid.Parse(reference)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError("malformed booking reference", ErrTypeInvalidRequest, err)
	}

	b, err := a.ledger.Booking(ref)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeBooking, err)
	}
	return service.ToBooking(b), nil
}
