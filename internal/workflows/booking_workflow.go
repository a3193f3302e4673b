package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/cx-tal-miterani/airline-reservation/internal/activities"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

const (
	// ActivityTimeout bounds a single ledger call
	ActivityTimeout = 30 * time.Second
	// CompensationTimeout bounds the release of a half-built booking
	CompensationTimeout = time.Minute
)

// RouteBookingWorkflow books seats on every flight of a route, one leg per
// activity. A leg that ends up waitlisted is a normal outcome; if a leg cannot
// be reserved at all the booking is released so no seat stays held.
func RouteBookingWorkflow(ctx workflow.Context, input models.RouteBookingWorkflowInput) (*models.Booking, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Route booking workflow started", "customerId", input.CustomerID, "legs", len(input.FlightIDs))

	state := models.RouteBookingWorkflowState{Status: models.WorkflowStatusOpening}
	if err := workflow.SetQueryHandler(ctx, models.QueryGetState, func() (models.RouteBookingWorkflowState, error) {
		return state, nil
	}); err != nil {
		return nil, err
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	// Opening creates a new reference on every call, so it is never retried.
	openCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ActivityTimeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	var opened models.OpenBookingResult
	err := workflow.ExecuteActivity(openCtx, activities.OpenBookingName, models.OpenBookingInput{
		CustomerID: input.CustomerID,
		Seats:      input.Seats,
	}).Get(ctx, &opened)
	if err != nil {
		logger.Error("Failed to open booking", "error", err)
		state.FailureReason = err.Error()
		return nil, err
	}
	state.BookingReference = opened.BookingReference
	state.Status = models.WorkflowStatusReserving

	for _, flightID := range input.FlightIDs {
		var result models.ReserveLegResult
		err := workflow.ExecuteActivity(ctx, activities.ReserveLegName, models.ReserveLegInput{
			BookingReference: opened.BookingReference,
			FlightID:         flightID,
		}).Get(ctx, &result)
		if err != nil {
			logger.Error("Failed to reserve leg, releasing booking", "flightId", flightID, "error", err)
			state.FailureReason = err.Error()
			compensate(ctx, opened.BookingReference)
			state.Status = models.WorkflowStatusCompensated
			return nil, err
		}

		state.Legs = append(state.Legs, result.Leg)
		state.LegsReserved++
		logger.Info("Leg reserved", "flightId", flightID, "status", result.Leg.Status)
	}

	var booking models.Booking
	if err := workflow.ExecuteActivity(ctx, activities.GetBookingName, opened.BookingReference).Get(ctx, &booking); err != nil {
		logger.Error("Failed to read booking, releasing it", "reference", opened.BookingReference, "error", err)
		state.FailureReason = err.Error()
		compensate(ctx, opened.BookingReference)
		state.Status = models.WorkflowStatusCompensated
		return nil, err
	}

	state.Status = models.WorkflowStatusCompleted
	logger.Info("Route booking workflow completed", "reference", booking.Reference, "summary", booking.Summary)
	return &booking, nil
}

// compensate releases the booking even when the workflow itself is being cancelled.
func compensate(ctx workflow.Context, reference string) {
	logger := workflow.GetLogger(ctx)

	releaseCtx, _ := workflow.NewDisconnectedContext(ctx)
	releaseCtx = workflow.WithActivityOptions(releaseCtx, workflow.ActivityOptions{
		StartToCloseTimeout: CompensationTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    10,
		},
	})

	if err := workflow.ExecuteActivity(releaseCtx, activities.ReleaseBookingName, reference).Get(releaseCtx, nil); err != nil {
		logger.Error("Failed to release booking", "reference", reference, "error", err)
	}
}
