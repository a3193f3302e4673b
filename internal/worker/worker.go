// Package worker runs the route booking workflow and its activities.
package worker

import (
	"fmt"
	"log"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/cx-tal-miterani/airline-reservation/internal/activities"
	"github.com/cx-tal-miterani/airline-reservation/internal/workflows"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

// Registry is the part of a worker that Register needs. The SDK worker and
// the workflow test environment both satisfy it.
type Registry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

// Register adds the route booking workflow and activities to r
func Register(r Registry, acts *activities.Activities) {
	r.RegisterWorkflowWithOptions(workflows.RouteBookingWorkflow, workflow.RegisterOptions{Name: models.RouteBookingWorkflowName})

	r.RegisterActivityWithOptions(acts.OpenBooking, activity.RegisterOptions{Name: activities.OpenBookingName})
	r.RegisterActivityWithOptions(acts.ReserveLeg, activity.RegisterOptions{Name: activities.ReserveLegName})
	r.RegisterActivityWithOptions(acts.ReleaseBooking, activity.RegisterOptions{Name: activities.ReleaseBookingName})
	r.RegisterActivityWithOptions(acts.GetBooking, activity.RegisterOptions{Name: activities.GetBookingName})
}

// Start creates a worker on taskQueue and starts polling in the background.
// Call Stop on the returned worker during shutdown.
func Start(c client.Client, taskQueue string, acts *activities.Activities) (sdkworker.Worker, error) {
	w := sdkworker.New(c, taskQueue, sdkworker.Options{})
	Register(w, acts)

	log.Printf("Starting Temporal worker on task queue %s...", taskQueue)
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return w, nil
}
