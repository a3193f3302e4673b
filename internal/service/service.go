package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/airline-reservation/internal/database"
	"github.com/cx-tal-miterani/airline-reservation/internal/ledger"
	"github.com/cx-tal-miterani/airline-reservation/internal/network"
	"github.com/cx-tal-miterani/airline-reservation/internal/planner"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// ReservationService defines the route planning and booking service interface
type ReservationService interface {
	Cities(ctx context.Context) []string
	GetFlights(ctx context.Context) []*models.Flight
	GetFlight(ctx context.Context, flightID string) (*models.FlightDetail, error)
	AddFlight(ctx context.Context, req *models.CreateFlightRequest) (*models.Flight, error)
	PlanRoute(ctx context.Context, from, to, criterion string, seatsAvailable bool) (*models.Route, error)
	BookRoute(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, reference string) (*models.Booking, error)
	CancelBooking(ctx context.Context, reference string) (*models.Booking, error)
	CancelSeat(ctx context.Context, flightID, reference string) (*models.Booking, error)
}

// FlightStore persists flight definitions
type FlightStore interface {
	InsertFlight(ctx context.Context, f *database.Flight) error
	ListFlights(ctx context.Context) ([]database.Flight, error)
}

// Option configures the service
type Option func(*reservationServiceImpl)

// WithFlightStore writes every added flight to store.
func WithFlightStore(store FlightStore) Option {
	return func(s *reservationServiceImpl) { s.store = store }
}

// WithTemporal books routes through the route booking workflow instead of
// calling the ledger directly.
func WithTemporal(c client.Client, taskQueue string) Option {
	return func(s *reservationServiceImpl) {
		s.temporalClient = c
		s.taskQueue = taskQueue
	}
}

// reservationServiceImpl implements ReservationService
type reservationServiceImpl struct {
	graph          *network.Graph
	ledger         *ledger.Ledger
	store          FlightStore
	temporalClient client.Client
	taskQueue      string
}

// NewReservationService creates a new ReservationService
func NewReservationService(g *network.Graph, l *ledger.Ledger, opts ...Option) ReservationService {
	svc := &reservationServiceImpl{
		graph:     g,
		ledger:    l,
		taskQueue: models.DefaultTaskQueue,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// LoadCatalog inserts every valid stored flight into g and returns how many were inserted.
func LoadCatalog(ctx context.Context, g *network.Graph, store FlightStore) (int, error) {
	rows, err := store.ListFlights(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load flight catalog: %w", err)
	}

	loaded := 0
	for _, row := range rows {
		rec, err := row.Record()
		if err != nil {
			log.Printf("Skipping invalid catalog flight %s: %v", row.ID, err)
			continue
		}
		if err := g.Insert(rec); err != nil {
			return loaded, fmt.Errorf("failed to insert catalog flight %s: %w", row.ID, err)
		}
		loaded++
	}
	return loaded, nil
}

func (s *reservationServiceImpl) Cities(ctx context.Context) []string {
	return s.graph.Cities()
}

func (s *reservationServiceImpl) GetFlights(ctx context.Context) []*models.Flight {
	all := s.graph.Flights()
	flights := make([]*models.Flight, 0, len(all))
	for _, f := range all {
		dto := toFlight(f)
		flights = append(flights, &dto)
	}
	return flights
}

func (s *reservationServiceImpl) GetFlight(ctx context.Context, flightID string) (*models.FlightDetail, error) {
	f, err := s.flight(flightID)
	if err != nil {
		return nil, err
	}

	detail := &models.FlightDetail{Flight: toFlight(f)}
	for _, req := range f.Waitlist() {
		detail.Waitlist = append(detail.Waitlist, models.WaitlistEntry{
			CustomerID:       req.CustomerID,
			BookingReference: req.Reference.String(),
			RequestTimestamp: req.RequestTimestamp,
		})
	}
	return detail, nil
}

func (s *reservationServiceImpl) AddFlight(ctx context.Context, req *models.CreateFlightRequest) (*models.Flight, error) {
	rec, err := network.NewFlightRecord(uuid.Nil, strings.TrimSpace(req.Origin), strings.TrimSpace(req.Destination),
		req.Cost, req.DurationMinutes, req.TotalSeats)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Persist first so a store failure leaves the graph untouched.
	if s.store != nil {
		row := database.FromRecord(rec)
		if err := s.store.InsertFlight(ctx, &row); err != nil {
			return nil, fmt.Errorf("failed to store flight: %w", err)
		}
	}

	if err := s.graph.Insert(rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dto := toFlight(rec)
	return &dto, nil
}

func (s *reservationServiceImpl) PlanRoute(ctx context.Context, from, to, criterion string, seatsAvailable bool) (*models.Route, error) {
	c, err := planner.ParseCriterion(criterion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var opts []planner.Option
	if seatsAvailable {
		opts = append(opts, planner.WithSeatsAvailable())
	}

	res, err := planner.PlanRoute(s.graph, from, to, c, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to plan route: %w", err)
	}

	route := &models.Route{
		From:          from,
		To:            to,
		Criterion:     string(c),
		Found:         res.Found(),
		Flights:       make([]models.Flight, 0, res.Legs()),
		FlightIDs:     make([]string, 0, res.Legs()),
		Total:         res.Total,
		TotalCost:     res.TotalCost(),
		TotalDuration: res.TotalDuration(),
	}
	for _, f := range res.Flights {
		route.Flights = append(route.Flights, toFlight(f))
		route.FlightIDs = append(route.FlightIDs, f.ID.String())
	}
	return route, nil
}

func (s *reservationServiceImpl) BookRoute(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	path := make([]*network.FlightRecord, 0, len(req.FlightIDs))
	for _, id := range req.FlightIDs {
		f, err := s.flight(id)
		if err != nil {
			return nil, err
		}
		path = append(path, f)
	}

	if req.CustomerID == "" || req.Seats < 1 {
		return nil, fmt.Errorf("%w: customerId and a positive seat count are required", ErrInvalidInput)
	}
	if err := ledger.ValidateRoute(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.temporalClient != nil {
		return s.bookViaWorkflow(ctx, req)
	}

	b, err := s.ledger.BookAlongRoute(path, req.CustomerID, req.Seats)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	return ToBooking(b), nil
}

func (s *reservationServiceImpl) bookViaWorkflow(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	input := models.RouteBookingWorkflowInput{
		CustomerID: req.CustomerID,
		Seats:      req.Seats,
		FlightIDs:  req.FlightIDs,
	}

	workflowOptions := client.StartWorkflowOptions{
		ID:        "route-booking-" + uuid.New().String(),
		TaskQueue: s.taskQueue,
	}

	run, err := s.temporalClient.ExecuteWorkflow(ctx, workflowOptions, models.RouteBookingWorkflowName, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	var booking models.Booking
	if err := run.Get(ctx, &booking); err != nil {
		return nil, fmt.Errorf("route booking workflow failed: %w", err)
	}
	return &booking, nil
}

func (s *reservationServiceImpl) GetBooking(ctx context.Context, reference string) (*models.Booking, error) {
	ref, err := parseID(reference)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.Booking(ref)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	return ToBooking(b), nil
}

func (s *reservationServiceImpl) CancelBooking(ctx context.Context, reference string) (*models.Booking, error) {
	ref, err := parseID(reference)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.CancelBooking(ref)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	return ToBooking(b), nil
}

func (s *reservationServiceImpl) CancelSeat(ctx context.Context, flightID, reference string) (*models.Booking, error) {
	f, err := s.flight(flightID)
	if err != nil {
		return nil, err
	}
	ref, err := parseID(reference)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.CancelSeat(ref, f.ID)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	return ToBooking(b), nil
}

func (s *reservationServiceImpl) flight(flightID string) (*network.FlightRecord, error) {
	id, err := parseID(flightID)
	if err != nil {
		return nil, err
	}
	f, ok := s.graph.Flight(id)
	if !ok {
		return nil, fmt.Errorf("%w: flight %s", ErrNotFound, flightID)
	}
	return f, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", ErrInvalidInput, s)
	}
	return id, nil
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrBookingNotFound), errors.Is(err, ledger.ErrLegNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, ledger.ErrBookingCancelled), errors.Is(err, ledger.ErrNoSeatToRelease):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, ledger.ErrInvalidRequest), errors.Is(err, ledger.ErrEmptyRoute),
		errors.Is(err, ledger.ErrRouteNotContiguous):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}

func toFlight(f *network.FlightRecord) models.Flight {
	return models.Flight{
		ID:              f.ID.String(),
		Origin:          f.Source,
		Destination:     f.Destination,
		Cost:            f.Cost,
		DurationMinutes: f.DurationMinutes,
		TotalSeats:      f.TotalSeats,
		AvailableSeats:  f.SeatsAvailable(),
		WaitlistLength:  f.WaitlistLen(),
	}
}

// ToBooking converts a ledger booking into its wire form.
func ToBooking(b *ledger.Booking) *models.Booking {
	out := &models.Booking{
		Reference:      b.Reference.String(),
		CustomerID:     b.CustomerID,
		RequestedSeats: b.RequestedSeats,
		Legs:           make([]models.LegStatus, 0, len(b.Legs)),
		Summary:        string(b.Summary),
		Status:         models.BookingStatusActive,
		CreatedAt:      b.CreatedAt,
		CancelledAt:    b.CancelledAt,
	}
	if b.Cancelled() {
		out.Status = models.BookingStatusCancelled
	}
	for _, leg := range b.Legs {
		out.Legs = append(out.Legs, ToLegStatus(leg))
	}
	return out
}

// ToLegStatus converts one leg outcome into its wire form.
func ToLegStatus(leg ledger.LegOutcome) models.LegStatus {
	return models.LegStatus{
		FlightID:        leg.FlightID.String(),
		Origin:          leg.Source,
		Destination:     leg.Destination,
		SeatsBooked:     leg.SeatsBooked,
		SeatsWaitlisted: leg.SeatsWaitlisted,
		Status:          string(leg.Status),
	}
}
