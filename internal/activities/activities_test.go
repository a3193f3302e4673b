package activities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/cx-tal-miterani/airline-reservation/internal/ledger"
	"github.com/cx-tal-miterani/airline-reservation/internal/network"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

type ActivitiesTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env    *testsuite.TestActivityEnvironment
	graph  *network.Graph
	ledger *ledger.Ledger
	small  *network.FlightRecord
	large  *network.FlightRecord
}

func (s *ActivitiesTestSuite) SetupTest() {
	s.graph = network.NewGraph()
	s.ledger = ledger.New()

	var err error
	s.large, err = s.graph.AddFlight("Paris", "Dubai", 550, 390, 10)
	s.Require().NoError(err)
	s.small, err = s.graph.AddFlight("Dubai", "Tokyo", 100, 600, 1)
	s.Require().NoError(err)

	s.env = s.NewTestActivityEnvironment()
	s.env.RegisterActivity(NewActivities(s.graph, s.ledger))
}

func TestActivitiesTestSuite(t *testing.T) {
	suite.Run(t, new(ActivitiesTestSuite))
}

func (s *ActivitiesTestSuite) open(customer string, seats int) string {
	val, err := s.env.ExecuteActivity(OpenBookingName, models.OpenBookingInput{CustomerID: customer, Seats: seats})
	s.Require().NoError(err)

	var res models.OpenBookingResult
	s.Require().NoError(val.Get(&res))
	return res.BookingReference
}

func (s *ActivitiesTestSuite) reserve(ref string, f *network.FlightRecord) models.LegStatus {
	val, err := s.env.ExecuteActivity(ReserveLegName, models.ReserveLegInput{BookingReference: ref, FlightID: f.ID.String()})
	s.Require().NoError(err)

	var res models.ReserveLegResult
	s.Require().NoError(val.Get(&res))
	return res.Leg
}

func (s *ActivitiesTestSuite) TestOpenBooking_Rejected() {
	_, err := s.env.ExecuteActivity(OpenBookingName, models.OpenBookingInput{CustomerID: "", Seats: 1})
	s.Error(err)

	_, err = s.env.ExecuteActivity(OpenBookingName, models.OpenBookingInput{CustomerID: "alice", Seats: 0})
	s.Error(err)
}

func (s *ActivitiesTestSuite) TestReserveLeg_BookedAndWaitlisted() {
	ref := s.open("alice", 2)

	first := s.reserve(ref, s.large)
	s.Equal("booked", first.Status)
	s.Equal(2, first.SeatsBooked)

	second := s.reserve(ref, s.small)
	s.Equal("waitlisted", second.Status)
	s.Equal(1, second.SeatsBooked)
	s.Equal(1, second.SeatsWaitlisted)

	val, err := s.env.ExecuteActivity(GetBookingName, ref)
	s.Require().NoError(err)
	var booking models.Booking
	s.Require().NoError(val.Get(&booking))
	s.Equal("partially_waitlisted", booking.Summary)
	s.Len(booking.Legs, 2)
}

func (s *ActivitiesTestSuite) TestReserveLeg_UnknownFlight() {
	ref := s.open("alice", 1)

	_, err := s.env.ExecuteActivity(ReserveLegName, models.ReserveLegInput{
		BookingReference: ref,
		FlightID:         uuid.New().String(),
	})
	s.Error(err)
	s.Contains(err.Error(), "not found")
}

func (s *ActivitiesTestSuite) TestReserveLeg_UnknownBooking() {
	_, err := s.env.ExecuteActivity(ReserveLegName, models.ReserveLegInput{
		BookingReference: uuid.New().String(),
		FlightID:         s.large.ID.String(),
	})
	s.Error(err)
}

func (s *ActivitiesTestSuite) TestReleaseBooking_FreesSeatsAndIsIdempotent() {
	ref := s.open("alice", 3)
	s.reserve(ref, s.large)
	s.reserve(ref, s.small)
	s.Equal(7, s.large.SeatsAvailable())
	s.Equal(2, s.small.WaitlistLen())

	_, err := s.env.ExecuteActivity(ReleaseBookingName, ref)
	s.Require().NoError(err)
	s.Equal(10, s.large.SeatsAvailable())
	s.Equal(1, s.small.SeatsAvailable())
	s.Equal(0, s.small.WaitlistLen())

	_, err = s.env.ExecuteActivity(ReleaseBookingName, ref)
	s.NoError(err)
}

func (s *ActivitiesTestSuite) TestGetBooking_Malformed() {
	_, err := s.env.ExecuteActivity(GetBookingName, "nope")
	s.Error(err)
}
