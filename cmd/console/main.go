package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/airline-reservation/internal/config"
	"github.com/cx-tal-miterani/airline-reservation/internal/ledger"
	"github.com/cx-tal-miterani/airline-reservation/internal/network"
	"github.com/cx-tal-miterani/airline-reservation/internal/planner"
	"github.com/cx-tal-miterani/airline-reservation/internal/service"
)

func main() {
	cfg := config.Load()

	graph := network.NewGraph()
	if cfg.SeedSampleNetwork {
		if err := service.SeedSampleNetwork(graph); err != nil {
			log.Fatalf("Failed to seed sample network: %v", err)
		}
	}

	c := newConsole(os.Stdin, os.Stdout, graph, ledger.New())
	if err := c.run(); err != nil {
		log.Fatalf("Console failed: %v", err)
	}
}

// console is the interactive menu. The route found by the last search is kept
// in current and is what option 3 books.
type console struct {
	in      *bufio.Scanner
	out     io.Writer
	graph   *network.Graph
	ledger  *ledger.Ledger
	current planner.PathResult
}

func newConsole(in io.Reader, out io.Writer, g *network.Graph, l *ledger.Ledger) *console {
	return &console{
		in:     bufio.NewScanner(in),
		out:    out,
		graph:  g,
		ledger: l,
	}
}

func (c *console) run() error {
	for {
		fmt.Fprintln(c.out, "\nAirline Reservation System")
		fmt.Fprintln(c.out, "1. Add Flight")
		fmt.Fprintln(c.out, "2. Find Route")
		fmt.Fprintln(c.out, "3. Book Seats on Current Route")
		fmt.Fprintln(c.out, "4. Cancel a Seat")
		fmt.Fprintln(c.out, "5. List Flights")
		fmt.Fprintln(c.out, "6. Exit")

		choice, err := c.readInt("Choose an option: ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case 1:
			err = c.addFlight()
		case 2:
			err = c.findRoute()
		case 3:
			err = c.bookCurrentRoute()
		case 4:
			err = c.cancelSeat()
		case 5:
			c.listFlights()
		case 6:
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid option, try again.")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (c *console) addFlight() error {
	source, err := c.readLine("Source city: ")
	if err != nil {
		return err
	}
	destination, err := c.readLine("Destination city: ")
	if err != nil {
		return err
	}
	cost, err := c.readFloat("Cost: ")
	if err != nil {
		return err
	}
	duration, err := c.readInt("Duration (minutes): ")
	if err != nil {
		return err
	}
	seats, err := c.readInt("Total seats: ")
	if err != nil {
		return err
	}

	f, err := c.graph.AddFlight(source, destination, cost, duration, seats)
	if err != nil {
		fmt.Fprintf(c.out, "Flight rejected: %v\n", err)
		return nil
	}
	fmt.Fprintf(c.out, "Added flight %s (Cost: $%.2f, Duration: %d min, Seats: %d)\n",
		f, f.Cost, f.DurationMinutes, f.TotalSeats)
	return nil
}

func (c *console) findRoute() error {
	start, err := c.readLine("Start city: ")
	if err != nil {
		return err
	}
	end, err := c.readLine("Destination city: ")
	if err != nil {
		return err
	}
	criterion, err := c.readCriterion()
	if err != nil {
		return err
	}

	res, err := planner.PlanRoute(c.graph, start, end, criterion)
	if err != nil {
		fmt.Fprintf(c.out, "Route search failed: %v\n", err)
		return nil
	}
	c.current = res

	if !res.Found() {
		fmt.Fprintf(c.out, "No route found from %s to %s.\n", start, end)
		return nil
	}

	fmt.Fprintf(c.out, "Best route by %s:\n", criterion)
	for i, f := range res.Flights {
		fmt.Fprintf(c.out, "  %d. %s (Cost: $%.2f, Duration: %d min)\n", i+1, f, f.Cost, f.DurationMinutes)
	}
	fmt.Fprintf(c.out, "Total cost: $%.2f, total duration: %d min\n", res.TotalCost(), res.TotalDuration())
	return nil
}

func (c *console) bookCurrentRoute() error {
	if !c.current.Found() {
		fmt.Fprintln(c.out, "No current route. Find a route first.")
		return nil
	}

	customer, err := c.readLine("Customer ID: ")
	if err != nil {
		return err
	}
	seats, err := c.readInt("Number of seats: ")
	if err != nil {
		return err
	}

	b, err := c.ledger.BookAlongRoute(c.current.Flights, customer, seats)
	if err != nil {
		fmt.Fprintf(c.out, "Booking rejected: %v\n", err)
		return nil
	}

	fmt.Fprintf(c.out, "Booking reference: %s\n", b.Reference)
	for _, leg := range b.Legs {
		fmt.Fprintf(c.out, "  %s -> %s: %d booked, %d waitlisted (%s)\n",
			leg.Source, leg.Destination, leg.SeatsBooked, leg.SeatsWaitlisted, leg.Status)
	}
	fmt.Fprintf(c.out, "Status: %s\n", b.Summary)
	return nil
}

func (c *console) cancelSeat() error {
	raw, err := c.readLine("Booking reference: ")
	if err != nil {
		return err
	}
	ref, err := uuid.Parse(raw)
	if err != nil {
		fmt.Fprintln(c.out, "Malformed booking reference.")
		return nil
	}
	b, err := c.ledger.Booking(ref)
	if err != nil {
		fmt.Fprintf(c.out, "Cannot cancel: %v\n", err)
		return nil
	}

	for i, leg := range b.Legs {
		fmt.Fprintf(c.out, "  %d. %s -> %s (%d booked)\n", i+1, leg.Source, leg.Destination, leg.SeatsBooked)
	}
	n, err := c.readInt("Leg: ")
	if err != nil {
		return err
	}
	if n < 1 || n > len(b.Legs) {
		fmt.Fprintln(c.out, "Invalid leg.")
		return nil
	}

	updated, err := c.ledger.CancelSeat(ref, b.Legs[n-1].FlightID)
	if err != nil {
		fmt.Fprintf(c.out, "Cannot cancel: %v\n", err)
		return nil
	}
	leg := updated.Legs[n-1]
	fmt.Fprintf(c.out, "Seat released on %s -> %s, %d seat(s) still booked\n", leg.Source, leg.Destination, leg.SeatsBooked)
	return nil
}

func (c *console) listFlights() {
	flights := c.graph.Flights()
	if len(flights) == 0 {
		fmt.Fprintln(c.out, "No flights.")
		return
	}
	for _, f := range flights {
		fmt.Fprintf(c.out, "  %s (Cost: $%.2f, Duration: %d min, Seats: %d/%d, Waitlist: %d)\n",
			f, f.Cost, f.DurationMinutes, f.SeatsAvailable(), f.TotalSeats, f.WaitlistLen())
	}
}

// readCriterion prompts until the answer is "cost" or "duration".
func (c *console) readCriterion() (planner.Criterion, error) {
	for {
		s, err := c.readLine("Optimize by (cost/duration): ")
		if err != nil {
			return "", err
		}
		criterion, err := planner.ParseCriterion(s)
		if err == nil {
			return criterion, nil
		}
		fmt.Fprintln(c.out, "Please enter 'cost' or 'duration'.")
	}
}

func (c *console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *console) readInt(prompt string) (int, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(c.out, "Please enter a whole number.")
	}
}

func (c *console) readFloat(prompt string) (float64, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(c.out, "Please enter a number.")
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
