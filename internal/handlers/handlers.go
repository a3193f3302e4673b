package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cx-tal-miterani/airline-reservation/internal/service"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	reservationService service.ReservationService
}

// NewHandler creates a new Handler instance
func NewHandler(reservationService service.ReservationService) *Handler {
	return &Handler{
		reservationService: reservationService,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// GetCities handles GET /api/cities
func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request) {
	cities := h.reservationService.Cities(r.Context())
	if cities == nil {
		cities = []string{}
	}
	respondJSON(w, http.StatusOK, cities)
}

// GetFlights handles GET /api/flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	flights := h.reservationService.GetFlights(r.Context())
	if flights == nil {
		flights = []*models.Flight{}
	}
	respondJSON(w, http.StatusOK, flights)
}

// CreateFlight handles POST /api/flights
func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	flight, err := h.reservationService.AddFlight(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, flight)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]
	flight, err := h.reservationService.GetFlight(r.Context(), flightID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// CancelSeat handles POST /api/flights/{id}/cancel-seat
func (h *Handler) CancelSeat(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]

	var req models.CancelSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BookingReference == "" {
		respondError(w, http.StatusBadRequest, "Booking reference is required")
		return
	}

	booking, err := h.reservationService.CancelSeat(r.Context(), flightID, req.BookingReference)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

// PlanRoute handles GET /api/routes?from=&to=&criterion=&available=
func (h *Handler) PlanRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		respondError(w, http.StatusBadRequest, "Both from and to are required")
		return
	}

	criterion := q.Get("criterion")
	if criterion == "" {
		criterion = "cost"
	}

	var seatsAvailable bool
	if v := q.Get("available"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "available must be a boolean")
			return
		}
		seatsAvailable = parsed
	}

	route, err := h.reservationService.PlanRoute(r.Context(), from, to, criterion, seatsAvailable)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, route)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate request
	if req.CustomerID == "" {
		respondError(w, http.StatusBadRequest, "Customer ID is required")
		return
	}
	if req.Seats < 1 {
		respondError(w, http.StatusBadRequest, "At least one seat is required")
		return
	}
	if len(req.FlightIDs) == 0 {
		respondError(w, http.StatusBadRequest, "Flight IDs are required")
		return
	}

	booking, err := h.reservationService.BookRoute(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/{ref}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]

	booking, err := h.reservationService.GetBooking(r.Context(), ref)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

// CancelBooking handles DELETE /api/bookings/{ref}
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]

	booking, err := h.reservationService.CancelBooking(r.Context(), ref)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
