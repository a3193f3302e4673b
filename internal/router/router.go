package router

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/cx-tal-miterani/airline-reservation/internal/handlers"
	"github.com/cx-tal-miterani/airline-reservation/internal/websocket"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, hub *websocket.Hub, limiter *RateLimiter) http.Handler {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)

	// Health check
	r.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	if limiter != nil {
		api.Use(limiter.Limit)
	}

	// Network
	api.HandleFunc("/cities", h.GetCities).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}/cancel-seat", h.CancelSeat).Methods(http.MethodPost)

	// Routes
	api.HandleFunc("/routes", h.PlanRoute).Methods(http.MethodGet)

	// Bookings
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{ref}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{ref}", h.CancelBooking).Methods(http.MethodDelete)

	// WebSocket for seat events
	if hub != nil {
		api.HandleFunc("/flights/{id}/ws", hub.HandleWebSocket).Methods(http.MethodGet)
	}

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s (%v)", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}
