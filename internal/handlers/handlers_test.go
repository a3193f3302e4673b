package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/airline-reservation/internal/service"
	"github.com/cx-tal-miterani/airline-reservation/internal/service/mocks"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", HealthCheck).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cities", h.GetCities).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}/cancel-seat", h.CancelSeat).Methods(http.MethodPost)
	api.HandleFunc("/routes", h.PlanRoute).Methods(http.MethodGet)
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{ref}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{ref}", h.CancelBooking).Methods(http.MethodDelete)
	return r
}

func TestHandler_HealthCheck(t *testing.T) {
	router := setupTestRouter(NewHandler(new(mocks.MockReservationService)))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHandler_GetCities(t *testing.T) {
	mockService := new(mocks.MockReservationService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("Cities", mock.Anything).Return([]string{"London", "Paris"})

	req := httptest.NewRequest(http.MethodGet, "/api/cities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["London","Paris"]`, rec.Body.String())
	mockService.AssertExpectations(t)
}

func TestHandler_GetFlights(t *testing.T) {
	mockService := new(mocks.MockReservationService)
	router := setupTestRouter(NewHandler(mockService))

	flightID := uuid.New().String()
	expectedFlights := []*models.Flight{
		{
			ID:              flightID,
			Origin:          "New York",
			Destination:     "Paris",
			Cost:            450,
			DurationMinutes: 450,
			TotalSeats:      180,
			AvailableSeats:  180,
		},
	}

	mockService.On("GetFlights", mock.Anything).Return(expectedFlights)

	req := httptest.NewRequest(http.MethodGet, "/api/flights", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []models.Flight
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, flightID, response[0].ID)

	mockService.AssertExpectations(t)
}

func TestHandler_GetFlight(t *testing.T) {
	flightID := uuid.New().String()

	tests := []struct {
		name           string
		flightID       string
		mockReturn     *models.FlightDetail
		mockError      error
		expectedStatus int
	}{
		{
			name:     "flight found",
			flightID: flightID,
			mockReturn: &models.FlightDetail{
				Flight: models.Flight{ID: flightID, Origin: "Paris", Destination: "Tokyo"},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "flight not found",
			flightID:       uuid.New().String(),
			mockError:      fmt.Errorf("%w: flight", service.ErrNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			flightID:       "not-a-uuid",
			mockError:      fmt.Errorf("%w: malformed id", service.ErrInvalidInput),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockReservationService)
			router := setupTestRouter(NewHandler(mockService))

			mockService.On("GetFlight", mock.Anything, tt.flightID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/flights/"+tt.flightID, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CreateFlight(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockReturn     *models.Flight
		mockError      error
		callsService   bool
		expectedStatus int
	}{
		{
			name:           "created",
			body:           `{"origin":"Paris","destination":"Rome","cost":120,"durationMinutes":130,"totalSeats":90}`,
			mockReturn:     &models.Flight{ID: uuid.New().String(), Origin: "Paris", Destination: "Rome"},
			callsService:   true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "rejected by validation",
			body:           `{"origin":"Paris","destination":"Rome","cost":0,"durationMinutes":130,"totalSeats":90}`,
			mockError:      fmt.Errorf("%w: cost must be positive", service.ErrInvalidInput),
			callsService:   true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockReservationService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.callsService {
				mockService.On("AddFlight", mock.Anything, mock.AnythingOfType("*models.CreateFlightRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/flights", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_PlanRoute(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		criterion      string
		available      bool
		mockReturn     *models.Route
		mockError      error
		callsService   bool
		expectedStatus int
		expectedFound  bool
	}{
		{
			name:           "found by cost",
			query:          "from=Paris&to=Tokyo&criterion=cost",
			criterion:      "cost",
			mockReturn:     &models.Route{From: "Paris", To: "Tokyo", Found: true, Total: 700},
			callsService:   true,
			expectedStatus: http.StatusOK,
			expectedFound:  true,
		},
		{
			name:           "default criterion with seat filter",
			query:          "from=Paris&to=Tokyo&available=true",
			criterion:      "cost",
			available:      true,
			mockReturn:     &models.Route{From: "Paris", To: "Tokyo", Found: true},
			callsService:   true,
			expectedStatus: http.StatusOK,
			expectedFound:  true,
		},
		{
			name:           "no route is not an error",
			query:          "from=Tokyo&to=Nowhere&criterion=duration",
			criterion:      "duration",
			mockReturn:     &models.Route{From: "Tokyo", To: "Nowhere", Found: false},
			callsService:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown criterion",
			query:          "from=Paris&to=Tokyo&criterion=comfort",
			criterion:      "comfort",
			mockError:      fmt.Errorf("%w: unknown criterion", service.ErrInvalidInput),
			callsService:   true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing destination",
			query:          "from=Paris",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad available flag",
			query:          "from=Paris&to=Tokyo&available=maybe",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockReservationService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.callsService {
				mockService.On("PlanRoute", mock.Anything, mock.Anything, mock.Anything, tt.criterion, tt.available).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/routes?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var route models.Route
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&route))
				assert.Equal(t, tt.expectedFound, route.Found)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CreateBooking(t *testing.T) {
	ref := uuid.New().String()
	flightA, flightB := uuid.New().String(), uuid.New().String()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *models.Booking
		mockError      error
		callsService   bool
		expectedStatus int
	}{
		{
			name: "valid booking",
			requestBody: models.CreateBookingRequest{
				CustomerID: "alice",
				Seats:      2,
				FlightIDs:  []string{flightA, flightB},
			},
			mockReturn: &models.Booking{
				Reference: ref,
				Summary:   "fully_booked",
				Status:    models.BookingStatusActive,
			},
			callsService:   true,
			expectedStatus: http.StatusCreated,
		},
		{
			name: "route not contiguous",
			requestBody: models.CreateBookingRequest{
				CustomerID: "alice",
				Seats:      1,
				FlightIDs:  []string{flightA, flightB},
			},
			mockError:      fmt.Errorf("%w: route is not contiguous", service.ErrInvalidInput),
			callsService:   true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown flight",
			requestBody: models.CreateBookingRequest{
				CustomerID: "alice",
				Seats:      1,
				FlightIDs:  []string{flightA},
			},
			mockError:      fmt.Errorf("%w: flight", service.ErrNotFound),
			callsService:   true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing customer",
			requestBody:    models.CreateBookingRequest{Seats: 1, FlightIDs: []string{flightA}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero seats",
			requestBody:    models.CreateBookingRequest{CustomerID: "alice", FlightIDs: []string{flightA}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty route",
			requestBody:    models.CreateBookingRequest{CustomerID: "alice", Seats: 1},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockReservationService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.callsService {
				mockService.On("BookRoute", mock.Anything, mock.AnythingOfType("*models.CreateBookingRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetBooking(t *testing.T) {
	ref := uuid.New().String()

	mockService := new(mocks.MockReservationService)
	router := setupTestRouter(NewHandler(mockService))

	mockService.On("GetBooking", mock.Anything, ref).Return(&models.Booking{Reference: ref, CustomerID: "alice"}, nil)
	missing := uuid.New().String()
	mockService.On("GetBooking", mock.Anything, missing).Return(nil, fmt.Errorf("%w: booking", service.ErrNotFound))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+ref, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var booking models.Booking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&booking))
	assert.Equal(t, "alice", booking.CustomerID)

	req = httptest.NewRequest(http.MethodGet, "/api/bookings/"+missing, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_CancelBooking(t *testing.T) {
	ref := uuid.New().String()

	tests := []struct {
		name           string
		mockReturn     *models.Booking
		mockError      error
		expectedStatus int
	}{
		{
			name:           "cancelled",
			mockReturn:     &models.Booking{Reference: ref, Status: models.BookingStatusCancelled},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "already cancelled",
			mockError:      fmt.Errorf("%w: booking already cancelled", service.ErrConflict),
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockReservationService)
			router := setupTestRouter(NewHandler(mockService))

			mockService.On("CancelBooking", mock.Anything, ref).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodDelete, "/api/bookings/"+ref, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CancelSeat(t *testing.T) {
	flightID := uuid.New().String()
	ref := uuid.New().String()

	tests := []struct {
		name           string
		body           string
		mockReturn     *models.Booking
		mockError      error
		callsService   bool
		expectedStatus int
	}{
		{
			name:           "seat released",
			body:           fmt.Sprintf(`{"bookingReference":%q}`, ref),
			mockReturn:     &models.Booking{Reference: ref},
			callsService:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no seat held",
			body:           fmt.Sprintf(`{"bookingReference":%q}`, ref),
			mockError:      fmt.Errorf("%w: no seat", service.ErrConflict),
			callsService:   true,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unexpected failure",
			body:           fmt.Sprintf(`{"bookingReference":%q}`, ref),
			mockError:      assert.AnError,
			callsService:   true,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "missing reference",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockReservationService)
			router := setupTestRouter(NewHandler(mockService))

			if tt.callsService {
				mockService.On("CancelSeat", mock.Anything, flightID, ref).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/flights/"+flightID+"/cancel-seat", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
