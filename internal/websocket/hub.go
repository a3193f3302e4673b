package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cx-tal-miterani/airline-reservation/internal/ledger"
	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

// Client represents a WebSocket client connection
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	flightID uuid.UUID
}

// Hub manages WebSocket connections per flight and implements ledger.Notifier
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *models.SeatEvent
	done       chan struct{}
	mu         sync.RWMutex
}

var _ ledger.Notifier = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *models.SeatEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.flightID] == nil {
				h.clients[client.flightID] = make(map[*Client]bool)
			}
			h.clients[client.flightID][client] = true
			log.Printf("WebSocket: Client registered for flight %s (total: %d)", client.flightID, len(h.clients[client.flightID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			flightID, err := uuid.Parse(event.FlightID)
			if err != nil {
				log.Printf("WebSocket: Invalid flight ID in broadcast: %s", event.FlightID)
				continue
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("WebSocket: Failed to marshal event: %v", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients[flightID] {
				select {
				case client.send <- data:
				default:
					// Slow consumer.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops a client; h.mu must be held
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.flightID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	log.Printf("WebSocket: Client unregistered from flight %s (remaining: %d)", client.flightID, len(clients))
	if len(clients) == 0 {
		delete(h.clients, client.flightID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.remove(client)
		}
	}
}

// Notify queues a seat event for the flight's subscribers. Events are dropped
// when the queue is full so seat operations never wait on websocket clients.
func (h *Hub) Notify(e ledger.Event) {
	event := &models.SeatEvent{
		Type:             string(e.Type),
		FlightID:         e.FlightID.String(),
		BookingReference: e.Reference.String(),
		CustomerID:       e.CustomerID,
		AvailableSeats:   e.SeatsAvailable,
		WaitlistLength:   e.WaitlistLen,
		Timestamp:        e.Timestamp,
	}

	select {
	case h.broadcast <- event:
	default:
		log.Printf("WebSocket: Broadcast queue full, dropping %s for flight %s", event.Type, event.FlightID)
	}
}

// GetClientCount returns the number of clients watching a flight
func (h *Hub) GetClientCount(flightID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[flightID])
}
