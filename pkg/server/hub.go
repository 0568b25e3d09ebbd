package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/tecu23/probe-server/pkg/events"
	"github.com/tecu23/probe-server/pkg/messages"
)

// Hub keeps track of all active websocket connections and fans probe events out to them.
// Registration, unregistration and broadcasts are serialized through Run.
type Hub struct {
	mu          sync.RWMutex         // Mutex to protect direct access to the connections map.
	connections map[*Connection]bool // Registered connections

	register   chan *Connection // Incoming registration
	unregister chan *Connection // Incoming unregistration
	broadcast  chan []byte      // Channel to broadcast to everyone

	done     chan struct{}
	stopOnce sync.Once

	logger *zap.Logger
}

// NewHub creates a new hub and subscribes it to probe events
func NewHub(publisher *events.Publisher, logger *zap.Logger) *Hub {
	h := &Hub{
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan []byte, 64),
		done:        make(chan struct{}),
		logger:      logger,
	}

	if publisher != nil {
		publisher.Subscribe(events.EventProbeCalled, func(event events.Event) {
			h.Broadcast(messages.OutboundMessage{
				Event:   messages.EventProbeCalled,
				Payload: event.Payload,
			})
		})
	}

	return h
}

// Run is the main execution of the hub. It returns after Shutdown.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.registerConnection(conn)

		case conn := <-h.unregister:
			h.unregisterConnection(conn)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Register adds a connection to the hub
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.send)
	}
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast sends msg to every registered connection
func (h *Hub) Broadcast(msg messages.OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error marshaling JSON", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Count returns the number of registered connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Shutdown stops Run and closes every connection
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()
	h.connections[conn] = true
	count := len(h.connections)
	h.mu.Unlock()

	h.logger.Info("New connection registered",
		zap.String("connection_id", conn.ID.String()),
		zap.Int("connections", count),
	)

	conn.SendJSON(messages.OutboundMessage{
		Event: messages.EventConnected,
		Payload: messages.ConnectedPayload{
			ConnectionID: conn.ID.String(),
		},
	})
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[conn]; ok {
		delete(h.connections, conn)
		close(conn.send)
		h.logger.Info("Connection unregistered",
			zap.String("connection_id", conn.ID.String()),
			zap.Int("connections", len(h.connections)),
		)
	}
}

func (h *Hub) broadcastMessage(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections {
		conn.enqueue(msg)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		delete(h.connections, conn)
		close(conn.send)
	}

	h.logger.Info("Hub shut down")
}
