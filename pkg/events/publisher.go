package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

// Define event types
const (
	EventProbeCalled      EventType = "PROBE_CALLED"
	EventConnectionClosed EventType = "CONNECTION_CLOSED"

	// EventAll subscribes a handler to every event type
	EventAll EventType = "*"
)

// Event represents an event in the system
type Event struct {
	ID         uuid.UUID
	Type       EventType
	Route      string // Optional, empty for non-probe events
	OccurredAt time.Time
	Payload    interface{}
}

// Handler is a function that processes events
type Handler func(event Event)

// Publisher is the central event publisher
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
}

// NewPublisher creates a new event publisher
func NewPublisher() *Publisher {
	return &Publisher{
		subscribers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (p *Publisher) Subscribe(eventType EventType, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[eventType] = append(p.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (p *Publisher) SubscribeAll(handler Handler) {
	p.Subscribe(EventAll, handler)
}

// Publish broadcasts an event to its subscribers and to the "all events" handlers.
// Handlers run concurrently and Publish does not wait for them.
func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	p.mu.RLock()
	handlers := p.subscribers[event.Type]
	allHandlers := p.subscribers[EventAll]
	p.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}

	for _, handler := range allHandlers {
		go handler(event)
	}
}
