package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the interface that all checkout domain events implement.
type Event interface {
	// EventID returns the unique identifier for this event instance.
	EventID() uuid.UUID

	// EventType returns the hook-style name of the event
	// (e.g. "cynder_paymongo_successful_payment").
	EventType() string

	OccurredAt() time.Time

	// AggregateID returns the ID of the order that produced this event.
	AggregateID() uuid.UUID

	// Payload returns the event body published to sinks.
	Payload() any
}

// Envelope is the generic Event implementation used by the checkout domain.
type Envelope struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	OrderID   uuid.UUID `json:"order_id"`
	Data      any       `json:"data"`
}

func (e Envelope) EventID() uuid.UUID     { return e.ID }
func (e Envelope) EventType() string      { return e.Type }
func (e Envelope) OccurredAt() time.Time  { return e.Timestamp }
func (e Envelope) AggregateID() uuid.UUID { return e.OrderID }
func (e Envelope) Payload() any           { return e.Data }

// NewEnvelope wraps data as an event of the given type for orderID.
func NewEnvelope(eventType string, orderID uuid.UUID, data any) Envelope {
	return Envelope{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		OrderID:   orderID,
		Data:      data,
	}
}

// Handler processes events of the types it declares.
type Handler interface {
	Handles() []string

	// Handle processes the given event. Handlers must tolerate redelivery.
	Handle(event Event) error
}

// HandlerFunc adapts a function to Handler for a fixed set of event types.
type HandlerFunc struct {
	eventTypes []string
	fn         func(Event) error
}

// NewHandlerFunc creates a new HandlerFunc.
func NewHandlerFunc(eventTypes []string, fn func(Event) error) *HandlerFunc {
	return &HandlerFunc{
		eventTypes: eventTypes,
		fn:         fn,
	}
}

func (h *HandlerFunc) Handles() []string { return h.eventTypes }

func (h *HandlerFunc) Handle(event Event) error { return h.fn(event) }
