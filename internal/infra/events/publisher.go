package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/port/outbound"
)

const publishTimeout = 5 * time.Second

// MessageHandler forwards events to a message broker topic, keyed by order.
type MessageHandler struct {
	broker     outbound.MessagePort
	topic      string
	eventTypes []string
}

// NewMessageHandler creates a handler publishing eventTypes to topic.
func NewMessageHandler(broker outbound.MessagePort, topic string, eventTypes ...string) *MessageHandler {
	return &MessageHandler{
		broker:     broker,
		topic:      topic,
		eventTypes: eventTypes,
	}
}

func (h *MessageHandler) Handles() []string { return h.eventTypes }

func (h *MessageHandler) Handle(event Event) error {
	body, err := json.Marshal(Envelope{
		ID:        event.EventID(),
		Type:      event.EventType(),
		Timestamp: event.OccurredAt(),
		OrderID:   event.AggregateID(),
		Data:      event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return h.broker.Publish(ctx, h.topic, event.AggregateID().String(), body)
}
