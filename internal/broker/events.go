package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"travel-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishBookingCreated publishes BookingCreated event
func (ep *EventPublisher) PublishBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error {
	key := fmt.Sprintf("booking-%s", event.BookingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishBookingConfirmed publishes BookingConfirmed event
func (ep *EventPublisher) PublishBookingConfirmed(ctx context.Context, event *models.BookingConfirmedEvent) error {
	key := fmt.Sprintf("booking-%s", event.BookingID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onBookingCreated   func(context.Context, *models.BookingCreatedEvent) error
	onBookingConfirmed func(context.Context, *models.BookingConfirmedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnBookingCreated registers a handler for BookingCreated events
func (eh *EventHandler) OnBookingCreated(handler func(context.Context, *models.BookingCreatedEvent) error) {
	eh.onBookingCreated = handler
}

// OnBookingConfirmed registers a handler for BookingConfirmed events
func (eh *EventHandler) OnBookingConfirmed(handler func(context.Context, *models.BookingConfirmedEvent) error) {
	eh.onBookingConfirmed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeBookingCreated:
		if eh.onBookingCreated != nil {
			var event models.BookingCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BookingCreated event: %w", err)
			}
			return eh.onBookingCreated(ctx, &event)
		}

	case models.EventTypeBookingConfirmed:
		if eh.onBookingConfirmed != nil {
			var event models.BookingConfirmedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BookingConfirmed event: %w", err)
			}
			return eh.onBookingConfirmed(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
