package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"travel-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingCreatedMessage(t *testing.T) kafka.Message {
	t.Helper()
	event := &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeBookingCreated,
			Timestamp: time.Now(),
		},
		BookingID:   "b-1",
		Email:       "guest@example.com",
		Destination: "Gondar",
		Details:     "Booking ID: b-1",
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte("booking-b-1"), Value: value}
}

func TestHandleMessageRoutesBookingCreated(t *testing.T) {
	handler := NewEventHandler()

	var got *models.BookingCreatedEvent
	handler.OnBookingCreated(func(_ context.Context, event *models.BookingCreatedEvent) error {
		got = event
		return nil
	})

	err := handler.HandleMessage(context.Background(), bookingCreatedMessage(t))
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "b-1", got.BookingID)
	assert.Equal(t, "guest@example.com", got.Email)
	assert.Equal(t, "Gondar", got.Destination)
}

func TestHandleMessageUnregisteredType(t *testing.T) {
	handler := NewEventHandler()

	// No handler registered: the message is dropped without error so
	// the consumer commits it.
	err := handler.HandleMessage(context.Background(), bookingCreatedMessage(t))
	assert.NoError(t, err)
}

func TestHandleMessageMalformed(t *testing.T) {
	handler := NewEventHandler()

	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestHandleMessageUnknownType(t *testing.T) {
	handler := NewEventHandler()
	handler.OnBookingCreated(func(_ context.Context, _ *models.BookingCreatedEvent) error {
		t.Fatal("handler must not fire for unknown event types")
		return nil
	})

	msg := kafka.Message{Value: []byte(`{"event_id":"evt-2","event_type":"SOMETHING_ELSE"}`)}
	err := handler.HandleMessage(context.Background(), msg)
	assert.NoError(t, err)
}

func TestHandleMessageRoutesBookingConfirmed(t *testing.T) {
	handler := NewEventHandler()

	var got *models.BookingConfirmedEvent
	handler.OnBookingConfirmed(func(_ context.Context, event *models.BookingConfirmedEvent) error {
		got = event
		return nil
	})

	event := &models.BookingConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-3",
			EventType: models.EventTypeBookingConfirmed,
			Timestamp: time.Now(),
		},
		BookingID: "b-1",
		PaymentID: "p-1",
		TxRef:     "CHAPA-ab12cd34ef",
		Email:     "guest@example.com",
		Details:   "Transaction: CHAPA-ab12cd34ef",
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)

	err = handler.HandleMessage(context.Background(), kafka.Message{Key: []byte("booking-b-1"), Value: value})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "p-1", got.PaymentID)
	assert.Equal(t, "guest@example.com", got.Email)
	assert.Equal(t, "CHAPA-ab12cd34ef", got.TxRef)
}
