package worker

import (
	"context"
	"log"
	"time"

	"travel-service/internal/broker"
	"travel-service/internal/models"
	"travel-service/internal/util"
)

// Mailer is the email surface the worker needs. mailer.Mailer
// satisfies it; tests substitute a stub.
type Mailer interface {
	SendBookingConfirmation(to, details string) (string, error)
	SendPaymentConfirmation(to, details string) (string, error)
}

// NotificationWorker consumes booking events and sends confirmation
// emails. It runs outside the request path; delivery retries come
// from the broker redelivering uncommitted messages.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	mailer       Mailer
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, m Mailer) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		mailer:   m,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnBookingCreated(w.handleBookingCreated)
	eventHandler.OnBookingConfirmed(w.handleBookingConfirmed)
	w.eventHandler = eventHandler

	return w
}

// handleBookingCreated sends one confirmation email. A transport
// error is returned so the message stays uncommitted; it is never
// swallowed.
func (w *NotificationWorker) handleBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error {
	start := time.Now()
	confirmation, err := w.mailer.SendBookingConfirmation(event.Email, event.Details)
	util.NotificationSendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.NotificationSendFailedTotal.Inc()
		log.Printf("Failed to send confirmation for booking %s: %v", event.BookingID, err)
		return err
	}

	log.Printf("Booking %s: %s", event.BookingID, confirmation)
	return nil
}

// handleBookingConfirmed sends the payment confirmation email.
func (w *NotificationWorker) handleBookingConfirmed(ctx context.Context, event *models.BookingConfirmedEvent) error {
	start := time.Now()
	confirmation, err := w.mailer.SendPaymentConfirmation(event.Email, event.Details)
	util.NotificationSendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.NotificationSendFailedTotal.Inc()
		log.Printf("Failed to send payment confirmation for booking %s: %v", event.BookingID, err)
		return err
	}

	log.Printf("Booking %s: %s", event.BookingID, confirmation)
	return nil
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}
