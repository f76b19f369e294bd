package models

import "time"

// Event types
const (
	EventTypeBookingCreated   = "BOOKING_CREATED"
	EventTypeBookingConfirmed = "BOOKING_CONFIRMED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCreatedEvent is published after a booking row is durable.
// Email is the notification recipient; enqueue is skipped entirely
// when the user has no email on file. Details is the pre-formatted
// body for the confirmation mail.
type BookingCreatedEvent struct {
	BaseEvent
	BookingID   string `json:"booking_id"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	Details     string `json:"details"`
}

// BookingConfirmedEvent is published when payment verification
// confirms a booking. Like BookingCreatedEvent it carries the
// recipient and a pre-formatted details block; it is not published
// when the user has no email on file.
type BookingConfirmedEvent struct {
	BaseEvent
	BookingID string `json:"booking_id"`
	PaymentID string `json:"payment_id"`
	TxRef     string `json:"tx_ref"`
	Email     string `json:"email"`
	Details   string `json:"details"`
}
