package models

import "time"

// User is a registered account. User management is owned by another
// service; this one only reads users for booking ownership and
// payment payloads.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Listing represents a rentable property
type Listing struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Location      string    `db:"location" json:"location"`
	PricePerNight int64     `db:"price_per_night" json:"price_per_night"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Booking represents a reservation linking a user to a stay
type Booking struct {
	BookingID   string    `db:"booking_id" json:"booking_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	ListingID   int64     `db:"listing_id" json:"listing_id"`
	Destination string    `db:"destination" json:"destination"`
	Date        string    `db:"date" json:"date"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Payment is a local record of one gateway transaction attempt.
// TxRef is generated locally and correlates the record with the
// gateway; ChapaTxRef is assigned by the gateway on initialization.
type Payment struct {
	PaymentID  string    `db:"payment_id" json:"payment_id"`
	BookingID  string    `db:"booking_id" json:"booking_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Amount     int64     `db:"amount" json:"amount"`
	TxRef      string    `db:"tx_ref" json:"tx_ref"`
	ChapaTxRef string    `db:"chapa_tx_ref" json:"chapa_tx_ref,omitempty"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)
