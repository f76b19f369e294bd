package store

import (
	"context"
	"database/sql"

	"travel-service/internal/models"
)

// CreatePayment creates a new payment record
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (payment_id, booking_id, user_id, amount, tx_ref, chapa_tx_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return s.db.GetContext(ctx, payment, query,
		payment.PaymentID, payment.BookingID, payment.UserID,
		payment.Amount, payment.TxRef, payment.ChapaTxRef, payment.Status)
}

// GetPaymentByTxRef retrieves a payment by its local transaction
// reference. Returns nil without error on a miss.
func (s *Store) GetPaymentByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment,
		"SELECT * FROM payments WHERE tx_ref = $1", txRef)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentsByBookingID retrieves payment attempts for a booking,
// newest first. Multiple attempts per booking are allowed.
func (s *Store) GetPaymentsByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE booking_id = $1 ORDER BY created_at DESC", bookingID)
	return payments, err
}

// UpdatePaymentStatus updates payment status
func (s *Store) UpdatePaymentStatus(ctx context.Context, paymentID, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE payments SET status = $1, updated_at = NOW() WHERE payment_id = $2",
		status, paymentID)
	return err
}
