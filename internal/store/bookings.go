package store

import (
	"context"
	"database/sql"

	"travel-service/internal/models"
)

// CreateBooking creates a new booking
func (s *Store) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (booking_id, user_id, listing_id, destination, date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return s.db.GetContext(ctx, booking, query,
		booking.BookingID, booking.UserID, booking.ListingID,
		booking.Destination, booking.Date, booking.Status)
}

// GetBookingByIDAndUser retrieves a booking only if it belongs to the
// given user. Returns nil without error on a miss so callers can map
// it to their own not-found handling.
func (s *Store) GetBookingByIDAndUser(ctx context.Context, bookingID string, userID int64) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.GetContext(ctx, &booking,
		"SELECT * FROM bookings WHERE booking_id = $1 AND user_id = $2", bookingID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingsByUserID retrieves bookings for a user, newest first
func (s *Store) GetBookingsByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.SelectContext(ctx, &bookings,
		"SELECT * FROM bookings WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return bookings, err
}

// UpdateBooking updates user-editable booking fields
func (s *Store) UpdateBooking(ctx context.Context, booking *models.Booking) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		 SET destination = $1, date = $2, updated_at = NOW()
		 WHERE booking_id = $3 AND user_id = $4`,
		booking.Destination, booking.Date, booking.BookingID, booking.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateBookingStatus updates booking status
func (s *Store) UpdateBookingStatus(ctx context.Context, bookingID, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE bookings SET status = $1, updated_at = NOW() WHERE booking_id = $2",
		status, bookingID)
	return err
}

// DeleteBooking deletes a booking owned by the given user
func (s *Store) DeleteBooking(ctx context.Context, bookingID string, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM bookings WHERE booking_id = $1 AND user_id = $2", bookingID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
