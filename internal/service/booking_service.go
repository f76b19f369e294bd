package service

import (
	"context"
	"fmt"
	"time"

	"travel-service/internal/models"
	"travel-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationPublisher publishes booking events to the task queue
// boundary. broker.EventPublisher satisfies it; tests substitute a
// stub.
type NotificationPublisher interface {
	PublishBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error
}

// BookingStore is the persistence surface the booking service needs.
// store.Store satisfies it; tests substitute a stub.
type BookingStore interface {
	GetListingByID(ctx context.Context, id int64) (*models.Listing, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByIDAndUser(ctx context.Context, bookingID string, userID int64) (*models.Booking, error)
	GetBookingsByUserID(ctx context.Context, userID int64) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) (int64, error)
	DeleteBooking(ctx context.Context, bookingID string, userID int64) (int64, error)
}

// BookingService handles reservation logic
type BookingService struct {
	store     BookingStore
	publisher NotificationPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(store BookingStore, publisher NotificationPublisher) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateBookingRequest represents a request to create a booking
type CreateBookingRequest struct {
	ListingID   int64  `json:"listing_id" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Date        string `json:"date" binding:"required"`
}

// UpdateBookingRequest represents a request to update a booking
type UpdateBookingRequest struct {
	Destination string `json:"destination" binding:"required"`
	Date        string `json:"date" binding:"required"`
}

// CreateBooking persists a booking with status pending, then enqueues
// a confirmation notification. The enqueue is best-effort: a missing
// user email skips it silently, and a publish failure is logged
// without failing the request.
func (s *BookingService) CreateBooking(ctx context.Context, user *models.User, req *CreateBookingRequest) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.CreateBooking")
	defer span.End()

	listing, err := s.store.GetListingByID(ctx, req.ListingID)
	if err != nil {
		util.BookingsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to look up listing: %w", err)
	}
	if listing == nil {
		util.BookingsFailedTotal.WithLabelValues("listing_not_found").Inc()
		return nil, fmt.Errorf("listing %d: %w", req.ListingID, ErrNotFound)
	}

	booking := &models.Booking{
		BookingID:   uuid.New().String(),
		UserID:      user.ID,
		ListingID:   req.ListingID,
		Destination: req.Destination,
		Date:        req.Date,
		Status:      models.BookingStatusPending,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		util.BookingsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	util.BookingsCreatedTotal.Inc()
	s.logger.Info("Booking created",
		zap.String("booking_id", booking.BookingID),
		zap.Int64("user_id", user.ID))

	event, ok := buildBookingCreatedEvent(booking, user)
	if !ok {
		util.NotificationsSkippedTotal.Inc()
		s.logger.Info("No user email on file, skipping notification",
			zap.String("booking_id", booking.BookingID))
		return booking, nil
	}

	if err := s.publisher.PublishBookingCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish BookingCreated event",
			zap.String("booking_id", booking.BookingID),
			zap.Error(err))
	} else {
		util.NotificationsPublishedTotal.Inc()
	}

	return booking, nil
}

// buildBookingCreatedEvent assembles the notification event for a
// booking. Returns false when the user has no email, meaning no
// event should be enqueued.
func buildBookingCreatedEvent(booking *models.Booking, user *models.User) (*models.BookingCreatedEvent, bool) {
	if user.Email == "" {
		return nil, false
	}

	createdAt := booking.CreatedAt.Format("2006-01-02 15:04:05")

	return &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingCreated,
			Timestamp: time.Now(),
		},
		BookingID:   booking.BookingID,
		UserID:      booking.UserID,
		Email:       user.Email,
		Destination: booking.Destination,
		Date:        booking.Date,
		Status:      booking.Status,
		CreatedAt:   createdAt,
		Details:     formatBookingDetails(booking, createdAt),
	}, true
}

// formatBookingDetails renders the details block included in the
// confirmation email.
func formatBookingDetails(booking *models.Booking, createdAt string) string {
	return fmt.Sprintf(
		"Booking ID: %s\nDestination: %s\nDate: %s\nStatus: %s\nCreated at: %s",
		booking.BookingID, booking.Destination, booking.Date, booking.Status, createdAt)
}

// GetBooking retrieves a booking owned by the given user
func (s *BookingService) GetBooking(ctx context.Context, bookingID string, userID int64) (*models.Booking, error) {
	booking, err := s.store.GetBookingByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return booking, nil
}

// ListBookings retrieves the caller's bookings
func (s *BookingService) ListBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.store.GetBookingsByUserID(ctx, userID)
}

// UpdateBooking updates a booking's destination and date
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID string, userID int64, req *UpdateBookingRequest) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.UpdateBooking")
	defer span.End()

	booking := &models.Booking{
		BookingID:   bookingID,
		UserID:      userID,
		Destination: req.Destination,
		Date:        req.Date,
	}

	affected, err := s.store.UpdateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	return s.GetBooking(ctx, bookingID, userID)
}

// DeleteBooking deletes a booking owned by the given user
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID string, userID int64) error {
	ctx, span := util.StartSpan(ctx, "BookingService.DeleteBooking")
	defer span.End()

	affected, err := s.store.DeleteBooking(ctx, bookingID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return nil
}
