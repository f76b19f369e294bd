package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travel-service/internal/gateway"
	"travel-service/internal/models"
	"travel-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	txRefPrefix = "CHAPA-"
	txRefHexLen = 10

	// gatewaySuccessStatus is the gateway's completion sentinel.
	gatewaySuccessStatus = "success"
)

// PaymentGateway is the outbound payment provider surface.
// gateway.Client satisfies it; tests substitute a stub.
type PaymentGateway interface {
	Initialize(ctx context.Context, req *gateway.InitializeRequest) (*gateway.InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (string, error)
}

// ConfirmationPublisher publishes booking confirmation events.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event *models.BookingConfirmedEvent) error
}

// PaymentStore is the persistence surface the payment service needs.
// store.Store satisfies it; tests substitute a stub.
type PaymentStore interface {
	GetBookingByIDAndUser(ctx context.Context, bookingID string, userID int64) (*models.Booking, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByTxRef(ctx context.Context, txRef string) (*models.Payment, error)
	GetPaymentsByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID, status string) error
	UpdateBookingStatus(ctx context.Context, bookingID, status string) error
}

// PaymentService handles payment initiation and reconciliation
type PaymentService struct {
	store         PaymentStore
	gateway       PaymentGateway
	publisher     ConfirmationPublisher
	currency      string
	publicBaseURL string
	logger        *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	store PaymentStore,
	gw PaymentGateway,
	publisher ConfirmationPublisher,
	currency string,
	publicBaseURL string,
) *PaymentService {
	return &PaymentService{
		store:         store,
		gateway:       gw,
		publisher:     publisher,
		currency:      currency,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        util.GetLogger(),
	}
}

// InitiatePaymentRequest represents a payment initiation request
type InitiatePaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,min=1"`
}

// InitiatePaymentResponse represents the response after a successful
// initiation
type InitiatePaymentResponse struct {
	PaymentID   string `json:"payment_id"`
	CheckoutURL string `json:"checkout_url"`
	TxRef       string `json:"tx_ref"`
}

// newTxRef generates a fresh local transaction reference. Collisions
// across 10 hex chars of uuid entropy are negligible and not checked.
func newTxRef() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return txRefPrefix + hex[:txRefHexLen]
}

// verifyURL builds the callback/return URL the gateway redirects to
// after checkout.
func (s *PaymentService) verifyURL(txRef string) string {
	return fmt.Sprintf("%s/api/v1/payments/verify/%s", s.publicBaseURL, txRef)
}

// InitiatePayment starts a gateway transaction for a booking owned by
// the given user. Exactly one pending Payment row is created per
// successful initiation; a gateway failure creates nothing and is
// propagated to the caller. No retry is attempted.
func (s *PaymentService) InitiatePayment(ctx context.Context, user *models.User, req *InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.InitiatePayment")
	defer span.End()

	booking, err := s.store.GetBookingByIDAndUser(ctx, req.BookingID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}
	if booking == nil {
		util.PaymentsInitFailedTotal.WithLabelValues("booking_not_found").Inc()
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}

	txRef := newTxRef()

	firstName := user.FirstName
	if firstName == "" {
		firstName = "Guest"
	}
	lastName := user.LastName
	if lastName == "" {
		lastName = "User"
	}

	initReq := &gateway.InitializeRequest{
		Amount:                   strconv.FormatInt(req.Amount, 10),
		Currency:                 s.currency,
		Email:                    user.Email,
		FirstName:                firstName,
		LastName:                 lastName,
		TxRef:                    txRef,
		CallbackURL:              s.verifyURL(txRef),
		ReturnURL:                s.verifyURL(txRef),
		CustomizationTitle:       "Booking Payment",
		CustomizationDescription: "Payment for property booking",
	}

	start := time.Now()
	initResp, err := s.gateway.Initialize(ctx, initReq)
	util.GatewayRequestLatency.WithLabelValues("initialize").Observe(time.Since(start).Seconds())
	if err != nil {
		util.PaymentsInitFailedTotal.WithLabelValues("gateway_error").Inc()
		s.logger.Warn("Gateway initialization failed",
			zap.String("booking_id", req.BookingID),
			zap.String("tx_ref", txRef),
			zap.Error(err))
		return nil, err
	}

	payment := &models.Payment{
		PaymentID:  uuid.New().String(),
		BookingID:  booking.BookingID,
		UserID:     user.ID,
		Amount:     req.Amount,
		TxRef:      txRef,
		ChapaTxRef: initResp.TxRef,
		Status:     models.PaymentStatusPending,
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		util.PaymentsInitFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	util.PaymentsInitiatedTotal.Inc()
	s.logger.Info("Payment initiated",
		zap.String("payment_id", payment.PaymentID),
		zap.String("booking_id", booking.BookingID),
		zap.String("tx_ref", txRef))

	return &InitiatePaymentResponse{
		PaymentID:   payment.PaymentID,
		CheckoutURL: initResp.CheckoutURL,
		TxRef:       txRef,
	}, nil
}

// reconcileStatus maps a gateway-reported status to the local payment
// status and whether the booking is confirmed.
func reconcileStatus(gatewayStatus string) (string, bool) {
	if gatewayStatus == gatewaySuccessStatus {
		return models.PaymentStatusCompleted, true
	}
	return models.PaymentStatusFailed, false
}

// VerifyPayment reconciles a payment against the gateway. Terminal
// payments are returned as stored without another gateway call;
// re-verification must not flip a settled outcome.
func (s *PaymentService) VerifyPayment(ctx context.Context, txRef string) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.VerifyPayment")
	defer span.End()

	payment, err := s.store.GetPaymentByTxRef(ctx, txRef)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", txRef, ErrNotFound)
	}

	if payment.Status != models.PaymentStatusPending {
		s.logger.Info("Payment already settled, skipping re-verification",
			zap.String("tx_ref", txRef),
			zap.String("status", payment.Status))
		return payment, nil
	}

	start := time.Now()
	gatewayStatus, err := s.gateway.Verify(ctx, txRef)
	util.GatewayRequestLatency.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn("Gateway verification failed",
			zap.String("tx_ref", txRef),
			zap.Error(err))
		return nil, err
	}

	newStatus, confirmed := reconcileStatus(gatewayStatus)

	if err := s.store.UpdatePaymentStatus(ctx, payment.PaymentID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	payment.Status = newStatus

	if confirmed {
		if err := s.store.UpdateBookingStatus(ctx, payment.BookingID, models.BookingStatusConfirmed); err != nil {
			return nil, fmt.Errorf("failed to confirm booking: %w", err)
		}

		util.PaymentsVerifiedTotal.WithLabelValues("completed").Inc()
		util.BookingsConfirmedTotal.Inc()
		s.logger.Info("Payment completed, booking confirmed",
			zap.String("tx_ref", txRef),
			zap.String("booking_id", payment.BookingID))

		s.publishBookingConfirmed(ctx, payment)
	} else {
		util.PaymentsVerifiedTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("Payment verification reported non-success",
			zap.String("tx_ref", txRef),
			zap.String("gateway_status", gatewayStatus))
	}

	return payment, nil
}

// publishBookingConfirmed enqueues the payment confirmation
// notification. Best-effort like the creation notification: no user
// email means no event, and a publish failure is logged without
// failing verification.
func (s *PaymentService) publishBookingConfirmed(ctx context.Context, payment *models.Payment) {
	user, err := s.store.GetUserByID(ctx, payment.UserID)
	if err != nil {
		s.logger.Error("Failed to resolve user for confirmation notification",
			zap.String("booking_id", payment.BookingID),
			zap.Error(err))
		return
	}
	if user.Email == "" {
		util.NotificationsSkippedTotal.Inc()
		s.logger.Info("No user email on file, skipping confirmation notification",
			zap.String("booking_id", payment.BookingID))
		return
	}

	event := &models.BookingConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingConfirmed,
			Timestamp: time.Now(),
		},
		BookingID: payment.BookingID,
		PaymentID: payment.PaymentID,
		TxRef:     payment.TxRef,
		Email:     user.Email,
		Details:   formatPaymentDetails(payment),
	}

	if err := s.publisher.PublishBookingConfirmed(ctx, event); err != nil {
		s.logger.Error("Failed to publish BookingConfirmed event",
			zap.String("booking_id", payment.BookingID),
			zap.Error(err))
	} else {
		util.NotificationsPublishedTotal.Inc()
	}
}

// formatPaymentDetails renders the details block included in the
// payment confirmation email.
func formatPaymentDetails(payment *models.Payment) string {
	return fmt.Sprintf(
		"Booking ID: %s\nPayment ID: %s\nTransaction: %s\nAmount: %d\nStatus: %s",
		payment.BookingID, payment.PaymentID, payment.TxRef, payment.Amount, payment.Status)
}

// GetPaymentsForBooking retrieves payment attempts for a booking
// owned by the given user.
func (s *PaymentService) GetPaymentsForBooking(ctx context.Context, bookingID string, userID int64) ([]models.Payment, error) {
	booking, err := s.store.GetBookingByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return s.store.GetPaymentsByBookingID(ctx, bookingID)
}
