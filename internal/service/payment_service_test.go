package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"travel-service/internal/gateway"
	"travel-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentStoreStub struct {
	bookings      map[string]*models.Booking
	users         map[int64]*models.User
	payments      map[string]*models.Payment
	bookingErr    error
	created       []*models.Payment
	paymentStatus map[string]string
	bookingStatus map[string]string
}

func newPaymentStoreStub() *paymentStoreStub {
	return &paymentStoreStub{
		bookings:      make(map[string]*models.Booking),
		users:         make(map[int64]*models.User),
		payments:      make(map[string]*models.Payment),
		paymentStatus: make(map[string]string),
		bookingStatus: make(map[string]string),
	}
}

func (s *paymentStoreStub) GetBookingByIDAndUser(_ context.Context, bookingID string, userID int64) (*models.Booking, error) {
	if s.bookingErr != nil {
		return nil, s.bookingErr
	}
	b, ok := s.bookings[bookingID]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	return b, nil
}

func (s *paymentStoreStub) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found: %d", id)
}

func (s *paymentStoreStub) CreatePayment(_ context.Context, payment *models.Payment) error {
	s.created = append(s.created, payment)
	s.payments[payment.TxRef] = payment
	return nil
}

func (s *paymentStoreStub) GetPaymentByTxRef(_ context.Context, txRef string) (*models.Payment, error) {
	p, ok := s.payments[txRef]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (s *paymentStoreStub) GetPaymentsByBookingID(_ context.Context, bookingID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range s.payments {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *paymentStoreStub) UpdatePaymentStatus(_ context.Context, paymentID, status string) error {
	s.paymentStatus[paymentID] = status
	return nil
}

func (s *paymentStoreStub) UpdateBookingStatus(_ context.Context, bookingID, status string) error {
	s.bookingStatus[bookingID] = status
	return nil
}

type gatewayStub struct {
	initResp     *gateway.InitializeResponse
	initErr      error
	initCalls    int
	verifyStatus string
	verifyErr    error
	verifyCalls  int
}

func (g *gatewayStub) Initialize(_ context.Context, _ *gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.initResp, nil
}

func (g *gatewayStub) Verify(_ context.Context, _ string) (string, error) {
	g.verifyCalls++
	return g.verifyStatus, g.verifyErr
}

type confirmedPublisherStub struct {
	events []*models.BookingConfirmedEvent
}

func (p *confirmedPublisherStub) PublishBookingConfirmed(_ context.Context, event *models.BookingConfirmedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newTestPaymentService(store *paymentStoreStub, gw *gatewayStub, pub *confirmedPublisherStub) *PaymentService {
	return NewPaymentService(store, gw, pub, "ETB", "http://localhost:8080")
}

func TestNewTxRef(t *testing.T) {
	pattern := regexp.MustCompile(`^CHAPA-[0-9a-f]{10}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := newTxRef()
		assert.Regexp(t, pattern, ref)
		assert.False(t, seen[ref], "tx_ref collision: %s", ref)
		seen[ref] = true
	}
}

func TestReconcileStatus(t *testing.T) {
	tests := []struct {
		gatewayStatus string
		wantStatus    string
		wantConfirmed bool
	}{
		{"success", models.PaymentStatusCompleted, true},
		{"failed", models.PaymentStatusFailed, false},
		{"pending", models.PaymentStatusFailed, false},
		{"", models.PaymentStatusFailed, false},
		{"SUCCESS", models.PaymentStatusFailed, false},
	}

	for _, tt := range tests {
		status, confirmed := reconcileStatus(tt.gatewayStatus)
		assert.Equal(t, tt.wantStatus, status, "gateway status %q", tt.gatewayStatus)
		assert.Equal(t, tt.wantConfirmed, confirmed, "gateway status %q", tt.gatewayStatus)
	}
}

func TestVerifyURL(t *testing.T) {
	s := &PaymentService{publicBaseURL: "https://travel.example.com"}
	assert.Equal(t,
		"https://travel.example.com/api/v1/payments/verify/CHAPA-ab12cd34ef",
		s.verifyURL("CHAPA-ab12cd34ef"))

	// Trailing slash is trimmed at construction time.
	s2 := NewPaymentService(nil, nil, nil, "ETB", "https://travel.example.com/")
	assert.Equal(t,
		"https://travel.example.com/api/v1/payments/verify/CHAPA-ab12cd34ef",
		s2.verifyURL("CHAPA-ab12cd34ef"))
}

func TestInitiatePaymentSuccess(t *testing.T) {
	store := newPaymentStoreStub()
	store.bookings["B1"] = &models.Booking{BookingID: "B1", UserID: 42}
	gw := &gatewayStub{initResp: &gateway.InitializeResponse{
		CheckoutURL: "https://pay/x",
		TxRef:       "CHAPA-ab12cd34ef",
	}}
	svc := newTestPaymentService(store, gw, &confirmedPublisherStub{})

	user := &models.User{ID: 42, Email: "guest@example.com"}
	resp, err := svc.InitiatePayment(context.Background(), user, &InitiatePaymentRequest{
		BookingID: "B1",
		Amount:    500,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://pay/x", resp.CheckoutURL)
	assert.Regexp(t, `^CHAPA-[0-9a-f]{10}$`, resp.TxRef)
	assert.NotEmpty(t, resp.PaymentID)

	require.Len(t, store.created, 1)
	payment := store.created[0]
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, "B1", payment.BookingID)
	assert.Equal(t, int64(500), payment.Amount)
	assert.Equal(t, resp.TxRef, payment.TxRef)
	assert.Equal(t, "CHAPA-ab12cd34ef", payment.ChapaTxRef)
}

func TestInitiatePaymentBookingNotFound(t *testing.T) {
	store := newPaymentStoreStub()
	store.bookings["B1"] = &models.Booking{BookingID: "B1", UserID: 7}
	gw := &gatewayStub{}
	svc := newTestPaymentService(store, gw, &confirmedPublisherStub{})

	// Booking exists but belongs to another user.
	user := &models.User{ID: 42}
	_, err := svc.InitiatePayment(context.Background(), user, &InitiatePaymentRequest{
		BookingID: "B1",
		Amount:    500,
	})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.created)
	assert.Zero(t, gw.initCalls)
}

func TestInitiatePaymentGatewayFailure(t *testing.T) {
	store := newPaymentStoreStub()
	store.bookings["B1"] = &models.Booking{BookingID: "B1", UserID: 42}
	gw := &gatewayStub{initErr: &gateway.StatusError{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"message":"Invalid currency"}`),
	}}
	svc := newTestPaymentService(store, gw, &confirmedPublisherStub{})

	user := &models.User{ID: 42, Email: "guest@example.com"}
	_, err := svc.InitiatePayment(context.Background(), user, &InitiatePaymentRequest{
		BookingID: "B1",
		Amount:    500,
	})

	var statusErr *gateway.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)

	// No payment row on a failed initiation.
	assert.Empty(t, store.created)
}

func TestVerifyPaymentNotFound(t *testing.T) {
	svc := newTestPaymentService(newPaymentStoreStub(), &gatewayStub{}, &confirmedPublisherStub{})

	_, err := svc.VerifyPayment(context.Background(), "CHAPA-0000000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyPaymentSuccess(t *testing.T) {
	store := newPaymentStoreStub()
	store.users[42] = &models.User{ID: 42, Email: "guest@example.com"}
	store.payments["CHAPA-ab12cd34ef"] = &models.Payment{
		PaymentID: "p-1",
		BookingID: "B1",
		UserID:    42,
		Amount:    500,
		TxRef:     "CHAPA-ab12cd34ef",
		Status:    models.PaymentStatusPending,
	}
	gw := &gatewayStub{verifyStatus: "success"}
	pub := &confirmedPublisherStub{}
	svc := newTestPaymentService(store, gw, pub)

	payment, err := svc.VerifyPayment(context.Background(), "CHAPA-ab12cd34ef")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, models.PaymentStatusCompleted, store.paymentStatus["p-1"])
	assert.Equal(t, models.BookingStatusConfirmed, store.bookingStatus["B1"])

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, "B1", event.BookingID)
	assert.Equal(t, "guest@example.com", event.Email)
	assert.Contains(t, event.Details, "CHAPA-ab12cd34ef")
}

func TestVerifyPaymentNonSuccess(t *testing.T) {
	store := newPaymentStoreStub()
	store.payments["CHAPA-ab12cd34ef"] = &models.Payment{
		PaymentID: "p-1",
		BookingID: "B1",
		UserID:    42,
		TxRef:     "CHAPA-ab12cd34ef",
		Status:    models.PaymentStatusPending,
	}
	gw := &gatewayStub{verifyStatus: "failed"}
	pub := &confirmedPublisherStub{}
	svc := newTestPaymentService(store, gw, pub)

	payment, err := svc.VerifyPayment(context.Background(), "CHAPA-ab12cd34ef")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	assert.Equal(t, models.PaymentStatusFailed, store.paymentStatus["p-1"])

	// Booking untouched, nothing published.
	assert.Empty(t, store.bookingStatus)
	assert.Empty(t, pub.events)
}

func TestVerifyPaymentGatewayError(t *testing.T) {
	store := newPaymentStoreStub()
	store.payments["CHAPA-ab12cd34ef"] = &models.Payment{
		PaymentID: "p-1",
		BookingID: "B1",
		TxRef:     "CHAPA-ab12cd34ef",
		Status:    models.PaymentStatusPending,
	}
	gw := &gatewayStub{verifyErr: &gateway.StatusError{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte(`{"message":"try later"}`),
	}}
	svc := newTestPaymentService(store, gw, &confirmedPublisherStub{})

	_, err := svc.VerifyPayment(context.Background(), "CHAPA-ab12cd34ef")
	var statusErr *gateway.StatusError
	require.ErrorAs(t, err, &statusErr)

	// No local mutation on a gateway error.
	assert.Empty(t, store.paymentStatus)
	assert.Empty(t, store.bookingStatus)
}

func TestVerifyPaymentTerminalGuard(t *testing.T) {
	for _, terminal := range []string{models.PaymentStatusCompleted, models.PaymentStatusFailed} {
		store := newPaymentStoreStub()
		store.payments["CHAPA-ab12cd34ef"] = &models.Payment{
			PaymentID: "p-1",
			BookingID: "B1",
			TxRef:     "CHAPA-ab12cd34ef",
			Status:    terminal,
		}
		gw := &gatewayStub{verifyStatus: "success"}
		pub := &confirmedPublisherStub{}
		svc := newTestPaymentService(store, gw, pub)

		payment, err := svc.VerifyPayment(context.Background(), "CHAPA-ab12cd34ef")
		require.NoError(t, err)

		// Settled outcome is returned as stored: no gateway call, no
		// state change, no event.
		assert.Equal(t, terminal, payment.Status)
		assert.Zero(t, gw.verifyCalls)
		assert.Empty(t, store.paymentStatus)
		assert.Empty(t, store.bookingStatus)
		assert.Empty(t, pub.events)
	}
}

func TestVerifyPaymentNoEmailSkipsNotification(t *testing.T) {
	store := newPaymentStoreStub()
	store.users[42] = &models.User{ID: 42, Email: ""}
	store.payments["CHAPA-ab12cd34ef"] = &models.Payment{
		PaymentID: "p-1",
		BookingID: "B1",
		UserID:    42,
		TxRef:     "CHAPA-ab12cd34ef",
		Status:    models.PaymentStatusPending,
	}
	gw := &gatewayStub{verifyStatus: "success"}
	pub := &confirmedPublisherStub{}
	svc := newTestPaymentService(store, gw, pub)

	payment, err := svc.VerifyPayment(context.Background(), "CHAPA-ab12cd34ef")
	require.NoError(t, err)

	// Reconciliation still happens; only the notification is skipped.
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, models.BookingStatusConfirmed, store.bookingStatus["B1"])
	assert.Empty(t, pub.events)
}

func TestInitiatePaymentStoreError(t *testing.T) {
	store := newPaymentStoreStub()
	store.bookingErr = errors.New("connection refused")
	svc := newTestPaymentService(store, &gatewayStub{}, &confirmedPublisherStub{})

	_, err := svc.InitiatePayment(context.Background(), &models.User{ID: 42}, &InitiatePaymentRequest{
		BookingID: "B1",
		Amount:    500,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
