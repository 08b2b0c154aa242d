package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/smartconsult/smartconsult-backend/pkg/gateway"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeCheckout struct {
	sessionID    string
	sessionErr   error
	verification gateway.Verification
	verifyErr    error
}

func (f *fakeCheckout) CreateSession(ctx context.Context, order *models.PaymentOrder) (string, error) {
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return f.sessionID, nil
}

func (f *fakeCheckout) VerifyPayment(ctx context.Context, orderID string) (gateway.Verification, error) {
	if f.verifyErr != nil {
		return gateway.Verification{OrderID: orderID, Status: models.PaymentPending}, f.verifyErr
	}
	v := f.verification
	v.OrderID = orderID
	return v, nil
}

type mockPaymentStore struct{ mock.Mock }

func (m *mockPaymentStore) CreatePayment(p *models.Payment) error {
	return m.Called(p).Error(0)
}

func (m *mockPaymentStore) GetPaymentByOrderID(orderID string) (models.Payment, error) {
	args := m.Called(orderID)
	return args.Get(0).(models.Payment), args.Error(1)
}

func (m *mockPaymentStore) SetSessionID(orderID string, sessionID string) error {
	return m.Called(orderID, sessionID).Error(0)
}

func (m *mockPaymentStore) UpdatePaymentStatus(orderID string, status string, paymentID string) error {
	return m.Called(orderID, status, paymentID).Error(0)
}

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) CreateBookingFromOrder(b *models.Booking) (bool, error) {
	args := m.Called(b)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingStore) GetBookingByOrderID(orderID string) (models.Booking, error) {
	args := m.Called(orderID)
	return args.Get(0).(models.Booking), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(userID uuid.UUID, note utils.Notification) error {
	return m.Called(userID, note).Error(0)
}

func newTestService(co gateway.Checkout, payments *mockPaymentStore, bookings *mockBookingStore, notify *mockNotifier) *PaymentService {
	return &PaymentService{
		Checkout: co,
		Payments: payments,
		Bookings: bookings,
		Notify:   notify,
		Clock:    time.Now,
		PollCtx:  context.Background(),
	}
}

var meetingLinkPattern = regexp.MustCompile(`^https://meet\.zoho\.com/j/[0-9a-z]{8}$`)

func TestBuildOrderGeneratesFreshIDs(t *testing.T) {
	s := &PaymentService{}
	seen := make(map[string]bool)
	req := &models.PaymentOrder{
		CustomerDetails: models.CustomerDetails{CustomerID: "GUEST_existing1"},
	}

	for i := 0; i < 50; i++ {
		order, err := s.BuildOrder(nil, req)
		assert.NoError(t, err)
		assert.Regexp(t, `^ORDER_[0-9a-z]{9}$`, order.OrderID)
		assert.False(t, seen[order.OrderID], "order id reused: %s", order.OrderID)
		seen[order.OrderID] = true
	}
}

func TestBuildOrderSynthesizesGuestID(t *testing.T) {
	s := &PaymentService{}
	order, err := s.BuildOrder(nil, &models.PaymentOrder{})
	assert.NoError(t, err)
	assert.Regexp(t, `^GUEST_[0-9a-z]{9}$`, order.CustomerDetails.CustomerID)
}

func TestBuildOrderUsesAuthenticatedUser(t *testing.T) {
	s := &PaymentService{}
	user := &models.User{ID: uuid.New()}
	order, err := s.BuildOrder(user, &models.PaymentOrder{
		CustomerDetails: models.CustomerDetails{CustomerID: "GUEST_ignoreme1"},
	})
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), order.CustomerDetails.CustomerID)
}

func TestBuildOrderDefaultsAndSanitization(t *testing.T) {
	s := &PaymentService{}
	order, err := s.BuildOrder(nil, &models.PaymentOrder{
		CustomerDetails: models.CustomerDetails{
			CustomerName:  "  Asha Rao ",
			CustomerEmail: " Asha@Example.COM ",
			CustomerPhone: "+91 98765-43210",
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, float64(500), order.OrderAmount)
	assert.Equal(t, "INR", order.OrderCurrency)
	assert.Equal(t, "Asha Rao", order.CustomerDetails.CustomerName)
	assert.Equal(t, "asha@example.com", order.CustomerDetails.CustomerEmail)
	assert.Equal(t, "+919876543210", order.CustomerDetails.CustomerPhone)
}

func TestVerifyPaidCreatesBookingOnce(t *testing.T) {
	userID := uuid.New()
	expertID := uuid.New()
	orderID := "ORDER_abc123def"

	co := &fakeCheckout{verification: gateway.Verification{Status: models.PaymentPaid, Amount: 500, PaymentID: "cf_123"}}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)
	notify := new(mockNotifier)

	payments.On("UpdatePaymentStatus", orderID, models.PaymentPaid, "cf_123").Return(nil)
	payments.On("GetPaymentByOrderID", orderID).Return(models.Payment{
		OrderID:    orderID,
		Amount:     500,
		CustomerID: userID.String(),
		ExpertID:   expertID.String(),
		Date:       "2026-09-01",
		Time:       "10:00",
		Duration:   60,
	}, nil)
	bookings.On("GetBookingByOrderID", orderID).Return(models.Booking{}, errors.New("unable to get booking"))
	bookings.On("CreateBookingFromOrder", mock.MatchedBy(func(b *models.Booking) bool {
		return b.OrderID == orderID &&
			b.UserID == userID &&
			b.ExpertID == expertID &&
			b.Status == models.BookingConfirmed &&
			b.PaymentStatus == models.PaymentStatusPaid
	})).Return(true, nil)
	notify.On("Notify", userID, mock.MatchedBy(func(n utils.Notification) bool {
		return n.Event == "booking_confirmed" && n.OrderID == orderID
	})).Return(nil)

	s := newTestService(co, payments, bookings, notify)
	resp := s.Verify(context.Background(), orderID)

	assert.True(t, resp.Success)
	assert.Equal(t, models.PaymentPaid, resp.Status)
	assert.Equal(t, "Payment successful!", resp.Message)
	assert.Equal(t, orderID, resp.OrderID)
	assert.Equal(t, float64(500), resp.Amount)
	assert.Equal(t, "cf_123", resp.PaymentID)
	assert.Regexp(t, meetingLinkPattern, resp.MeetingLink)
	assert.NotEmpty(t, resp.BookedAt)
	assert.Empty(t, resp.Notice)

	bookings.AssertNumberOfCalls(t, "CreateBookingFromOrder", 1)
	notify.AssertExpectations(t)
}

func TestVerifyPaidIsIdempotent(t *testing.T) {
	orderID := "ORDER_abc123def"
	existing := models.Booking{
		OrderID:     orderID,
		MeetingLink: "https://meet.zoho.com/j/a1b2c3d4",
		BookedAt:    "01 Sep 2026, 10:00 am",
	}

	co := &fakeCheckout{verification: gateway.Verification{Status: models.PaymentPaid, Amount: 500}}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)

	payments.On("UpdatePaymentStatus", orderID, models.PaymentPaid, "").Return(nil)
	bookings.On("GetBookingByOrderID", orderID).Return(existing, nil)

	s := newTestService(co, payments, bookings, nil)
	resp := s.Verify(context.Background(), orderID)

	assert.True(t, resp.Success)
	assert.Equal(t, existing.MeetingLink, resp.MeetingLink)
	assert.Equal(t, existing.BookedAt, resp.BookedAt)
	bookings.AssertNotCalled(t, "CreateBookingFromOrder", mock.Anything)
}

func TestVerifyFailedDoesNotCreateBooking(t *testing.T) {
	orderID := "ORDER_abc123def"

	co := &fakeCheckout{verification: gateway.Verification{Status: models.PaymentFailed}}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)

	payments.On("UpdatePaymentStatus", orderID, models.PaymentFailed, "").Return(nil)

	s := newTestService(co, payments, bookings, nil)
	resp := s.Verify(context.Background(), orderID)

	assert.False(t, resp.Success)
	assert.Equal(t, models.PaymentFailed, resp.Status)
	assert.Equal(t, "Payment verification failed. Please try again.", resp.Message)
	bookings.AssertNotCalled(t, "CreateBookingFromOrder", mock.Anything)
	payments.AssertExpectations(t)
}

func TestVerifyPendingReportsFailureWithoutStoreWrite(t *testing.T) {
	co := &fakeCheckout{verification: gateway.Verification{Status: models.PaymentPending}}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)

	s := newTestService(co, payments, bookings, nil)
	resp := s.Verify(context.Background(), "ORDER_abc123def")

	assert.False(t, resp.Success)
	assert.Equal(t, models.PaymentFailed, resp.Status)
	payments.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyGatewayErrorIsTerminalWithSupportMessage(t *testing.T) {
	co := &fakeCheckout{verifyErr: errors.New("unexpected end of JSON input")}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)

	s := newTestService(co, payments, bookings, nil)
	resp := s.Verify(context.Background(), "ORDER_abc123def")

	assert.False(t, resp.Success)
	assert.Equal(t, models.PaymentFailed, resp.Status)
	assert.Equal(t, "Unable to verify payment. Please contact support if payment was deducted.", resp.Message)
	bookings.AssertNotCalled(t, "CreateBookingFromOrder", mock.Anything)
}

func TestVerifyBookingFailureKeepsPaymentSuccess(t *testing.T) {
	userID := uuid.New()
	orderID := "ORDER_abc123def"

	co := &fakeCheckout{verification: gateway.Verification{Status: models.PaymentPaid, Amount: 500}}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)
	notify := new(mockNotifier)

	payments.On("UpdatePaymentStatus", orderID, models.PaymentPaid, "").Return(nil)
	payments.On("GetPaymentByOrderID", orderID).Return(models.Payment{
		OrderID:    orderID,
		Amount:     500,
		CustomerID: userID.String(),
	}, nil)
	bookings.On("GetBookingByOrderID", orderID).Return(models.Booking{}, errors.New("unable to get booking"))
	bookings.On("CreateBookingFromOrder", mock.Anything).Return(false, errors.New("unable to create booking"))
	notify.On("Notify", userID, mock.MatchedBy(func(n utils.Notification) bool {
		return n.Event == "booking_update_failed"
	})).Return(nil)

	s := newTestService(co, payments, bookings, notify)
	resp := s.Verify(context.Background(), orderID)

	assert.True(t, resp.Success, "record-keeping failure must not read as payment failure")
	assert.Equal(t, models.PaymentPaid, resp.Status)
	assert.Equal(t, "Payment successful!", resp.Message)
	assert.Equal(t, float64(500), resp.Amount)
	assert.Equal(t, "Failed to update booking status", resp.Notice)
	notify.AssertExpectations(t)
}

func TestCreateOrderSessionFailureMarksOrderFailed(t *testing.T) {
	co := &fakeCheckout{sessionErr: &gateway.SessionError{Message: "order_amount exceeds limit"}}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)

	payments.On("CreatePayment", mock.MatchedBy(func(p *models.Payment) bool {
		return p.Status == models.PaymentPending
	})).Return(nil)
	payments.On("UpdatePaymentStatus", mock.Anything, models.PaymentFailed, "").Return(nil)

	s := newTestService(co, payments, bookings, nil)
	_, order, err := s.CreateOrder(context.Background(), nil, &models.PaymentOrder{})

	assert.True(t, errors.Is(err, gateway.ErrSessionCreation))
	assert.NotNil(t, order)
	payments.AssertExpectations(t)
}

func TestCreateOrderRetryUsesNewOrderID(t *testing.T) {
	co := &fakeCheckout{sessionErr: &gateway.SessionError{}}
	payments := new(mockPaymentStore)
	payments.On("CreatePayment", mock.Anything).Return(nil)
	payments.On("UpdatePaymentStatus", mock.Anything, models.PaymentFailed, "").Return(nil)

	s := newTestService(co, payments, new(mockBookingStore), nil)

	_, first, err := s.CreateOrder(context.Background(), nil, &models.PaymentOrder{})
	assert.Error(t, err)
	_, second, err := s.CreateOrder(context.Background(), nil, &models.PaymentOrder{})
	assert.Error(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
}

func TestCreateOrderReturnsSessionID(t *testing.T) {
	co := &fakeCheckout{sessionID: "session_abc", verification: gateway.Verification{Status: models.PaymentPending}}
	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)

	payments.On("CreatePayment", mock.Anything).Return(nil)
	payments.On("SetSessionID", mock.Anything, "session_abc").Return(nil)

	// cancelled context makes the background settlement poll exit right away
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestService(co, payments, bookings, nil)
	s.PollCtx = ctx

	sid, order, err := s.CreateOrder(context.Background(), nil, &models.PaymentOrder{})
	assert.NoError(t, err)
	assert.Equal(t, "session_abc", sid)
	assert.Regexp(t, `^ORDER_[0-9a-z]{9}$`, order.OrderID)
}

func TestHandleWebhookNestedPaidMaterializes(t *testing.T) {
	orderID := "ORDER_abc123def"
	existing := models.Booking{OrderID: orderID, MeetingLink: "https://meet.zoho.com/j/a1b2c3d4"}

	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)

	payments.On("UpdatePaymentStatus", orderID, models.PaymentPaid, "981").Return(nil)
	bookings.On("GetBookingByOrderID", orderID).Return(existing, nil)

	s := newTestService(&fakeCheckout{}, payments, bookings, nil)
	err := s.HandleWebhook(map[string]interface{}{
		"data": map[string]interface{}{
			"order":   map[string]interface{}{"order_id": orderID},
			"payment": map[string]interface{}{"payment_status": "SUCCESS", "cf_payment_id": float64(981)},
		},
	})

	assert.NoError(t, err)
	payments.AssertExpectations(t)
	bookings.AssertNotCalled(t, "CreateBookingFromOrder", mock.Anything)
}

func TestHandleWebhookDroppedIsFailure(t *testing.T) {
	orderID := "ORDER_abc123def"

	payments := new(mockPaymentStore)
	bookings := new(mockBookingStore)
	payments.On("UpdatePaymentStatus", orderID, models.PaymentFailed, "").Return(nil)

	s := newTestService(&fakeCheckout{}, payments, bookings, nil)
	err := s.HandleWebhook(map[string]interface{}{
		"order_id":     orderID,
		"order_status": "USER_DROPPED",
	})

	assert.NoError(t, err)
	payments.AssertExpectations(t)
	bookings.AssertNotCalled(t, "CreateBookingFromOrder", mock.Anything)
}

func TestHandleWebhookMissingOrderID(t *testing.T) {
	s := newTestService(&fakeCheckout{}, new(mockPaymentStore), new(mockBookingStore), nil)
	err := s.HandleWebhook(map[string]interface{}{"order_status": "PAID"})
	assert.Error(t, err)
}
