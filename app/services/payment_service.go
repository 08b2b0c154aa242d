package services

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/smartconsult/smartconsult-backend/pkg/gateway"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
)

const (
	msgPaymentSuccessful  = "Payment successful!"
	msgVerificationFailed = "Payment verification failed. Please try again."
	msgUnableToVerify     = "Unable to verify payment. Please contact support if payment was deducted."
	msgBookingNotUpdated  = "Failed to update booking status"
)

type PaymentStore interface {
	CreatePayment(p *models.Payment) error
	GetPaymentByOrderID(orderID string) (models.Payment, error)
	SetSessionID(orderID string, sessionID string) error
	UpdatePaymentStatus(orderID string, status string, paymentID string) error
}

type BookingStore interface {
	CreateBookingFromOrder(b *models.Booking) (bool, error)
	GetBookingByOrderID(orderID string) (models.Booking, error)
}

type Notifier interface {
	Notify(userID uuid.UUID, note utils.Notification) error
}

// PaymentService drives a payment attempt end to end: order build, session
// exchange, verification, and booking materialization.
type PaymentService struct {
	Checkout gateway.Checkout
	Payments PaymentStore
	Bookings BookingStore
	Notify   Notifier
	SendMail func(to, meetingLink, bookedAt string, amount float64) error
	Clock    func() time.Time

	// PollCtx bounds the background settlement polls; cancelled on shutdown.
	PollCtx context.Context
}

func NewPaymentService(checkout gateway.Checkout, payments PaymentStore, bookings BookingStore, notify Notifier) *PaymentService {
	return &PaymentService{
		Checkout: checkout,
		Payments: payments,
		Bookings: bookings,
		Notify:   notify,
		SendMail: utils.SendBookingConfirmationEmail,
		Clock:    time.Now,
		PollCtx:  context.Background(),
	}
}

func consultationPrice() float64 {
	if v := os.Getenv("CONSULTATION_PRICE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return 500
}

// BuildOrder assembles a payment order for one attempt. The order id is
// always freshly generated here; retries after a failed attempt therefore
// never reuse an id. A missing authenticated user gets a synthesized guest
// customer id.
func (s *PaymentService) BuildOrder(user *models.User, req *models.PaymentOrder) (*models.PaymentOrder, error) {
	orderID, err := utils.GenerateOrderID()
	if err != nil {
		return nil, errors.New("failed to generate order id")
	}

	order := &models.PaymentOrder{
		OrderID:         orderID,
		OrderAmount:     req.OrderAmount,
		OrderCurrency:   req.OrderCurrency,
		CustomerDetails: req.CustomerDetails,
		ExpertID:        req.ExpertID,
		Date:            req.Date,
		Time:            req.Time,
		Duration:        req.Duration,
	}
	if order.OrderAmount <= 0 {
		order.OrderAmount = consultationPrice()
	}
	if order.OrderCurrency == "" {
		order.OrderCurrency = "INR"
	}

	if user != nil {
		order.CustomerDetails.CustomerID = user.ID.String()
	} else if order.CustomerDetails.CustomerID == "" {
		guestID, err := utils.GenerateGuestID()
		if err != nil {
			return nil, errors.New("failed to generate guest id")
		}
		order.CustomerDetails.CustomerID = guestID
	}

	order.CustomerDetails.CustomerName = strings.TrimSpace(order.CustomerDetails.CustomerName)
	order.CustomerDetails.CustomerEmail = strings.ToLower(strings.TrimSpace(order.CustomerDetails.CustomerEmail))
	order.CustomerDetails.CustomerPhone = sanitizePhone(order.CustomerDetails.CustomerPhone)

	frontend := os.Getenv("FRONTEND_BASE_URL")
	public := os.Getenv("PUBLIC_BASE_URL")
	order.OrderMeta = models.OrderMeta{
		ReturnURL: frontend + "/payment-status/" + orderID,
		NotifyURL: public + "/webhook",
	}

	return order, nil
}

func sanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CreateOrder persists the attempt and exchanges it for a hosted-checkout
// session id, then kicks off the bounded settlement poll. Session failure is
// terminal for this order id.
func (s *PaymentService) CreateOrder(ctx context.Context, user *models.User, req *models.PaymentOrder) (string, *models.PaymentOrder, error) {
	order, err := s.BuildOrder(user, req)
	if err != nil {
		return "", nil, err
	}

	now := s.Clock()
	payment := &models.Payment{
		OrderID:       order.OrderID,
		Amount:        order.OrderAmount,
		Currency:      order.OrderCurrency,
		CustomerID:    order.CustomerDetails.CustomerID,
		CustomerName:  order.CustomerDetails.CustomerName,
		CustomerEmail: order.CustomerDetails.CustomerEmail,
		CustomerPhone: order.CustomerDetails.CustomerPhone,
		ExpertID:      order.ExpertID,
		Date:          order.Date,
		Time:          order.Time,
		Duration:      order.Duration,
		Status:        models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Payments.CreatePayment(payment); err != nil {
		return "", nil, err
	}

	sessionID, err := s.Checkout.CreateSession(ctx, order)
	if err != nil {
		_ = s.Payments.UpdatePaymentStatus(order.OrderID, models.PaymentFailed, "")
		return "", order, err
	}

	if err := s.Payments.SetSessionID(order.OrderID, sessionID); err != nil {
		log.Printf("event=payment_session_store_failed order_id=%s error=%v", order.OrderID, err)
	}

	s.startSettlementPoll(order.OrderID)

	return sessionID, order, nil
}

// startSettlementPoll watches the order in the background so the stored row
// settles even when the customer never lands on the return page. The landing
// one-shot verification remains authoritative.
func (s *PaymentService) startSettlementPoll(orderID string) {
	poller := gateway.NewStatusPoller(s.Checkout)
	go func() {
		v, err := poller.Poll(s.PollCtx, orderID)
		if err != nil {
			log.Printf("event=settlement_poll_done order_id=%s result=timeout", orderID)
			return
		}
		if err := s.Payments.UpdatePaymentStatus(orderID, v.Status, v.PaymentID); err != nil {
			log.Printf("event=settlement_poll_store_failed order_id=%s error=%v", orderID, err)
			return
		}
		if v.Status == models.PaymentPaid {
			if _, err := s.materialize(v); err != nil {
				log.Printf("event=settlement_materialize_failed order_id=%s error=%v", orderID, err)
			}
		}
		log.Printf("event=settlement_poll_done order_id=%s status=%s", orderID, v.Status)
	}()
}

// Verify is the one-shot, authoritative verification for the landing page.
// PAID materializes the booking exactly once; FAILED and unusable gateway
// responses are terminal with distinct user-facing messages. There is no
// automatic retry here.
func (s *PaymentService) Verify(ctx context.Context, orderID string) models.VerifyResponse {
	v, err := s.Checkout.VerifyPayment(ctx, orderID)
	if err != nil {
		return models.VerifyResponse{
			Success: false,
			Status:  models.PaymentFailed,
			Message: msgUnableToVerify,
			OrderID: orderID,
		}
	}

	if v.Status != models.PaymentPaid {
		if v.Terminal() {
			_ = s.Payments.UpdatePaymentStatus(orderID, v.Status, v.PaymentID)
		}
		return models.VerifyResponse{
			Success: false,
			Status:  models.PaymentFailed,
			Message: msgVerificationFailed,
			OrderID: orderID,
		}
	}

	_ = s.Payments.UpdatePaymentStatus(orderID, models.PaymentPaid, v.PaymentID)

	resp := models.VerifyResponse{
		Success:   true,
		Status:    models.PaymentPaid,
		Message:   msgPaymentSuccessful,
		OrderID:   orderID,
		Amount:    v.Amount,
		PaymentID: v.PaymentID,
	}
	if resp.PaymentID == "" {
		resp.PaymentID = orderID
	}
	if resp.Amount == 0 {
		resp.Amount = consultationPrice()
	}

	booking, err := s.materialize(v)
	if err != nil {
		// Payment did succeed; record-keeping failure must never read as a
		// payment failure. Surface it as a transient notice only.
		resp.Notice = msgBookingNotUpdated
		return resp
	}

	resp.MeetingLink = booking.MeetingLink
	resp.BookedAt = booking.BookedAt
	return resp
}

// materialize creates the durable booking for a PAID order. Idempotent by
// order id: the first call inserts, later calls return the existing row.
func (s *PaymentService) materialize(v gateway.Verification) (models.Booking, error) {
	if existing, err := s.Bookings.GetBookingByOrderID(v.OrderID); err == nil {
		return existing, nil
	}

	payment, err := s.Payments.GetPaymentByOrderID(v.OrderID)
	if err != nil {
		s.notifyFailure(uuid.Nil, v.OrderID)
		return models.Booking{}, err
	}

	meetingID, err := utils.GenerateMeetingID()
	if err != nil {
		s.notifyFailure(parseCustomerID(payment.CustomerID), v.OrderID)
		return models.Booking{}, err
	}

	now := s.Clock()
	amount := v.Amount
	if amount == 0 {
		amount = payment.Amount
	}

	booking := models.Booking{
		ID:            uuid.New(),
		UserID:        parseCustomerID(payment.CustomerID),
		ExpertID:      parseCustomerID(payment.ExpertID),
		OrderID:       v.OrderID,
		Date:          payment.Date,
		Time:          payment.Time,
		Duration:      payment.Duration,
		Status:        models.BookingConfirmed,
		PaymentStatus: models.PaymentStatusPaid,
		PaymentID:     v.PaymentID,
		MeetingLink:   utils.MeetingLink(meetingID),
		BookedAt:      utils.FormatBookedAt(now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	inserted, err := s.Bookings.CreateBookingFromOrder(&booking)
	if err != nil {
		s.notifyFailure(booking.UserID, v.OrderID)
		return models.Booking{}, err
	}
	if !inserted {
		// Lost the race with the webhook; the winner's row is the booking.
		if existing, err := s.Bookings.GetBookingByOrderID(v.OrderID); err == nil {
			return existing, nil
		}
		return booking, nil
	}

	if s.SendMail != nil && payment.CustomerEmail != "" {
		if err := s.SendMail(payment.CustomerEmail, booking.MeetingLink, booking.BookedAt, amount); err != nil {
			log.Printf("event=confirmation_mail_failed order_id=%s error=%v", v.OrderID, err)
		}
	}
	if s.Notify != nil && booking.UserID != uuid.Nil {
		_ = s.Notify.Notify(booking.UserID, utils.Notification{
			Event:   "booking_confirmed",
			OrderID: v.OrderID,
			Message: "Your consultation is booked. Meeting link: " + booking.MeetingLink,
		})
	}

	return booking, nil
}

func (s *PaymentService) notifyFailure(userID uuid.UUID, orderID string) {
	if s.Notify == nil || userID == uuid.Nil {
		return
	}
	_ = s.Notify.Notify(userID, utils.Notification{
		Event:   "booking_update_failed",
		OrderID: orderID,
		Message: msgBookingNotUpdated,
	})
}

func parseCustomerID(id string) uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

// HandleWebhook applies a server-to-server gateway notification. Tolerant of
// the two payload shapes the gateway sends (flat and nested under data).
func (s *PaymentService) HandleWebhook(payload map[string]interface{}) error {
	orderID, _ := payload["order_id"].(string)
	status, _ := payload["order_status"].(string)

	if data, ok := payload["data"].(map[string]interface{}); ok {
		if order, ok := data["order"].(map[string]interface{}); ok {
			if id, ok := order["order_id"].(string); ok && orderID == "" {
				orderID = id
			}
		}
		if pay, ok := data["payment"].(map[string]interface{}); ok {
			if ps, ok := pay["payment_status"].(string); ok && status == "" {
				status = ps
			}
		}
	}
	if orderID == "" {
		return errors.New("webhook payload missing order id")
	}

	localStatus := models.PaymentPending
	switch status {
	case "PAID", "SUCCESS":
		localStatus = models.PaymentPaid
	case "FAILED", "CANCELLED", "USER_DROPPED", "EXPIRED", "VOID":
		localStatus = models.PaymentFailed
	}

	paymentID := ""
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if pay, ok := data["payment"].(map[string]interface{}); ok {
			if id, ok := pay["cf_payment_id"].(string); ok {
				paymentID = id
			} else if id, ok := pay["cf_payment_id"].(float64); ok {
				paymentID = strconv.FormatFloat(id, 'f', 0, 64)
			}
		}
	}

	if err := s.Payments.UpdatePaymentStatus(orderID, localStatus, paymentID); err != nil {
		return err
	}

	if localStatus == models.PaymentPaid {
		if _, err := s.materialize(gateway.Verification{OrderID: orderID, Status: models.PaymentPaid, PaymentID: paymentID}); err != nil {
			log.Printf("event=webhook_materialize_failed order_id=%s error=%v", orderID, err)
		}
	}

	return nil
}
