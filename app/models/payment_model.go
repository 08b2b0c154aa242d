package models

import "time"

// Gateway-facing payment statuses. Anything outside PAID/FAILED is treated as
// not yet terminal.
const (
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
	PaymentPending = "PENDING"
)

type CustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name" validate:"required,gte=4,lte=255"`
	CustomerEmail string `json:"customer_email" validate:"required,email,lte=255"`
	CustomerPhone string `json:"customer_phone" validate:"required,gte=10,lte=20"`
}

type OrderMeta struct {
	ReturnURL string `json:"return_url"`
	NotifyURL string `json:"notify_url"`
}

// PaymentOrder is one payment attempt. OrderID is generated server-side when
// absent and is never reused across attempts.
type PaymentOrder struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     float64         `json:"order_amount" validate:"required,gt=0"`
	OrderCurrency   string          `json:"order_currency" validate:"required,oneof=INR USD EUR"`
	CustomerDetails CustomerDetails `json:"customer_details" validate:"required"`
	OrderMeta       OrderMeta       `json:"order_meta"`
	ExpertID        string          `json:"expert_id,omitempty"`
	Date            string          `json:"date,omitempty"`
	Time            string          `json:"time,omitempty"`
	Duration        int             `json:"duration,omitempty"`
}

// Payment is the stored record for an order, updated by the bounded poller,
// the webhook, and the one-shot verification.
type Payment struct {
	OrderID       string    `json:"order_id" db:"order_id"`
	Amount        float64   `json:"amount" db:"amount"`
	Currency      string    `json:"currency" db:"currency"`
	CustomerID    string    `json:"customer_id" db:"customer_id"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
	CustomerPhone string    `json:"customer_phone" db:"customer_phone"`
	ExpertID      string    `json:"expert_id,omitempty" db:"expert_id"`
	Date          string    `json:"date,omitempty" db:"date"`
	Time          string    `json:"time,omitempty" db:"time"`
	Duration      int       `json:"duration,omitempty" db:"duration"`
	SessionID     string    `json:"session_id,omitempty" db:"session_id"`
	Status        string    `json:"status" db:"status"`
	PaymentID     string    `json:"payment_id,omitempty" db:"payment_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type PaymentSessionResponse struct {
	PaymentSessionID string `json:"payment_session_id,omitempty"`
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
}

type VerifyRequest struct {
	OrderID string `json:"order_id" validate:"required,lte=64"`
}

type VerifyResponse struct {
	Success     bool    `json:"success"`
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount,omitempty"`
	PaymentID   string  `json:"payment_id,omitempty"`
	MeetingLink string  `json:"meeting_link,omitempty"`
	BookedAt    string  `json:"booked_at,omitempty"`
	Notice      string  `json:"notice,omitempty"`
}
