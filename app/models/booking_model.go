package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking lifecycle statuses. A booking row only ever comes into existence
// through the payment materializer, so payment_status starts at "paid" for
// checkout-created bookings and "pending" for directly scheduled ones.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Booking struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	ExpertID      uuid.UUID `json:"expert_id" db:"expert_id"`
	OrderID       string    `json:"order_id,omitempty" db:"order_id"`
	Date          string    `json:"date" db:"date"`
	Time          string    `json:"time" db:"time"`
	Duration      int       `json:"duration" db:"duration"`
	Status        string    `json:"status" db:"status"`
	PaymentStatus string    `json:"payment_status" db:"payment_status"`
	PaymentID     string    `json:"payment_id,omitempty" db:"payment_id"`
	MeetingLink   string    `json:"meeting_link,omitempty" db:"meeting_link"`
	BookedAt      string    `json:"booked_at,omitempty" db:"booked_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type CreateBookingRequest struct {
	ExpertID string `json:"expert_id" validate:"required,uuid4"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required"`
	Duration int    `json:"duration" validate:"required,gte=30,lte=120"`
}

type UpdateBookingRequest struct {
	Date     *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time,omitempty"`
	Duration *int    `json:"duration,omitempty" validate:"omitempty,gte=30,lte=120"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}
