package gateway

import (
	"context"
	"errors"

	"github.com/smartconsult/smartconsult-backend/app/models"
)

// Verification is the authoritative answer for one order id. Status uses the
// gateway literals PAID / FAILED / PENDING; anything unrecognized is reported
// as PENDING by implementations.
type Verification struct {
	OrderID   string
	Status    string
	Amount    float64
	PaymentID string
}

func (v Verification) Terminal() bool {
	return v.Status == models.PaymentPaid || v.Status == models.PaymentFailed
}

// Checkout is the narrow surface of the hosted-checkout provider. The concrete
// provider is swappable; tests substitute a fake.
type Checkout interface {
	CreateSession(ctx context.Context, order *models.PaymentOrder) (string, error)
	VerifyPayment(ctx context.Context, orderID string) (Verification, error)
}

var (
	// ErrSessionCreation means the provider rejected the order. Terminal for
	// this order id; retrying requires a fresh order.
	ErrSessionCreation = errors.New("failed to create payment session")

	// ErrGatewayResponse means the provider answered with something we could
	// not use (non-JSON, unexpected shape, transport failure).
	ErrGatewayResponse = errors.New("unusable gateway response")
)

// SessionError carries the provider-supplied message when one was present so
// it can be surfaced to the user verbatim.
type SessionError struct {
	Message string
}

func (e *SessionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrSessionCreation.Error()
}

func (e *SessionError) Unwrap() error { return ErrSessionCreation }
