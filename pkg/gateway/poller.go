package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/smartconsult/smartconsult-backend/app/models"
)

// ErrPollTimeout means the bound elapsed with no terminal status observed.
var ErrPollTimeout = errors.New("payment status poll timed out")

// StatusPoller repeatedly verifies an order until it settles. It exists to
// shorten the window between the customer paying off-site and the stored
// payment reflecting it; the landing-page one-shot verification stays
// authoritative.
type StatusPoller struct {
	Checkout Checkout
	Interval time.Duration
	Timeout  time.Duration
}

func NewStatusPoller(checkout Checkout) *StatusPoller {
	return &StatusPoller{
		Checkout: checkout,
		Interval: 5 * time.Second,
		Timeout:  120 * time.Second,
	}
}

// Poll checks immediately, then on every tick, and returns on the first
// terminal verification. It stops without a result when the bound elapses or
// ctx is cancelled; the ticker never outlives the call. Verification errors
// on individual iterations are treated as "not yet terminal".
func (p *StatusPoller) Poll(ctx context.Context, orderID string) (Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	if v, err := p.Checkout.VerifyPayment(ctx, orderID); err == nil && v.Terminal() {
		return v, nil
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Verification{OrderID: orderID, Status: models.PaymentPending}, ErrPollTimeout
		case <-ticker.C:
			v, err := p.Checkout.VerifyPayment(ctx, orderID)
			if err != nil {
				continue
			}
			if v.Terminal() {
				return v, nil
			}
		}
	}
}
