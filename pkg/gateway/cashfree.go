package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/smartconsult/smartconsult-backend/app/models"
)

const cashfreeAPIVersion = "2023-08-01"

// CashfreeClient talks to the Cashfree PG orders API. Sandbox endpoint by
// default; override with CASHFREE_BASE_URL.
type CashfreeClient struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTP         *http.Client
}

func NewCashfreeClient() *CashfreeClient {
	base := os.Getenv("CASHFREE_BASE_URL")
	if base == "" {
		base = "https://sandbox.cashfree.com/pg"
	}
	return &CashfreeClient{
		BaseURL:      strings.TrimRight(base, "/"),
		ClientID:     os.Getenv("CASHFREE_CLIENT_ID"),
		ClientSecret: os.Getenv("CASHFREE_CLIENT_SECRET"),
		HTTP:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *CashfreeClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-version", cashfreeAPIVersion)
	req.Header.Set("x-client-id", c.ClientID)
	req.Header.Set("x-client-secret", c.ClientSecret)
}

// CreateSession exchanges a payment order for a hosted-checkout session id.
func (c *CashfreeClient) CreateSession(ctx context.Context, order *models.PaymentOrder) (string, error) {
	if c.ClientID == "" || c.ClientSecret == "" {
		return "", &SessionError{Message: "payment gateway credentials not set"}
	}

	payload := map[string]interface{}{
		"order_id":       order.OrderID,
		"order_amount":   order.OrderAmount,
		"order_currency": order.OrderCurrency,
		"customer_details": map[string]interface{}{
			"customer_id":    order.CustomerDetails.CustomerID,
			"customer_name":  order.CustomerDetails.CustomerName,
			"customer_email": order.CustomerDetails.CustomerEmail,
			"customer_phone": order.CustomerDetails.CustomerPhone,
		},
		"order_meta": map[string]interface{}{
			"return_url": order.OrderMeta.ReturnURL,
			"notify_url": order.OrderMeta.NotifyURL,
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/orders", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayResponse, err)
	}
	defer res.Body.Close()

	var resp map[string]interface{}
	decodeErr := json.NewDecoder(res.Body).Decode(&resp)

	if res.StatusCode >= 400 {
		msg := ""
		if decodeErr == nil {
			if m, ok := resp["message"].(string); ok {
				msg = m
			}
		}
		return "", &SessionError{Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayResponse, decodeErr)
	}

	if sid, ok := resp["payment_session_id"].(string); ok && sid != "" {
		return sid, nil
	}

	return "", &SessionError{Message: "no payment session id returned from gateway"}
}

// VerifyPayment fetches the order and maps the gateway's order_status onto
// PAID / FAILED / PENDING.
func (c *CashfreeClient) VerifyPayment(ctx context.Context, orderID string) (Verification, error) {
	v := Verification{OrderID: orderID, Status: models.PaymentPending}

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/orders/"+orderID, nil)
	if err != nil {
		return v, err
	}
	c.setHeaders(req)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return v, fmt.Errorf("%w: %v", ErrGatewayResponse, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return v, fmt.Errorf("%w: gateway returned status %d", ErrGatewayResponse, res.StatusCode)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return v, fmt.Errorf("%w: %v", ErrGatewayResponse, err)
	}

	status, _ := resp["order_status"].(string)
	switch status {
	case "PAID":
		v.Status = models.PaymentPaid
	case "EXPIRED", "TERMINATED", "FAILED":
		v.Status = models.PaymentFailed
	default:
		v.Status = models.PaymentPending
	}

	if amount, ok := resp["order_amount"].(float64); ok {
		v.Amount = amount
	}
	if pid, ok := resp["cf_order_id"].(string); ok {
		v.PaymentID = pid
	} else if pid, ok := resp["cf_order_id"].(float64); ok {
		v.PaymentID = fmt.Sprintf("%.0f", pid)
	}

	return v, nil
}
