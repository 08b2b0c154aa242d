package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/stretchr/testify/assert"
)

func testOrder() *models.PaymentOrder {
	return &models.PaymentOrder{
		OrderID:       "ORDER_abc123def",
		OrderAmount:   500,
		OrderCurrency: "INR",
		CustomerDetails: models.CustomerDetails{
			CustomerID:    "GUEST_xyz",
			CustomerName:  "Test Customer",
			CustomerEmail: "test@example.com",
			CustomerPhone: "9876543210",
		},
	}
}

func newTestClient(url string) *CashfreeClient {
	return &CashfreeClient{
		BaseURL:      url,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		HTTP:         http.DefaultClient,
	}
}

func TestCreateSessionReturnsSessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "client-id", r.Header.Get("x-client-id"))
		assert.Equal(t, "client-secret", r.Header.Get("x-client-secret"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"ORDER_abc123def","payment_session_id":"session_abc"}`))
	}))
	defer srv.Close()

	sid, err := newTestClient(srv.URL).CreateSession(context.Background(), testOrder())
	assert.NoError(t, err)
	assert.Equal(t, "session_abc", sid)
}

func TestCreateSessionSurfacesGatewayMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"order_amount exceeds limit"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateSession(context.Background(), testOrder())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionCreation))
	assert.Equal(t, "order_amount exceeds limit", err.Error())
}

func TestCreateSessionGenericFallbackOnNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateSession(context.Background(), testOrder())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionCreation))
	assert.Equal(t, ErrSessionCreation.Error(), err.Error())
}

func TestCreateSessionMissingCredentials(t *testing.T) {
	c := &CashfreeClient{BaseURL: "http://localhost:1", HTTP: http.DefaultClient}
	_, err := c.CreateSession(context.Background(), testOrder())
	assert.True(t, errors.Is(err, ErrSessionCreation))
}

func TestVerifyPaymentStatusMapping(t *testing.T) {
	cases := []struct {
		gatewayStatus string
		want          string
	}{
		{"PAID", models.PaymentPaid},
		{"EXPIRED", models.PaymentFailed},
		{"TERMINATED", models.PaymentFailed},
		{"ACTIVE", models.PaymentPending},
		{"", models.PaymentPending},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders/ORDER_abc123def", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"order_id":"ORDER_abc123def","order_status":"` + tc.gatewayStatus + `","order_amount":500,"cf_order_id":"p1"}`))
		}))

		v, err := newTestClient(srv.URL).VerifyPayment(context.Background(), "ORDER_abc123def")
		assert.NoError(t, err)
		assert.Equal(t, tc.want, v.Status, "gateway status %q", tc.gatewayStatus)
		assert.Equal(t, float64(500), v.Amount)
		srv.Close()
	}
}

func TestVerifyPaymentNonJSONIsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).VerifyPayment(context.Background(), "ORDER_abc123def")
	assert.True(t, errors.Is(err, ErrGatewayResponse))
}

func TestVerifyPaymentHTTPErrorIsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).VerifyPayment(context.Background(), "ORDER_abc123def")
	assert.True(t, errors.Is(err, ErrGatewayResponse))
}
