package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/smartconsult/smartconsult-backend/app/queries"
	"github.com/smartconsult/smartconsult-backend/app/services"
	"github.com/smartconsult/smartconsult-backend/pkg/database"
	"github.com/smartconsult/smartconsult-backend/pkg/gateway"
)

// Payments is the payment service wired up in main.
var Payments *services.PaymentService

// CreatePaymentOrder answers POST /api/payments: build the order, exchange it
// for a hosted-checkout session id. The caller opens the checkout with that
// session id; a failure here is terminal for the order and any retry must
// come back through this handler for a fresh order id.
func CreatePaymentOrder(c *fiber.Ctx) error {
	req := &models.PaymentOrder{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.PaymentSessionResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.PaymentSessionResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// Checkout works for guests too; an authenticated caller just gets their
	// own id as the customer id.
	var user *models.User
	if u, err := Sessions.CurrentUser(c.Get("Authorization")); err == nil {
		user = &u
	}

	sessionID, _, err := Payments.CreateOrder(c.Context(), user, req)
	if err != nil {
		var se *gateway.SessionError
		if errors.As(err, &se) {
			return c.Status(fiber.StatusBadGateway).JSON(models.PaymentSessionResponse{
				Success: false,
				Message: se.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.PaymentSessionResponse{
			Success: false,
			Message: "Failed to create payment session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.PaymentSessionResponse{
		PaymentSessionID: sessionID,
		Success:          true,
	})
}

// VerifyPayment answers POST /verify, the one-shot authoritative check the
// return page lands on. The response is always 200 with the terminal state in
// the body; transport-level failures against the gateway surface as a FAILED
// state with the contact-support message, not as an HTTP error.
func VerifyPayment(c *fiber.Ctx) error {
	req := &models.VerifyRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	resp := Payments.Verify(c.Context(), req.OrderID)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetPaymentStatus answers GET /api/payments/status/:order_id with the stored
// payment row. Local read only; it never contacts the gateway.
func GetPaymentStatus(c *fiber.Ctx) error {
	orderID := c.Params("order_id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing order id"})
	}

	q := queries.PaymentQueries{DB: database.DB}
	payment, err := q.GetPaymentByOrderID(orderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"order_id": payment.OrderID,
		"status":   payment.Status,
		"amount":   payment.Amount,
	})
}

// PaymentWebhook receives the gateway's server-to-server notification.
func PaymentWebhook(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if err := Payments.HandleWebhook(payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unable to process notification"})
	}

	return c.SendStatus(fiber.StatusOK)
}
