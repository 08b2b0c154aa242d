package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartconsult/smartconsult-backend/app/controllers"
)

func RegisterPaymentRoutes(app *fiber.App) {
	app.Post("/api/payments", controllers.CreatePaymentOrder)
	app.Get("/api/payments/status/:order_id", controllers.GetPaymentStatus)
	app.Post("/verify", controllers.VerifyPayment)
	app.Post("/webhook", controllers.PaymentWebhook)
}
