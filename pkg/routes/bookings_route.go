package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartconsult/smartconsult-backend/app/controllers"
	"github.com/smartconsult/smartconsult-backend/pkg/middleware"
)

func RegisterBookingRoutes(app *fiber.App) {
	bookings := app.Group("/bookings", middleware.JWTProtected())
	bookings.Post("/", controllers.CreateBooking)
	bookings.Get("/my", controllers.GetMyBookings)
	bookings.Patch("/:id", controllers.UpdateBooking)
	bookings.Delete("/:id", controllers.DeleteBooking)
}
