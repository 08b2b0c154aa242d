package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartconsult/smartconsult-backend/app/controllers"
)

func RegisterNotificationRoutes(app *fiber.App) {
	app.Get("/ws/notifications", controllers.NotificationsUpgrade, controllers.NotificationsSocket())
}
