package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartconsult/smartconsult-backend/app/controllers"
	"github.com/smartconsult/smartconsult-backend/pkg/middleware"
)

func RegisterExpertRoutes(app *fiber.App) {
	app.Get("/experts", controllers.GetExperts)
	app.Get("/experts/:id", controllers.GetExpertByID)
	app.Post("/experts/suggest", controllers.SuggestExpert)
	app.Post("/experts/promote", middleware.JWTProtected(), controllers.PromoteExpert)
}
