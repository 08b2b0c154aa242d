package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartconsult/smartconsult-backend/app/controllers"
)

func RegisterAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/register", controllers.UserRegister)
	auth.Post("/login", controllers.UserLogin)
	auth.Post("/google", controllers.UserLoginWithGoogle)
	auth.Post("/refresh", controllers.RefreshToken)
	auth.Get("/me", controllers.CurrentUser)
	auth.Post("/logout", controllers.UserLogout)
}
