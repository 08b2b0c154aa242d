package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/smartconsult/smartconsult-backend/app/controllers"
	"github.com/smartconsult/smartconsult-backend/app/queries"
	"github.com/smartconsult/smartconsult-backend/app/services"
	"github.com/smartconsult/smartconsult-backend/pkg/database"
	"github.com/smartconsult/smartconsult-backend/pkg/gateway"
	"github.com/smartconsult/smartconsult-backend/pkg/routes"
	"github.com/smartconsult/smartconsult-backend/pkg/session"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000, https://smartconsult.app",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("smartconsult backend")
	})

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controllers.Sessions = session.NewManager(
		&queries.UserQueries{DB: db},
		&queries.RefreshTokenQueries{DB: db},
	)
	controllers.Sessions.StartSweeper(ctx)

	controllers.Payments = services.NewPaymentService(
		gateway.NewCashfreeClient(),
		&queries.PaymentQueries{DB: db},
		&queries.BookingQueries{DB: db},
		utils.DefaultNotifier,
	)
	controllers.Payments.PollCtx = ctx

	routes.RegisterAuthRoutes(app)
	routes.RegisterExpertRoutes(app)
	routes.RegisterBookingRoutes(app)
	routes.RegisterPaymentRoutes(app)
	routes.RegisterNotificationRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8787"
	}

	log.Fatal(app.Listen(":" + port))
}
