package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
)

// NotificationsUpgrade gates the websocket upgrade on a valid bearer token.
func NotificationsUpgrade(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		// Browsers cannot set headers on websocket requests; allow ?token=.
		userID, err = utils.ExtractUserIDFromHeader("Bearer " + c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "websocket upgrade required"})
	}

	c.Locals("user_id", userID)
	return c.Next()
}

// NotificationsSocket keeps the connection registered for transient pushes
// (booking confirmations, booking-persistence failures) until the client
// hangs up.
func NotificationsSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("user_id").(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}

		utils.DefaultNotifier.Register(userID, conn)
		defer utils.DefaultNotifier.Unregister(userID)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
