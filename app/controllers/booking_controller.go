package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/smartconsult/smartconsult-backend/app/queries"
	"github.com/smartconsult/smartconsult-backend/pkg/database"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
)

// CreateBooking schedules a consultation directly (unpaid); paid bookings are
// created by the payment materializer, never through this handler.
func CreateBooking(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.CreateBookingRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	expertID, err := uuid.Parse(req.ExpertID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid expert_id"})
	}

	expertQueries := queries.ExpertQueries{DB: database.DB}
	if _, err := expertQueries.GetExpertByID(expertID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expert not found"})
	}

	booking := &models.Booking{
		ID:            uuid.New(),
		UserID:        userID,
		ExpertID:      expertID,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	q := queries.BookingQueries{DB: database.DB}
	if err := q.CreateBooking(booking); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": booking})
}

func GetMyBookings(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	q := queries.BookingQueries{DB: database.DB}
	bookings, err := q.GetBookingsByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list bookings"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": bookings})
}

// UpdateBooking handles reschedules and status changes for the owner.
func UpdateBooking(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	req := &models.UpdateBookingRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q := queries.BookingQueries{DB: database.DB}
	if err := q.UpdateBooking(id, userID, req); err != nil {
		if err.Error() == "booking not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := q.GetBookingByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load booking"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": booking})
}

func DeleteBooking(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	q := queries.BookingQueries{DB: database.DB}
	if err := q.CancelBooking(id, userID); err != nil {
		if err.Error() == "booking not found" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Booking cancelled"})
}
