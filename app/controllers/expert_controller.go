package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/smartconsult/smartconsult-backend/app/queries"
	"github.com/smartconsult/smartconsult-backend/pkg/database"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
)

func GetExperts(c *fiber.Ctx) error {
	q := queries.ExpertQueries{DB: database.DB}
	experts, err := q.GetExperts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list experts"})
	}
	for i := range experts {
		experts[i].PasswordHash = ""
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": experts})
}

func GetExpertByID(c *fiber.Ctx) error {
	idStr := c.Params("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	q := queries.ExpertQueries{DB: database.DB}
	expert, err := q.GetExpertByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expert not found"})
	}
	expert.PasswordHash = ""
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": expert})
}

func PromoteExpert(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	req := &models.PromoteExpertRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	target := userID
	if req.UserID != uuid.Nil {
		target = req.UserID
	}

	q := queries.ExpertQueries{DB: database.DB}
	if err := q.PromoteExpert(target, req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Expert profile created"})
}

// SuggestExpert asks the model for a matching recommendation over the current
// expert roster.
func SuggestExpert(c *fiber.Ctx) error {
	req := &models.SuggestExpertRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q := queries.ExpertQueries{DB: database.DB}
	experts, err := q.GetExperts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list experts"})
	}

	var roster strings.Builder
	for _, e := range experts {
		fmt.Fprintf(&roster, "- %s: %s, %d years experience, rating %.1f\n", e.Name, e.Specialization, e.Experience, e.Rating)
	}

	prompt := fmt.Sprintf(
		"A client describes their concern as: %q (category: %s).\nGiven these consultation experts:\n%s\nRecommend the best match in two sentences.",
		req.Concern, req.Category, roster.String(),
	)

	suggestion, err := utils.QueryGemini(prompt)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Suggestion service unavailable"})
	}

	for i := range experts {
		experts[i].PasswordHash = ""
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    models.SuggestExpertResponse{Suggestion: suggestion, Experts: experts},
	})
}
