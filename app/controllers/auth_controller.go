package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartconsult/smartconsult-backend/app/models"
	"github.com/smartconsult/smartconsult-backend/app/queries"
	"github.com/smartconsult/smartconsult-backend/pkg/database"
	"github.com/smartconsult/smartconsult-backend/pkg/session"
	"github.com/smartconsult/smartconsult-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// Sessions is the session manager wired up in main.
var Sessions *session.Manager

func UserRegister(c *fiber.Ctx) error {
	register := &models.Register{}
	if err := c.BodyParser(register); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validate.Struct(register); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	role := register.Role
	if role == "" {
		role = "user"
	}
	if role != "user" && role != "expert" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user role"})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if _, err := userQueries.GetUserByEmail(register.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(register.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         register.Name,
		Email:        register.Email,
		Phone:        register.Phone,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := userQueries.CreateUser(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	tokens, err := Sessions.IssueTokens(*user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered",
		"data":    fiber.Map{"token": tokens.AccessToken, "refresh_token": tokens.RefreshToken, "expires_in": tokens.ExpiresIn},
	})
}

func UserLogin(c *fiber.Ctx) error {
	login := &models.Login{}
	if err := c.BodyParser(login); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validate.Struct(login); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tokens, user, err := Sessions.Login(login.Email, login.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sign in successful",
		"data": fiber.Map{
			"token":              tokens.AccessToken,
			"expires_in":         tokens.ExpiresIn,
			"refresh_token":      tokens.RefreshToken,
			"refresh_expires_at": tokens.RefreshExpiresAt,
			"user":               fiber.Map{"id": user.ID, "email": user.Email, "role": user.Role},
		},
	})
}

func UserLoginWithGoogle(c *fiber.Ctx) error {
	payload := struct {
		IDToken string `json:"id_token" validate:"required"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx := context.Background()
	email, err := utils.ValidateGoogleIDToken(ctx, payload.IDToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByEmail(email)
	if err != nil {
		u := &models.User{
			ID:        uuid.New(),
			Name:      strings.Split(email, "@")[0],
			Email:     email,
			Role:      "user",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := userQueries.CreateUser(u); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user from Google account"})
		}
		user = *u
	}

	tokens, err := Sessions.IssueTokens(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sign in successful",
		"data": fiber.Map{
			"token":              tokens.AccessToken,
			"expires_in":         tokens.ExpiresIn,
			"refresh_token":      tokens.RefreshToken,
			"refresh_expires_at": tokens.RefreshExpiresAt,
			"user":               fiber.Map{"id": user.ID, "email": user.Email, "role": user.Role},
		},
	})
}

func RefreshToken(c *fiber.Ctx) error {
	payload := struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	accessToken, expiresIn, err := Sessions.Refresh(payload.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": accessToken, "expires_in": expiresIn})
}

// CurrentUser answers GET /auth/me; the frontend calls it on an interval to
// keep its session fresh, so an invalid token here must come back 401 and
// nothing else.
func CurrentUser(c *fiber.Ctx) error {
	user, err := Sessions.CurrentUser(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	user.PasswordHash = ""
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": user})
}

func UserLogout(c *fiber.Ctx) error {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{}
	_ = c.BodyParser(&body)

	if err := Sessions.Logout(c.Get("Authorization"), body.RefreshToken); err != nil {
		if err == session.ErrInvalidToken {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke refresh tokens"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Logged out"})
}
