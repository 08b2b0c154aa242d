package models

import (
	"time"

	"github.com/google/uuid"
)

type Register struct {
	Name     string `json:"name" validate:"required,gte=4,lte=255"`
	Email    string `json:"email" validate:"required,email,lte=255"`
	Phone    string `json:"phone" validate:"omitempty,gte=10,lte=20"`
	Password string `json:"password" validate:"required,gte=8,lte=255"`
	Role     string `json:"role,omitempty"`
}

type Login struct {
	Email    string `json:"email" validate:"required,email,lte=255"`
	Password string `json:"password" validate:"required,lte=255"`
}

type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
