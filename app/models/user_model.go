package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`

	// Expert profile fields, populated only when Role is "expert".
	Specialization string  `json:"specialization,omitempty"`
	Experience     int     `json:"experience,omitempty"`
	Price          float64 `json:"price,omitempty"`
	Rating         float64 `json:"rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
