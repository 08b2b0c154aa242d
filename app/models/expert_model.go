package models

import "github.com/google/uuid"

type PromoteExpertRequest struct {
	UserID         uuid.UUID `json:"user_id,omitempty"`
	Specialization string    `json:"specialization" validate:"required,lte=255"`
	Experience     int       `json:"experience" validate:"gte=0"`
	Price          float64   `json:"price" validate:"required,gt=0"`
	Rating         float64   `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

type SuggestExpertRequest struct {
	Concern  string `json:"concern" validate:"required,gte=10,lte=2000"`
	Category string `json:"category,omitempty" validate:"omitempty,lte=100"`
}

type SuggestExpertResponse struct {
	Suggestion string `json:"suggestion"`
	Experts    []User `json:"experts"`
}
