package auth

import (
	"github.com/garzamfg/shopfloor-backend/internal/users"
)

// LoginRequest captures the staff credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and staff profile produced by a successful login.
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         *users.StaffDTO `json:"user"`
}

// RegisterRequest captures the fields needed to provision a staff account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}
