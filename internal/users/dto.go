package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
)

// StaffDTO is the transport shape that omits sensitive credentials.
type StaffDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateStaffDTO holds the data required by the repo to persist a new staff user.
type CreateStaffDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	IsActive     *bool
}

func FromModel(u *models.StaffUser) *StaffDTO {
	if u == nil {
		return nil
	}

	return &StaffDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateStaffDTO) ToModel() *models.StaffUser {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.StaffUser{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		IsActive:     isActive,
	}
}
