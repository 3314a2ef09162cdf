package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
)

// Repository exposes staff-user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a staff repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new staff user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateStaffDTO) (*models.StaffUser, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the staff user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a staff user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the staff user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.StaffUser{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
