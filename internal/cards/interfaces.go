package cards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
)

// Repository defines persistence operations for production cards.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, cards []models.ProductionCard) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductionCard, error)
	Save(ctx context.Context, card *models.ProductionCard) (*models.ProductionCard, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.ProductionCard, error)
	List(ctx context.Context, filters CardFilters, limit int) ([]models.ProductionCard, error)
	CountCompletedByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	Stats(ctx context.Context) (*CardStats, error)
}
