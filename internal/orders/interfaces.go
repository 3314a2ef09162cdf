package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

// Repository defines persistence operations for manufacturing orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.ManufacturingOrder) (*models.ManufacturingOrder, error)
	Save(ctx context.Context, order *models.ManufacturingOrder) (*models.ManufacturingOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ManufacturingOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	ListActive(ctx context.Context, limit int) ([]models.ManufacturingOrder, error)
	Stats(ctx context.Context) (*OrderStats, error)
}

// CardFactory is the slice of the production card engine the order engine
// needs: spawning an order's cards at creation time and removing them when
// the order itself is removed. Both run inside the order's transaction.
type CardFactory interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, order *models.ManufacturingOrder, components []types.ComponentProgress, perUnitHours float64) ([]models.ProductionCard, error)
	DeleteByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}
