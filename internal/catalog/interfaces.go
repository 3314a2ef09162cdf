package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/pagination"
)

// Repository defines persistence operations for the stock catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Save(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params, filters ItemFilters) (*ItemList, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
}
