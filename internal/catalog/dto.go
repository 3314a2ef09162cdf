package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

// CreateItemInput captures the fields accepted when cataloging a stock item.
type CreateItemInput struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Type        enums.ItemType  `json:"type" validate:"required"`
	SKU         string          `json:"sku" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	MinStock    int             `json:"minStock" validate:"gte=0"`
	MaxStock    int             `json:"maxStock" validate:"gte=0"`
	Location    *string         `json:"location,omitempty"`
	Supplier    *string         `json:"supplier,omitempty"`

	CanManufacture              bool                  `json:"canManufacture"`
	EstimatedManufacturingHours float64               `json:"estimatedManufacturingHours" validate:"gte=0"`
	ComponentIDs                []uuid.UUID           `json:"componentIds,omitempty"`
	BillOfMaterials             types.BillOfMaterials `json:"billOfMaterials,omitempty"`
}

// UpdateItemInput carries the optional fields of a catalog edit. Nil means
// leave unchanged.
type UpdateItemInput struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Quantity    *int              `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit        *string           `json:"unit,omitempty"`
	UnitPrice   *decimal.Decimal  `json:"unitPrice,omitempty"`
	Status      *enums.ItemStatus `json:"status,omitempty"`
	MinStock    *int              `json:"minStock,omitempty" validate:"omitempty,gte=0"`
	MaxStock    *int              `json:"maxStock,omitempty" validate:"omitempty,gte=0"`
	Location    *string           `json:"location,omitempty"`
	Supplier    *string           `json:"supplier,omitempty"`

	CanManufacture              *bool                  `json:"canManufacture,omitempty"`
	EstimatedManufacturingHours *float64               `json:"estimatedManufacturingHours,omitempty" validate:"omitempty,gte=0"`
	ComponentIDs                *[]uuid.UUID           `json:"componentIds,omitempty"`
	BillOfMaterials             *types.BillOfMaterials `json:"billOfMaterials,omitempty"`
}

// ItemFilters narrows catalog listings.
type ItemFilters struct {
	Type     *enums.ItemType
	Status   *enums.ItemStatus
	Query    string
	LowStock bool
}

// ItemList is one page of catalog rows plus the cursor for the next page.
type ItemList struct {
	Items      []models.InventoryItem
	NextCursor string
}
