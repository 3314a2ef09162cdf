package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/garzamfg/shopfloor-backend/pkg/db/types"
	"github.com/garzamfg/shopfloor-backend/pkg/enums"
	"github.com/garzamfg/shopfloor-backend/pkg/types"
)

// InventoryItem is one stock record: a manufacturable model, a sub-assembly
// component, or a raw material. Models additionally declare how they are
// built (component ids, per-component bill of materials, estimated hours).
type InventoryItem struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	Type        enums.ItemType   `gorm:"column:type;type:item_type;not null"`
	SKU         string           `gorm:"column:sku;not null;uniqueIndex:ux_inventory_items_sku"`
	Quantity    int              `gorm:"column:quantity;not null;default:0"`
	Unit        string           `gorm:"column:unit;not null;default:'pcs'"`
	UnitPrice   decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	Status      enums.ItemStatus `gorm:"column:status;type:item_status;not null;default:'active'"`
	MinStock    int              `gorm:"column:min_stock;not null;default:0"`
	MaxStock    int              `gorm:"column:max_stock;not null;default:0"`
	Location    *string          `gorm:"column:location"`
	Supplier    *string          `gorm:"column:supplier"`

	// Model-only manufacturing metadata.
	CanManufacture              bool                  `gorm:"column:can_manufacture;not null;default:false"`
	EstimatedManufacturingHours float64               `gorm:"column:estimated_manufacturing_hours;not null;default:0"`
	ComponentIDs                dbtypes.UUIDArray     `gorm:"column:component_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	BillOfMaterials             types.BillOfMaterials `gorm:"column:bill_of_materials;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
