package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	"github.com/garzamfg/shopfloor-backend/pkg/lifecycle"
)

// CreateOrderInput captures the fields accepted when queueing a manufacturing
// order. ComponentIDs overrides the model's predefined component list; when
// empty the model's own list is used. Either way the bill of materials is
// resolved from the catalog.
type CreateOrderInput struct {
	ModelID      uuid.UUID   `json:"modelId" validate:"required"`
	Quantity     int         `json:"quantity" validate:"required,gte=1"`
	ClientName   string      `json:"clientName" validate:"required"`
	DueDate      time.Time   `json:"dueDate" validate:"required"`
	Notes        *string     `json:"notes,omitempty"`
	ComponentIDs []uuid.UUID `json:"componentIds,omitempty"`
}

// UpdateOrderInput carries the editable fields of an order. Quantity is fixed
// at creation time because the card batch is already cut. Nil means leave
// unchanged.
type UpdateOrderInput struct {
	ClientName *string    `json:"clientName,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// OrderFilters narrows order listings. AsOf anchors the overdue comparison;
// zero means now. ClientName matches a single client case-insensitively, while
// Query searches client, model name, and SKU.
type OrderFilters struct {
	Status     *lifecycle.Status
	ModelID    *uuid.UUID
	Overdue    bool
	AsOf       time.Time
	DueFrom    *time.Time
	DueTo      *time.Time
	ClientName string
	Query      string
}

// OrderStats is the queue rollup shown on the planning dashboard.
type OrderStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Paused     int64 `json:"paused"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.ManufacturingOrder
	NextCursor string
}

// CreateOrderResult bundles the new order with the card batch cut for it.
type CreateOrderResult struct {
	Order *models.ManufacturingOrder
	Cards []models.ProductionCard
}
